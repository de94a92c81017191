package backup

import (
	"fmt"
	"time"

	"github.com/gestao-facil/gestao-facil/internal/clients"
	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/transactions"
)

// ExportVersion tags every snapshot; imports accept any version carrying a
// structurally valid payload.
const ExportVersion = "1.0"

// Key returns the backup collection key for one user. Backups are
// namespaced per user like every other collection.
func Key(userID string) string {
	return fmt.Sprintf("backups_%s", userID)
}

// Metadata describes who produced a snapshot and when.
type Metadata struct {
	ExportDate time.Time  `json:"exportDate"`
	BackupDate *time.Time `json:"backupDate,omitempty"`
	Version    string     `json:"version"`
	User       string     `json:"user"`
	UserID     string     `json:"userId"`
}

// Data bundles the three entity collections.
type Data struct {
	Products     []products.Product         `json:"products"`
	Clients      []clients.Client           `json:"clients"`
	Transactions []transactions.Transaction `json:"transactions"`
}

// Snapshot is a portable copy of one user's collections. With BackupDate set
// it doubles as an automatic backup entry.
type Snapshot struct {
	Metadata Metadata `json:"metadata"`
	Data     Data     `json:"data"`
}
