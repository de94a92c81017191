package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/gestao-facil/gestao-facil/internal/auth"
	"github.com/gestao-facil/gestao-facil/internal/backup"
	"github.com/gestao-facil/gestao-facil/internal/lowstock"
	"github.com/gestao-facil/gestao-facil/internal/observability"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLowStockScan refreshes low stock alerts for every account.
	TaskTypeLowStockScan = "lowstock:scan"
	// TaskTypeBackupCreate takes a scheduled snapshot for every account.
	TaskTypeBackupCreate = "backup:create"
)

// ScanPayload carries scheduling metadata for recurring tasks.
type ScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewLowStockScanTask constructs an Asynq task for the low stock sweep.
func NewLowStockScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLowStockScan, body, asynq.Queue(QueueDefault)), nil
}

// NewBackupCreateTask constructs an Asynq task for scheduled backups.
func NewBackupCreateTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeBackupCreate, body, asynq.Queue(QueueDefault)), nil
}

// Tasks bundles the services the background handlers operate on.
type Tasks struct {
	Logger  *slog.Logger
	Users   *auth.Service
	Monitor *lowstock.Monitor
	Backups *backup.Service
	Metrics *observability.Metrics
}

// HandleLowStockScan refreshes the low stock alert state for all accounts.
func (t *Tasks) HandleLowStockScan(ctx context.Context, task *asynq.Task) error {
	var payload ScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	ids, err := t.Users.ListUserIDs(ctx)
	if err != nil {
		t.Metrics.RecordJob(TaskTypeLowStockScan, "error")
		return err
	}
	var failed int
	for _, id := range ids {
		if _, err := t.Monitor.Refresh(ctx, id); err != nil {
			failed++
			t.Logger.Warn("low stock scan", slog.String("user", id), slog.Any("error", err))
		}
	}
	if failed > 0 {
		t.Metrics.RecordJob(TaskTypeLowStockScan, "error")
	} else {
		t.Metrics.RecordJob(TaskTypeLowStockScan, "ok")
	}
	t.Logger.Info("low stock scan done", slog.Int("users", len(ids)), slog.Int("failed", failed))
	return nil
}

// HandleBackupCreate snapshots the data of all accounts.
func (t *Tasks) HandleBackupCreate(ctx context.Context, task *asynq.Task) error {
	var payload ScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	ids, err := t.Users.ListUserIDs(ctx)
	if err != nil {
		t.Metrics.RecordJob(TaskTypeBackupCreate, "error")
		return err
	}
	var failed int
	for _, id := range ids {
		name := ""
		if user, err := t.Users.Get(ctx, id); err == nil {
			name = user.Name
		}
		if err := t.Backups.CreateBackup(ctx, id, name); err != nil {
			failed++
			t.Logger.Warn("scheduled backup", slog.String("user", id), slog.Any("error", err))
		}
	}
	if failed > 0 {
		t.Metrics.RecordJob(TaskTypeBackupCreate, "error")
	} else {
		t.Metrics.RecordJob(TaskTypeBackupCreate, "ok")
	}
	t.Logger.Info("scheduled backups done", slog.Int("users", len(ids)), slog.Int("failed", failed))
	return nil
}
