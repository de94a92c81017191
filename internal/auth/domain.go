package auth

import "time"

// UsersKey is the registry of all accounts. It is the one collection that is
// deliberately not namespaced per user.
const UsersKey = "users"

// User represents an account. Entity collections are partitioned by its ID.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
