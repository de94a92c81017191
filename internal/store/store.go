// Package store provides the durable key-value layer backing every entity
// collection. Values are whole JSON documents; one key holds one collection.
package store

import "context"

// Store abstracts durable key-value persistence so repositories never touch a
// concrete client. Implementations must keep Set durable before returning.
type Store interface {
	// Get unmarshals the value under key into dest. It reports false when the
	// key is absent, leaving dest untouched.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set marshals value and overwrites key.
	Set(ctx context.Context, key string, value any) error
	// SetMulti overwrites every key in entries in a single atomic commit.
	// Either all writes land or none do.
	SetMulti(ctx context.Context, entries map[string]any) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
