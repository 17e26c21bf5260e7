package ports

import (
	"context"

	"gradebook/domain/student"
)

// StudentStore owns the persisted student table.
// Implementations must never expose a partially written file.
type StudentStore interface {
	// EnsureInitialized creates an empty, header-only store if none exists
	EnsureInitialized() error
	// LoadAll reads the full table; the caller owns the returned slice
	LoadAll(ctx context.Context) (student.Table, error)
	// AppendAndSave adds rec as the last row and persists the whole table
	AppendAndSave(ctx context.Context, rec student.Record) error
}
