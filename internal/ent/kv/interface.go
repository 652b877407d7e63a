package kv

import (
	"context"
	"io"
)

// Overrides is a persistent key-value table of manually corrected grades,
// keyed by student ID.
type Overrides interface {
	// Open opens a key-value store.
	Open() error

	// Close closes a key-value store.
	Close() error

	// Reset removes all overrides. The store must be closed.
	Reset() error

	// SetGrades saves grades for student IDs, replacing previous values.
	SetGrades(grades map[int]int) error

	// Import reads "student_id,grade" CSV rows and saves them. It returns
	// the number of saved overrides.
	Import(r io.Reader) (int, error)

	// Grade returns an override for a student, found is false if there is
	// none. It has the signature of grade.Resolver.
	Grade(ctx context.Context, studentID int) (gr int, found bool, err error)
}
