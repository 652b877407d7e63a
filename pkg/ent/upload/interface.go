package upload

import (
	"context"
	"time"
)

// Store is the relational store with screening history and the student
// directory. Every call is a separate round trip; implementations acquire
// a connection per call and release it on every exit path.
//
// Sequence numbers are computed as MaxSeq+1 without a transaction spanning
// the lookup and the insert, so only one uploader may write to a store at a
// time.
type Store interface {
	// HasRecord checks if a screening record for the student and date
	// already exists.
	HasRecord(ctx context.Context, pid int, td time.Time) (bool, error)

	// MaxSeq returns the largest sequence number of the student's
	// screenings. found is false if the student has no history.
	MaxSeq(ctx context.Context, pid int) (sq int, found bool, err error)

	// StudentGrade returns the current grade of an active student.
	StudentGrade(ctx context.Context, pid int) (gr int, found bool, err error)

	// Insert saves a screening record in a single transaction.
	Insert(ctx context.Context, s Screening) error

	// Close releases the store's resources.
	Close() error
}
