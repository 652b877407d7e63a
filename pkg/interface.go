package screenload

import "context"

// Screenload is an interface for the daily screening upload.
type Screenload interface {
	// Run normalizes all input spreadsheets, writes export files and, if
	// enabled, uploads present students to the database.
	Run(ctx context.Context) (Summary, error)
}
