package export

import (
	"github.com/gnames/screenload/pkg/ent/record"
	"github.com/gnames/screenload/pkg/ent/upload"
)

// Exporter writes artifact files of a run.
type Exporter interface {
	// Records writes all candidate records. Results are matched to records
	// by position, records without a result have an empty outcome.
	Records(recs []record.Candidate, res []upload.Result) error

	// Quarantine writes rows with missing or invalid student IDs.
	Quarantine(q []record.Quarantined) error

	// Summary writes run statistics as JSON.
	Summary(s any) error
}
