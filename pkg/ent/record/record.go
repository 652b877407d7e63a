// Package record joins normalized sheet rows with file metadata into
// candidate records for upload.
package record

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gnames/screenload/pkg/ent/grade"
	"github.com/gnames/screenload/pkg/ent/layout"
	"github.com/gnames/screenload/pkg/ent/meta"
	"github.com/gnames/screenload/pkg/ent/sheet"
)

var (
	// ErrMissingID means the Student_ID cell is blank.
	ErrMissingID = errors.New("student ID is missing")

	// ErrInvalidID means the Student_ID cell is not an integer.
	ErrInvalidID = errors.New("student ID is not an integer")
)

// Candidate is a normalized row together with metadata of its file.
type Candidate struct {
	// Row is the normalized sheet row.
	Row sheet.Row

	// File is metadata of the input file.
	File meta.File

	// PID is the parsed Student_ID.
	PID int

	// Grade is the normalized grade, nil when absent.
	Grade *int
}

// Quarantined is a row that cannot be uploaded because of its student ID.
type Quarantined struct {
	Row    sheet.Row
	File   meta.File
	Reason string
}

// Assembly is the result of assembling rows of one file.
type Assembly struct {
	// Records are present students with valid IDs in original row order.
	Records []Candidate

	// Quarantine are rows with missing or invalid IDs.
	Quarantine []Quarantined

	// NotPresent is the number of valid rows with a presence code other
	// than the present one.
	NotPresent int
}

// ParseID parses a student ID.
func ParseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingID
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// Assemble converts rows of a file to candidate records. Rows with bad IDs
// are quarantined first, then only rows with presentCode status are kept.
// Blank grades are reported only when the layout v has a Grade column.
func Assemble(
	rows []sheet.Row,
	f meta.File,
	v layout.Variant,
	presentCode string,
) Assembly {
	var res Assembly
	presentCode = strings.ToUpper(strings.TrimSpace(presentCode))

	for _, row := range rows {
		pid, err := ParseID(row.StudentID)
		if err != nil {
			slog.Warn("Quarantining row",
				"file", f.FileName, "sheet", row.SheetName,
				"name", row.LastName+", "+row.FirstName,
				"id", row.StudentID, "error", err,
			)
			res.Quarantine = append(res.Quarantine,
				Quarantined{Row: row, File: f, Reason: err.Error()})
			continue
		}

		if strings.ToUpper(strings.TrimSpace(row.Status)) != presentCode {
			res.NotPresent++
			continue
		}

		c := Candidate{Row: row, File: f, PID: pid}
		g, err := grade.Normalize(row.Grade)
		switch {
		case err == nil:
			c.Grade = &g
		case errors.Is(err, grade.ErrUnparseable):
			slog.Warn("Cannot normalize grade",
				"file", f.FileName, "id", pid, "grade", row.Grade)
		case errors.Is(err, grade.ErrMissing) && v.HasColumn(layout.Grade):
			slog.Warn("Grade is missing",
				"file", f.FileName, "sheet", row.SheetName, "id", pid)
		}
		res.Records = append(res.Records, c)
	}
	return res
}
