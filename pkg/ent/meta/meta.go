// Package meta derives per-file context of a screening spreadsheet: school,
// screening date, nurse and school code.
package meta

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gnames/screenload/internal/str"
	"golang.org/x/text/cases"
)

// Entry is a row of the nurse/school directory.
type Entry struct {
	School     string
	Date       string
	NurseFirst string
	NurseLast  string
	SC         string
}

// File contains metadata of one input file. Empty strings and zero dates
// mean the value is absent.
type File struct {
	// FileName is the base name of the input file.
	FileName string

	// SchoolName comes from the matched directory entry.
	SchoolName string

	// ScreeningDate is parsed from the date of the directory entry.
	ScreeningDate time.Time

	// NurseName is the full name of the responsible nurse.
	NurseName string

	// NurseInitials are first letters of NurseName.
	NurseInitials string

	// SchoolCode is the code of the school in the student-information
	// system.
	SchoolCode string

	// FileDate is a date found at the end of the file name.
	FileDate time.Time
}

// Matched is true when the file was found in the directory.
func (f File) Matched() bool {
	return f.SchoolName != ""
}

// Date returns the date of screening. ScreeningDate takes priority over
// the date from the file name. The result is zero if both are absent.
func (f File) Date() time.Time {
	if !f.ScreeningDate.IsZero() {
		return f.ScreeningDate
	}
	return f.FileDate
}

// Resolver matches file names to the directory.
type Resolver struct {
	entries []Entry
}

// NewResolver creates a Resolver for directory entries.
func NewResolver(entries []Entry) *Resolver {
	return &Resolver{entries: entries}
}

// Resolve finds metadata for a file. The school token is the first word of
// the file name, it matches the first directory entry with a school name
// containing the token, case-insensitively.
func (r *Resolver) Resolve(fileName string) File {
	res := File{FileName: fileName, FileDate: FileDate(fileName)}

	token := str.FirstToken(fileName)
	e, ok := r.match(token)
	if !ok {
		slog.Warn("Cannot find school in nurse directory",
			"file", fileName, "token", token)
		return res
	}

	res.SchoolName = strings.TrimSpace(e.School)
	res.SchoolCode = strings.TrimSpace(e.SC)
	res.NurseName = strings.Join(
		strings.Fields(e.NurseFirst+" "+e.NurseLast), " ",
	)
	res.NurseInitials = str.Initials(res.NurseName)

	if d := strings.TrimSpace(e.Date); d != "" {
		date, err := dateparse.ParseAny(d)
		if err != nil {
			slog.Warn("Cannot parse screening date",
				"file", fileName, "date", d, "error", err)
		} else {
			res.ScreeningDate = dateOnly(date)
		}
	}
	return res
}

func (r *Resolver) match(token string) (Entry, bool) {
	if token == "" {
		return Entry{}, false
	}
	fold := cases.Fold()
	token = fold.String(token)
	for _, e := range r.entries {
		if strings.Contains(fold.String(e.School), token) {
			return e, true
		}
	}
	return Entry{}, false
}

var fileDateRe = regexp.MustCompile(`(?i)(\d{1,2}_\d{2}_\d{2})(?:\.xlsx)?$`)

// FileDate extracts a M_DD_YY date from the end of a file name. It returns
// zero time if there is no such date.
func FileDate(fileName string) time.Time {
	m := fileDateRe.FindStringSubmatch(fileName)
	if m == nil {
		return time.Time{}
	}
	date, err := time.Parse("1_02_06", m[1])
	if err != nil {
		slog.Warn("Cannot parse date from file name",
			"file", fileName, "error", err)
		return time.Time{}
	}
	return date
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
