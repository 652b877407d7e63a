// Package layout classifies screening spreadsheets into one of the known
// column layouts. Classification is a pure function of sheet names and
// header cells.
package layout

import (
	"errors"
	"strings"
)

// MaxColumns is the number of leading columns that carry screening data.
// Anything to the right is ignored.
const MaxColumns = 10

// Names of canonical columns.
const (
	Status      = "Status"
	LastName    = "Last_Name"
	FirstName   = "First_Name"
	SeatNumber  = "Seat_Number"
	StudentID   = "Student_ID"
	Grade       = "Grade"
	Gender      = "Gender"
	DOB         = "DOB"
	TeacherName = "Teacher_Name"
	SPED        = "SPED"
	Period      = "Period"
	CourseTitle = "Course_Title"
)

// ErrUndeterminedLayout is returned when every sheet of a file is
// skip-listed, so there is no header to classify.
var ErrUndeterminedLayout = errors.New("cannot determine sheet layout")

// Variant is a column layout used by a group of schools.
type Variant int

const (
	// Unknown layout; files with this variant produce no records.
	Unknown Variant = iota
	// Elementary layout carries Grade and SPED columns.
	Elementary
	// Middle layout carries Period and Course_Title instead of Grade.
	Middle
)

var columnMaps = map[Variant][]string{
	Elementary: {
		Status, LastName, FirstName, SeatNumber, StudentID,
		Grade, Gender, DOB, TeacherName, SPED,
	},
	Middle: {
		Status, LastName, FirstName, SeatNumber, StudentID,
		DOB, TeacherName, Period, CourseTitle, Gender,
	},
}

// String returns the name of the variant.
func (v Variant) String() string {
	switch v {
	case Elementary:
		return "ELEMENTARY"
	case Middle:
		return "MIDDLE"
	default:
		return "UNKNOWN"
	}
}

// Columns returns the positional column map of the variant. The result is
// a copy and can be modified by the caller.
func (v Variant) Columns() []string {
	cols := columnMaps[v]
	res := make([]string, len(cols))
	copy(res, cols)
	return res
}

// HasColumn returns true if the variant provides the column.
func (v Variant) HasColumn(col string) bool {
	for _, c := range columnMaps[v] {
		if c == col {
			return true
		}
	}
	return false
}

// skipTokens mark sheets with summaries, rosters and other non-data content.
var skipTokens = []string{"all", "address", "summary", "total", "roster"}

// IsSkipped returns true if the sheet name contains one of skip tokens,
// case-insensitively.
func IsSkipped(sheetName string) bool {
	name := strings.ToLower(sheetName)
	for _, tok := range skipTokens {
		if strings.Contains(name, tok) {
			return true
		}
	}
	return false
}

// Header is a name of a sheet together with its first row.
type Header struct {
	SheetName string
	Cells     []string
}

// Classify decides the variant from header cells. Only the first
// MaxColumns cells are considered.
func Classify(cells []string) Variant {
	if len(cells) > MaxColumns {
		cells = cells[:MaxColumns]
	}
	joined := strings.ToLower(strings.Join(cells, " "))
	if strings.Contains(joined, "period") || strings.Contains(joined, "course") {
		return Middle
	}
	return Elementary
}

// Detect classifies a file by the header of its first sheet that is not
// skip-listed. The variant applies to every sheet of the file.
func Detect(headers []Header) (Variant, error) {
	for _, h := range headers {
		if IsSkipped(h.SheetName) {
			continue
		}
		return Classify(h.Cells), nil
	}
	return Unknown, ErrUndeterminedLayout
}
