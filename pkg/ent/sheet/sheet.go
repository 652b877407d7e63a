// Package sheet turns raw spreadsheet sheets into canonical screening rows.
package sheet

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gnames/screenload/pkg/ent/layout"
)

var (
	// ErrSkippedSheet means the sheet name is in the skip-list.
	ErrSkippedSheet = errors.New("sheet is skip-listed")

	// ErrNoPresenceCodes means the sheet has no recognizable presence codes
	// in its Status column, so it does not contain screening data.
	ErrNoPresenceCodes = errors.New("sheet has no valid presence codes")
)

// presenceCodes is a closed set of codes expected in the Status column.
var presenceCodes = map[string]struct{}{
	"P":   {},
	"NP":  {},
	"ABS": {},
	"CNC": {},
}

// IsPresenceCode checks a status value against known presence codes,
// ignoring case and surrounding spaces.
func IsPresenceCode(s string) bool {
	_, ok := presenceCodes[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// Raw is a sheet as it was read from a workbook. The first row is the
// header, the rest are data rows.
type Raw struct {
	// Name is the name of the sheet in its workbook.
	Name string

	// Rows contain cell values, rows might have different lengths.
	Rows [][]string
}

// Header returns the first row of the sheet or nil for an empty sheet.
func (r Raw) Header() []string {
	if len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[0]
}

// Row is a normalized per-student-per-day screening row.
type Row struct {
	Status     string
	LastName   string
	FirstName  string
	SeatNumber string
	StudentID  string
	// Grade is a raw grade value. It is empty when the layout has no
	// Grade column or the cell is blank.
	Grade       string
	Gender      string
	DOB         string
	TeacherName string
	// SPEDOrPeriodOrCourse holds SPED for the elementary layout and
	// "Period / Course_Title" for the middle school layout.
	SPEDOrPeriodOrCourse string
	SheetName            string
}

// Normalize maps all sheets of a file into canonical rows using the
// file's layout. Rejected sheets are logged and left out; the result keeps
// the order of sheets and rows.
func Normalize(sheets []Raw, v layout.Variant) []Row {
	var res []Row
	for _, s := range sheets {
		rows, err := NormalizeSheet(s, v)
		switch {
		case errors.Is(err, ErrSkippedSheet):
			slog.Info("Skipping sheet", "sheet", s.Name)
			continue
		case err != nil:
			slog.Warn("Rejecting sheet", "sheet", s.Name, "error", err)
			continue
		}
		res = append(res, rows...)
	}
	return res
}

// NormalizeSheet renames the leading columns of a sheet according to the
// column map of the variant and keeps rows with a valid presence code.
func NormalizeSheet(s Raw, v layout.Variant) ([]Row, error) {
	if layout.IsSkipped(s.Name) {
		return nil, ErrSkippedSheet
	}
	if len(s.Rows) < 2 {
		return nil, nil
	}

	idx := columnIndex(v, len(s.Header()))

	var res []Row
	var nonBlank int
	for _, cells := range s.Rows[1:] {
		status := cell(cells, idx, layout.Status)
		if status == "" {
			continue
		}
		nonBlank++
		if !IsPresenceCode(status) {
			continue
		}
		res = append(res, newRow(cells, idx, v, s.Name))
	}

	if nonBlank > 0 && len(res) == 0 {
		return nil, ErrNoPresenceCodes
	}
	return res, nil
}

// columnIndex assigns positions to column names of the variant. When the
// header is narrower than the column map, only its prefix is used, the rest
// of the columns are absent.
func columnIndex(v layout.Variant, width int) map[string]int {
	cols := v.Columns()
	if width < len(cols) {
		cols = cols[:width]
	}
	res := make(map[string]int, len(cols))
	for i, c := range cols {
		res[c] = i
	}
	return res
}

func cell(cells []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func newRow(
	cells []string,
	idx map[string]int,
	v layout.Variant,
	sheetName string,
) Row {
	res := Row{
		Status:      cell(cells, idx, layout.Status),
		LastName:    cell(cells, idx, layout.LastName),
		FirstName:   cell(cells, idx, layout.FirstName),
		SeatNumber:  cell(cells, idx, layout.SeatNumber),
		StudentID:   cell(cells, idx, layout.StudentID),
		Grade:       cell(cells, idx, layout.Grade),
		Gender:      cell(cells, idx, layout.Gender),
		DOB:         cell(cells, idx, layout.DOB),
		TeacherName: cell(cells, idx, layout.TeacherName),
		SheetName:   sheetName,
	}

	if v.HasColumn(layout.SPED) {
		res.SPEDOrPeriodOrCourse = cell(cells, idx, layout.SPED)
		return res
	}

	var pc []string
	for _, col := range []string{layout.Period, layout.CourseTitle} {
		if v := cell(cells, idx, col); v != "" {
			pc = append(pc, v)
		}
	}
	res.SPEDOrPeriodOrCourse = strings.Join(pc, " / ")
	return res
}
