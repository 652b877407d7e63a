// Package dirio loads the nurse/school directory from a CSV or XLSX file.
package dirio

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/screenload/internal/ent/workbook"
	"github.com/gnames/screenload/pkg/ent/meta"
)

// Names of directory columns.
const (
	colSchool     = "school"
	colDate       = "date"
	colNurseFirst = "nurse_first"
	colNurseLast  = "nurse_last"
	colSC         = "sc"
)

// Load reads directory entries. XLSX files are read with the workbook
// reader, only their first sheet is used. Columns are found by their
// header names, case-insensitively.
func Load(path string, wr workbook.Reader) ([]meta.Entry, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = xlsxRows(path, wr)
	default:
		rows, err = csvRows(path)
	}
	if err != nil {
		slog.Error("Cannot read nurse directory", "path", path, "error", err)
		return nil, err
	}
	return entries(rows)
}

func csvRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func xlsxRows(path string, wr workbook.Reader) ([][]string, error) {
	sheets, err := wr.Read(path)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}
	return sheets[0].Rows, nil
}

func entries(rows [][]string) ([]meta.Entry, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	idx := make(map[string]int)
	for i, h := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{colSchool, colDate, colNurseFirst,
		colNurseLast, colSC} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("nurse directory has no '%s' column", col)
		}
	}

	get := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	res := make([]meta.Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		e := meta.Entry{
			School:     get(row, colSchool),
			Date:       get(row, colDate),
			NurseFirst: get(row, colNurseFirst),
			NurseLast:  get(row, colNurseLast),
			SC:         get(row, colSC),
		}
		if e.School == "" {
			continue
		}
		res = append(res, e)
	}
	slog.Info("Loaded nurse directory", "entries", len(res))
	return res, nil
}
