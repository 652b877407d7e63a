package kvio

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strings"

	"github.com/gnames/screenload/pkg/ent/grade"
	"github.com/gnames/screenload/pkg/ent/record"
)

// Import reads "student_id,grade" rows. A header row and rows with bad IDs
// or grades are skipped with a warning.
func (k *kvio) Import(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	grades := make(map[int]int)
	var line int
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Error("Cannot read CSV line", "error", err)
			return 0, err
		}
		line++
		if len(row) < 2 {
			slog.Warn("Too few fields in override", "line", line)
			continue
		}

		id, err := record.ParseID(row[0])
		if err != nil {
			if line > 1 || !strings.Contains(strings.ToLower(row[0]), "id") {
				slog.Warn("Bad student ID in override",
					"line", line, "id", row[0])
			}
			continue
		}
		gr, err := grade.Normalize(row[1])
		if err != nil {
			slog.Warn("Bad grade in override",
				"line", line, "id", id, "grade", row[1])
			continue
		}
		grades[id] = gr
	}

	if err := k.SetGrades(grades); err != nil {
		return 0, err
	}
	return len(grades), nil
}
