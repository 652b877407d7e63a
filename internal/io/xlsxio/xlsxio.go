package xlsxio

import (
	"log/slog"

	"github.com/gnames/screenload/internal/ent/workbook"
	"github.com/gnames/screenload/pkg/ent/sheet"
	"github.com/xuri/excelize/v2"
)

type xlsxio struct{}

// New returns a reader of XLSX workbooks.
func New() workbook.Reader {
	return xlsxio{}
}

// Read opens a workbook and reads cells of all its sheets as formatted
// strings. Sheets that cannot be read are skipped with a warning.
func (x xlsxio) Read(path string) ([]sheet.Raw, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Cannot close workbook", "path", path, "error", err)
		}
	}()

	names := f.GetSheetList()
	res := make([]sheet.Raw, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			slog.Warn("Cannot read sheet",
				"path", path, "sheet", name, "error", err)
			continue
		}
		res = append(res, sheet.Raw{Name: name, Rows: rows})
	}
	return res, nil
}
