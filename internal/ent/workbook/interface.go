package workbook

import "github.com/gnames/screenload/pkg/ent/sheet"

// Reader reads all sheets of a spreadsheet file.
type Reader interface {
	// Read returns sheets of a file in workbook order. An error means the
	// file cannot be read at all.
	Read(path string) ([]sheet.Raw, error)
}
