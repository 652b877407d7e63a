package xlsxio_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/gnames/screenload/internal/io/xlsxio"
)

var _ = Describe("Xlsxio", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "xlsxio")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("reads all sheets in order", func() {
		path := filepath.Join(dir, "Lincoln 9_15_25.xlsx")
		f := excelize.NewFile()
		Expect(f.SetSheetName("Sheet1", "Summary")).To(Succeed())
		_, err := f.NewSheet("Room 1")
		Expect(err).ToNot(HaveOccurred())
		Expect(f.SetSheetRow("Summary", "A1",
			&[]any{"Total", 12})).To(Succeed())
		Expect(f.SetSheetRow("Room 1", "A1",
			&[]any{"Status", "Last", "First", "Seat", "ID"})).To(Succeed())
		Expect(f.SetSheetRow("Room 1", "A2",
			&[]any{"P", "Doe", "Jane", 3, 100200})).To(Succeed())
		Expect(f.SaveAs(path)).To(Succeed())
		Expect(f.Close()).To(Succeed())

		sheets, err := xlsxio.New().Read(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(sheets).To(HaveLen(2))
		Expect(sheets[0].Name).To(Equal("Summary"))
		Expect(sheets[1].Name).To(Equal("Room 1"))
		Expect(sheets[1].Header()).To(HaveLen(5))
		Expect(sheets[1].Rows[1]).
			To(Equal([]string{"P", "Doe", "Jane", "3", "100200"}))
	})

	It("returns an error for unreadable files", func() {
		path := filepath.Join(dir, "broken.xlsx")
		Expect(os.WriteFile(path, []byte("not a workbook"), 0644)).To(Succeed())
		_, err := xlsxio.New().Read(path)
		Expect(err).To(HaveOccurred())
	})
})
