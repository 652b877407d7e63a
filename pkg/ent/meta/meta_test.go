package meta_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/screenload/pkg/ent/meta"
)

var entries = []meta.Entry{
	{School: "Roosevelt Middle", Date: "9/12/2025", NurseFirst: "Ann",
		NurseLast: "Lee", SC: "12"},
	{School: "Lincoln Elementary", Date: "September 15, 2025",
		NurseFirst: "mary ann", NurseLast: "smith", SC: "3"},
	{School: "Lincoln Annex", Date: "9/20/2025", NurseFirst: "Bob",
		NurseLast: "Ray", SC: "4"},
	{School: "Garfield", Date: "soon", NurseFirst: "Al", NurseLast: "Bo",
		SC: "5"},
}

var _ = Describe("Meta", func() {
	r := meta.NewResolver(entries)

	It("takes the first matching directory entry", func() {
		f := r.Resolve("LINCOLN Hearing 9_15_25.xlsx")
		Expect(f.Matched()).To(BeTrue())
		Expect(f.SchoolName).To(Equal("Lincoln Elementary"))
		Expect(f.SchoolCode).To(Equal("3"))
		Expect(f.NurseName).To(Equal("mary ann smith"))
		Expect(f.NurseInitials).To(Equal("MAS"))
		Expect(f.ScreeningDate).
			To(Equal(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)))
	})

	It("leaves all fields absent without a match", func() {
		f := r.Resolve("Unknown 9_15_25.xlsx")
		Expect(f.Matched()).To(BeFalse())
		Expect(f.SchoolCode).To(BeEmpty())
		Expect(f.NurseName).To(BeEmpty())
		Expect(f.NurseInitials).To(BeEmpty())
		Expect(f.ScreeningDate.IsZero()).To(BeTrue())
		Expect(f.FileDate).
			To(Equal(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)))
		Expect(f.Date()).To(Equal(f.FileDate))
	})

	It("keeps unparseable directory dates absent", func() {
		f := r.Resolve("Garfield.xlsx")
		Expect(f.Matched()).To(BeTrue())
		Expect(f.ScreeningDate.IsZero()).To(BeTrue())
		Expect(f.FileDate.IsZero()).To(BeTrue())
		Expect(f.Date().IsZero()).To(BeTrue())
	})

	It("prefers the directory date over the file date", func() {
		f := r.Resolve("Roosevelt 9_10_25.xlsx")
		Expect(f.Date()).
			To(Equal(time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)))
	})

	It("falls back to the file date for upper-case extensions", func() {
		f := r.Resolve("Unknown 9_15_25.XLSX")
		Expect(f.Matched()).To(BeFalse())
		Expect(f.Date()).
			To(Equal(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)))
	})

	It("extracts dates from file names", func() {
		Expect(meta.FileDate("x 1_05_24.xlsx")).
			To(Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
		Expect(meta.FileDate("Lincoln 9_15_25.XLSX")).
			To(Equal(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)))
		Expect(meta.FileDate("Lincoln 9_15_25.Xlsx")).
			To(Equal(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)))
		Expect(meta.FileDate("x 12_31_24")).
			To(Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
		Expect(meta.FileDate("x.xlsx").IsZero()).To(BeTrue())
		Expect(meta.FileDate("x 13_40_24.xlsx").IsZero()).To(BeTrue())
	})
})
