package grade_test

import (
	"context"
	"errors"
	"strconv"

	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/gnames/screenload/pkg/ent/grade"
)

var _ = Describe("Grade", func() {
	table.DescribeTable("Normalize",
		func(raw string, want int) {
			g, err := grade.Normalize(raw)
			Expect(err).ToNot(HaveOccurred())
			Expect(g).To(Equal(want))
		},
		table.Entry("number", "7", 7),
		table.Entry("float string", "5.0", 5),
		table.Entry("float truncated", "3.9", 3),
		table.Entry("spaces", " 11 ", 11),
		table.Entry("kindergarten", "K", 0),
		table.Entry("kindergarten lowercase", "k", 0),
		table.Entry("transitional", "TK", -1),
		table.Entry("transitional dash", "T-K", -1),
		table.Entry("transitional space", "t k", -1),
		table.Entry("preschool", "PS", -2),
		table.Entry("preschool dash", "P-S", -2),
		table.Entry("preschool space", "P S", -2),
		table.Entry("preschool word", "Preschool", -2),
		table.Entry("negative number", "-1", -1),
	)

	table.DescribeTable("Normalize absent values",
		func(raw string, want error) {
			_, err := grade.Normalize(raw)
			Expect(err).To(MatchError(want))
		},
		table.Entry("blank", "", grade.ErrMissing),
		table.Entry("spaces", "   ", grade.ErrMissing),
		table.Entry("letter", "Q", grade.ErrUnparseable),
		table.Entry("too high", "13", grade.ErrUnparseable),
		table.Entry("too low", "-3", grade.ErrUnparseable),
		table.Entry("not a number", "NaN", grade.ErrUnparseable),
	)

	It("is idempotent", func() {
		inputs := []string{"K", "TK", "T K", "PS", "PRESCHOOL", "5.0", "12",
			"0", "-2", "Q", "", "13"}
		for _, in := range inputs {
			g1, err1 := grade.Normalize(in)
			if err1 != nil {
				continue
			}
			g2, err2 := grade.Normalize(strconv.Itoa(g1))
			Expect(err2).ToNot(HaveOccurred())
			Expect(g2).To(Equal(g1))
			g3, err3 := grade.Normalize(grade.String(g1))
			Expect(err3).ToNot(HaveOccurred())
			Expect(g3).To(Equal(g1))
		}
	})

	Describe("Resolve", func() {
		ctx := context.Background()
		none := func(context.Context, int) (int, bool, error) {
			return 0, false, nil
		}
		found := func(g int) grade.Resolver {
			return func(context.Context, int) (int, bool, error) {
				return g, true, nil
			}
		}

		It("prefers inline grade", func() {
			g := 4
			res, ok, err := grade.Resolve(ctx, 1, grade.Inline(&g), found(9))
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(res).To(Equal(4))
		})

		It("falls back in order", func() {
			res, ok, err := grade.Resolve(ctx, 1, grade.Inline(nil), none,
				found(6), found(9))
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(res).To(Equal(6))
		})

		It("reports missing grade", func() {
			_, ok, err := grade.Resolve(ctx, 1, grade.Inline(nil), none)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("stops on errors", func() {
			boom := errors.New("boom")
			failing := func(context.Context, int) (int, bool, error) {
				return 0, false, boom
			}
			_, ok, err := grade.Resolve(ctx, 1, none, failing, found(2))
			Expect(err).To(MatchError(boom))
			Expect(ok).To(BeFalse())
		})
	})
})
