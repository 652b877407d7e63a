package kvio_test

import (
	"context"
	"os"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/screenload/internal/ent/kv"
	"github.com/gnames/screenload/internal/io/kvio"
	"github.com/gnames/screenload/pkg/ent/grade"
)

var _ = Describe("Kvio", func() {
	var dir string
	var ovr kv.Overrides
	ctx := context.Background()

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "overrides")
		Expect(err).ToNot(HaveOccurred())
		ovr, err = kvio.New(dir)
		Expect(err).ToNot(HaveOccurred())
		Expect(ovr.Open()).To(Succeed())
	})

	AfterEach(func() {
		Expect(ovr.Close()).To(Succeed())
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("saves and finds grades", func() {
		Expect(ovr.SetGrades(map[int]int{10: 3, 11: -1})).To(Succeed())
		gr, ok, err := ovr.Grade(ctx, 11)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(gr).To(Equal(-1))

		_, ok, err = ovr.Grade(ctx, 12)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("imports CSV overrides", func() {
		data := "student_id,grade\n100,K\n101, TK\nabc,3\n102,Q\n103,5.0\n104\n"
		n, err := ovr.Import(strings.NewReader(data))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(3))

		gr, ok, err := grade.Resolve(ctx, 103, ovr.Grade)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(gr).To(Equal(5))
	})

	It("resets the store", func() {
		Expect(ovr.SetGrades(map[int]int{10: 3})).To(Succeed())
		Expect(ovr.Close()).To(Succeed())
		Expect(ovr.Reset()).To(Succeed())
		Expect(ovr.Open()).To(Succeed())
		_, ok, err := ovr.Grade(ctx, 10)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
