package myio_test

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/gnames/screenload/internal/io/myio"
	"github.com/gnames/screenload/pkg/config"
	"github.com/gnames/screenload/pkg/ent/upload"
)

var _ = Describe("Store", func() {
	var mock sqlmock.Sqlmock
	var store upload.Store
	ctx := context.Background()
	day := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)

	BeforeEach(func() {
		db, m, err := sqlmock.New()
		Expect(err).ToNot(HaveOccurred())
		mock = m
		store = myio.NewWithDB(db, config.New())
	})

	AfterEach(func() {
		mock.ExpectClose()
		Expect(store.Close()).To(Succeed())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	Describe("HasRecord", func() {
		q := regexp.QuoteMeta("SELECT 1 FROM `hrn` WHERE pid = ? AND td = ?")

		It("finds an existing screening", func() {
			mock.ExpectQuery(q).WithArgs(100, day).
				WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))
			ok, err := store.HasRecord(ctx, 100, day)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("returns false without rows", func() {
			mock.ExpectQuery(q).WithArgs(100, day).
				WillReturnRows(sqlmock.NewRows([]string{"one"}))
			ok, err := store.HasRecord(ctx, 100, day)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("MaxSeq", func() {
		q := regexp.QuoteMeta("SELECT MAX(sq) FROM `hrn` WHERE pid = ?")

		It("returns the largest sequence number", func() {
			mock.ExpectQuery(q).WithArgs(100).
				WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(4))
			sq, found, err := store.MaxSeq(ctx, 100)
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(sq).To(Equal(4))
		})

		It("reports no history for NULL", func() {
			mock.ExpectQuery(q).WithArgs(200).
				WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
			sq, found, err := store.MaxSeq(ctx, 200)
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(BeFalse())
			Expect(sq).To(Equal(0))
		})
	})

	Describe("StudentGrade", func() {
		q := regexp.QuoteMeta(
			"SELECT gr FROM `stu` WHERE del = 0 AND tg = '' AND id = ?")

		It("returns the grade of an active student", func() {
			mock.ExpectQuery(q).WithArgs(100).
				WillReturnRows(sqlmock.NewRows([]string{"gr"}).AddRow(3))
			gr, found, err := store.StudentGrade(ctx, 100)
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(gr).To(Equal(3))
		})

		It("does not find deleted or transferred students", func() {
			mock.ExpectQuery(q).WithArgs(300).
				WillReturnRows(sqlmock.NewRows([]string{"gr"}))
			_, found, err := store.StudentGrade(ctx, 300)
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(BeFalse())
		})
	})

	Describe("Insert", func() {
		q := regexp.QuoteMeta("INSERT INTO `hrn`")
		scl := 3
		s := upload.Screening{
			PID: 100, SQ: 1, GR: 3, SR: "P", SL: "P", PF: "P",
			TD: day, SCL: &scl, IN: "HS",
		}

		It("commits a new screening", func() {
			mock.ExpectBegin()
			mock.ExpectExec(q).
				WithArgs(100, 1, 3, "P", "P", "P", day, 3, "HS").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()
			Expect(store.Insert(ctx, s)).To(Succeed())
		})

		It("keeps NULL school code", func() {
			s := s
			s.SCL = nil
			mock.ExpectBegin()
			mock.ExpectExec(q).
				WithArgs(100, 1, 3, "P", "P", "P", day, nil, "HS").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()
			Expect(store.Insert(ctx, s)).To(Succeed())
		})

		It("rolls back a failed insert", func() {
			errDB := errors.New("duplicate key")
			mock.ExpectBegin()
			mock.ExpectExec(q).WillReturnError(errDB)
			mock.ExpectRollback()
			Expect(store.Insert(ctx, s)).To(MatchError(errDB))
		})
	})
})
