// Package upload reconciles candidate records with screening history and
// inserts new records.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/screenload/pkg/ent/grade"
	"github.com/gnames/screenload/pkg/ent/record"
)

var (
	// ErrNoGrade means no grade source knows the student's grade.
	ErrNoGrade = errors.New("no grade available")

	// ErrNoDate means the record has neither screening date nor file date.
	ErrNoDate = errors.New("no screening date")
)

// Screening is a record of the screening history table.
type Screening struct {
	PID int
	SQ  int
	GR  int
	SR  string
	SL  string
	PF  string
	TD  time.Time
	// SCL is nil when the school code is absent.
	SCL *int
	IN  string
}

// Outcome of uploading one record.
type Outcome int

const (
	// Success means the record was inserted.
	Success Outcome = iota + 1
	// Skipped means the record lacks an ID, a date or a grade.
	Skipped
	// Duplicate means the store has a record for the same student and date.
	Duplicate
	// Failed means the store returned an error.
	Failed
)

// String returns a name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Skipped:
		return "skipped"
	case Duplicate:
		return "duplicate"
	case Failed:
		return "error"
	default:
		return ""
	}
}

// Result is an outcome for one candidate record.
type Result struct {
	Outcome Outcome
	// SQ is the sequence number of the inserted record, zero for other
	// outcomes.
	SQ int
	// GR is the grade used for the insert.
	GR int
	// Err explains skipped and failed outcomes.
	Err error
}

// Summary counts outcomes of an upload.
type Summary struct {
	Success   int `json:"success"`
	Skipped   int `json:"skipped"`
	Duplicate int `json:"duplicate"`
	Error     int `json:"error"`
}

// Total is the number of records considered.
func (s Summary) Total() int {
	return s.Success + s.Skipped + s.Duplicate + s.Error
}

func (s *Summary) add(o Outcome) {
	switch o {
	case Success:
		s.Success++
	case Skipped:
		s.Skipped++
	case Duplicate:
		s.Duplicate++
	case Failed:
		s.Error++
	}
}

// Engine uploads candidate records to a Store.
type Engine struct {
	store     Store
	submitter string
	overrides grade.Resolver
}

// Option changes Engine settings.
type Option func(*Engine)

// OptOverrides sets a source of grade overrides. It is consulted after the
// grade of the record and before the student directory.
func OptOverrides(r grade.Resolver) Option {
	return func(e *Engine) {
		e.overrides = r
	}
}

// New creates an Engine. The submitter tag goes to the IN field.
func New(store Store, submitter string, opts ...Option) *Engine {
	res := &Engine{store: store, submitter: submitter}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Upload processes records in order. A failure of one record never stops
// the others. Results have the same length and order as the processed
// records. On cancellation Upload returns results for the records processed
// before the context was done.
func (e *Engine) Upload(
	ctx context.Context,
	recs []record.Candidate,
) (Summary, []Result, error) {
	var sum Summary
	res := make([]Result, 0, len(recs))

	for i := range recs {
		if err := ctx.Err(); err != nil {
			slog.Warn("Upload is interrupted",
				"processed", i, "total", len(recs))
			return sum, res, err
		}
		r := e.uploadRecord(ctx, recs[i])
		sum.add(r.Outcome)
		res = append(res, r)
	}

	slog.Info("Upload is finished",
		"success", humanize.Comma(int64(sum.Success)),
		"skipped", humanize.Comma(int64(sum.Skipped)),
		"duplicate", humanize.Comma(int64(sum.Duplicate)),
		"error", humanize.Comma(int64(sum.Error)),
	)
	return sum, res, nil
}

func (e *Engine) uploadRecord(ctx context.Context, rec record.Candidate) Result {
	pid, err := record.ParseID(rec.Row.StudentID)
	if err != nil {
		slog.Warn("Skipping record with invalid ID",
			"id", rec.Row.StudentID, "error", err)
		return Result{Outcome: Skipped, Err: err}
	}

	td := rec.File.Date()
	if td.IsZero() {
		slog.Warn("Skipping record without date",
			"id", pid, "file", rec.File.FileName)
		return Result{Outcome: Skipped, Err: ErrNoDate}
	}

	exists, err := e.store.HasRecord(ctx, pid, td)
	if err != nil {
		return e.failed(pid, td, "duplicate check", err)
	}
	if exists {
		slog.Info("Duplicate record", "id", pid, "date", td.Format(time.DateOnly))
		return Result{Outcome: Duplicate}
	}

	maxSQ, _, err := e.store.MaxSeq(ctx, pid)
	if err != nil {
		return e.failed(pid, td, "sequence lookup", err)
	}
	sq := maxSQ + 1

	gr, ok, err := grade.Resolve(ctx, pid,
		grade.Inline(rec.Grade), e.overrides, e.store.StudentGrade)
	if err != nil {
		return e.failed(pid, td, "grade lookup", err)
	}
	if !ok {
		slog.Warn("Skipping record without grade", "id", pid)
		return Result{Outcome: Skipped, Err: ErrNoGrade}
	}

	status := strings.ToUpper(strings.TrimSpace(rec.Row.Status))
	s := Screening{
		PID: pid,
		SQ:  sq,
		GR:  gr,
		SR:  status,
		SL:  status,
		PF:  status,
		TD:  td,
		SCL: schoolCode(rec),
		IN:  e.submitter,
	}
	if err = e.store.Insert(ctx, s); err != nil {
		return e.failed(pid, td, "insert", err)
	}
	return Result{Outcome: Success, SQ: sq, GR: gr}
}

func (e *Engine) failed(pid int, td time.Time, op string, err error) Result {
	slog.Error("Cannot upload record",
		"id", pid, "date", td.Format(time.DateOnly), "op", op, "error", err)
	return Result{Outcome: Failed, Err: fmt.Errorf("%s: %w", op, err)}
}

func schoolCode(rec record.Candidate) *int {
	sc := strings.TrimSpace(rec.File.SchoolCode)
	if sc == "" {
		return nil
	}
	res, err := strconv.Atoi(sc)
	if err != nil {
		slog.Warn("School code is not a number",
			"file", rec.File.FileName, "code", sc)
		return nil
	}
	return &res
}
