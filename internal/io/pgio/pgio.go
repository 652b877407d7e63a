package pgio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/screenload/pkg/config"
	"github.com/gnames/screenload/pkg/ent/upload"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DB is the part of pgxpool.Pool used by the store. QueryRow releases its
// connection after Scan, Begin holds one until Commit or Rollback.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

type pgio struct {
	db      DB
	history string
	student string
}

// New connects to PostgreSQL and returns a screening store. It fails if
// the database is not reachable.
func New(ctx context.Context, cfg config.Config) (upload.Store, error) {
	db, err := pgxConn(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(ctx); err != nil {
		db.Close()
		slog.Error("Cannot reach database", "host", cfg.DBHost, "error", err)
		return nil, err
	}
	return NewWithDB(db, cfg), nil
}

// NewWithDB returns a screening store on top of an open connection pool.
// Table names come from cfg.
func NewWithDB(db DB, cfg config.Config) upload.Store {
	res := pgio{
		db:      db,
		history: pgx.Identifier{cfg.HistoryTable}.Sanitize(),
		student: pgx.Identifier{cfg.StudentTable}.Sanitize(),
	}
	return &res
}

// HasRecord checks for a screening of the student on the date.
func (p *pgio) HasRecord(
	ctx context.Context,
	pid int,
	td time.Time,
) (bool, error) {
	q := fmt.Sprintf(`SELECT 1 FROM %s WHERE pid = $1 AND td = $2 LIMIT 1`,
		p.history)
	var one int
	err := p.db.QueryRow(ctx, q, pid, td).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MaxSeq returns the largest sequence number of the student.
func (p *pgio) MaxSeq(ctx context.Context, pid int) (int, bool, error) {
	q := fmt.Sprintf(`SELECT MAX(sq) FROM %s WHERE pid = $1`, p.history)
	var sq pgtype.Int8
	if err := p.db.QueryRow(ctx, q, pid).Scan(&sq); err != nil {
		return 0, false, err
	}
	if !sq.Valid {
		return 0, false, nil
	}
	return int(sq.Int64), true, nil
}

// StudentGrade returns the grade of a student who is neither deleted nor
// transferred.
func (p *pgio) StudentGrade(ctx context.Context, pid int) (int, bool, error) {
	q := fmt.Sprintf(
		`SELECT gr FROM %s WHERE del = 0 AND tg = '' AND id = $1 LIMIT 1`,
		p.student,
	)
	var gr int
	err := p.db.QueryRow(ctx, q, pid).Scan(&gr)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return gr, true, nil
}

// Insert saves a screening in its own transaction.
func (p *pgio) Insert(ctx context.Context, s upload.Screening) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := fmt.Sprintf(`INSERT INTO %s
		(pid, sq, gr, sr, sl, pf, td, scl, "in")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, p.history)
	_, err = tx.Exec(ctx, q,
		s.PID, s.SQ, s.GR, s.SR, s.SL, s.PF, s.TD, s.SCL, s.IN)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Close closes the connection pool.
func (p *pgio) Close() error {
	p.db.Close()
	return nil
}
