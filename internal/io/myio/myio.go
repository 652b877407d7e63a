package myio

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/screenload/pkg/config"
	"github.com/gnames/screenload/pkg/ent/upload"

	_ "github.com/go-sql-driver/mysql"
)

type myio struct {
	db      *sql.DB
	history string
	student string
}

// New connects to MySQL and returns a screening store. It fails if the
// database is not reachable.
func New(ctx context.Context, cfg config.Config) (upload.Store, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		slog.Error("Cannot connect to database", "error", err)
		return nil, err
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		slog.Error("Cannot reach database", "host", cfg.DBHost, "error", err)
		return nil, err
	}
	return NewWithDB(db, cfg), nil
}

// NewWithDB returns a screening store on top of an open database handle.
// Table names come from cfg.
func NewWithDB(db *sql.DB, cfg config.Config) upload.Store {
	res := myio{
		db:      db,
		history: quote(cfg.HistoryTable),
		student: quote(cfg.StudentTable),
	}
	return &res
}

// DSN returns a connection string for MySQL.
func DSN(cfg config.Config) string {
	port := cfg.DBPort
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, port, cfg.DBName)
}

func quote(name string) string {
	return "`" + name + "`"
}

// HasRecord checks for a screening of the student on the date.
func (m *myio) HasRecord(
	ctx context.Context,
	pid int,
	td time.Time,
) (bool, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	q := fmt.Sprintf("SELECT 1 FROM %s WHERE pid = ? AND td = ? LIMIT 1",
		m.history)
	var one int
	err = conn.QueryRowContext(ctx, q, pid, td).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MaxSeq returns the largest sequence number of the student.
func (m *myio) MaxSeq(ctx context.Context, pid int) (int, bool, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return 0, false, err
	}
	defer conn.Close()

	q := fmt.Sprintf("SELECT MAX(sq) FROM %s WHERE pid = ?", m.history)
	var sq sql.NullInt64
	if err = conn.QueryRowContext(ctx, q, pid).Scan(&sq); err != nil {
		return 0, false, err
	}
	if !sq.Valid {
		return 0, false, nil
	}
	return int(sq.Int64), true, nil
}

// StudentGrade returns the grade of a student who is neither deleted nor
// transferred.
func (m *myio) StudentGrade(ctx context.Context, pid int) (int, bool, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return 0, false, err
	}
	defer conn.Close()

	q := fmt.Sprintf(
		"SELECT gr FROM %s WHERE del = 0 AND tg = '' AND id = ? LIMIT 1",
		m.student,
	)
	var gr int
	err = conn.QueryRowContext(ctx, q, pid).Scan(&gr)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return gr, true, nil
}

// Insert saves a screening in its own transaction.
func (m *myio) Insert(ctx context.Context, s upload.Screening) error {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	q := fmt.Sprintf("INSERT INTO %s "+
		"(pid, sq, gr, sr, sl, pf, td, scl, `in`) "+
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", m.history)
	_, err = tx.ExecContext(ctx, q,
		s.PID, s.SQ, s.GR, s.SR, s.SL, s.PF, s.TD, s.SCL, s.IN)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the database handle.
func (m *myio) Close() error {
	return m.db.Close()
}
