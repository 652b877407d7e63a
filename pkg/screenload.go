package screenload

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/screenload/internal/ent/export"
	"github.com/gnames/screenload/internal/ent/workbook"
	"github.com/gnames/screenload/pkg/config"
	"github.com/gnames/screenload/pkg/ent/layout"
	"github.com/gnames/screenload/pkg/ent/meta"
	"github.com/gnames/screenload/pkg/ent/record"
	"github.com/gnames/screenload/pkg/ent/sheet"
	"github.com/gnames/screenload/pkg/ent/upload"
)

// Summary contains statistics of a run.
type Summary struct {
	// Files is the number of input files found.
	Files int `json:"files"`

	// FilesSkipped is the number of unreadable files and files with
	// undetermined layout.
	FilesSkipped int `json:"filesSkipped"`

	// FilesUnmatched is the number of files not found in the nurse
	// directory. Their records have no school, nurse or directory date.
	FilesUnmatched int `json:"filesUnmatched"`

	// Rows is the number of normalized rows with valid presence codes.
	Rows int `json:"rows"`

	// Quarantined is the number of rows with missing or invalid IDs.
	Quarantined int `json:"quarantined"`

	// NotPresent is the number of rows of students who were not present.
	NotPresent int `json:"notPresent"`

	// Records is the number of candidate records.
	Records int `json:"records"`

	// WithUpload is true if records were sent to the database.
	WithUpload bool `json:"withUpload"`

	// Upload counts outcomes of the upload.
	Upload upload.Summary `json:"upload"`
}

// ErrNoStore is returned when upload is enabled but there is no engine to
// upload with.
var ErrNoStore = errors.New("upload is enabled without a database store")

// screenload is an implementation of Screenload interface.
type screenload struct {
	cfg      config.Config
	reader   workbook.Reader
	resolver *meta.Resolver
	exporter export.Exporter
	engine   *upload.Engine
}

// New creates a new instance of Screenload. If engine is nil, records are
// only exported.
func New(
	cfg config.Config,
	reader workbook.Reader,
	resolver *meta.Resolver,
	exporter export.Exporter,
	engine *upload.Engine,
) Screenload {
	res := screenload{
		cfg:      cfg,
		reader:   reader,
		resolver: resolver,
		exporter: exporter,
		engine:   engine,
	}
	return &res
}

// Run processes files of the input directory.
func (s *screenload) Run(ctx context.Context) (Summary, error) {
	var res Summary
	if s.cfg.WithUpload && s.engine == nil {
		return res, ErrNoStore
	}

	files, err := InputFiles(s.cfg.InputDir)
	if err != nil {
		slog.Error("Cannot read input directory",
			"dir", s.cfg.InputDir, "error", err)
		return res, err
	}
	res.Files = len(files)
	slog.Info("Found input files", "dir", s.cfg.InputDir, "files", len(files))

	var recs []record.Candidate
	var quarantine []record.Quarantined
	for _, path := range files {
		rows, f, v, err := s.processFile(path)
		if !f.Matched() {
			res.FilesUnmatched++
		}
		if err != nil {
			res.FilesSkipped++
			continue
		}
		res.Rows += len(rows)
		a := record.Assemble(rows, f, v, s.cfg.PresentCode)
		res.NotPresent += a.NotPresent
		recs = append(recs, a.Records...)
		quarantine = append(quarantine, a.Quarantine...)
	}
	res.Records = len(recs)
	res.Quarantined = len(quarantine)

	if err = s.exporter.Quarantine(quarantine); err != nil {
		slog.Error("Cannot write quarantine export", "error", err)
		return res, err
	}

	var results []upload.Result
	var uploadErr error
	if s.engine != nil && s.cfg.WithUpload {
		res.WithUpload = true
		res.Upload, results, uploadErr = s.engine.Upload(ctx, recs)
	}

	if err = s.exporter.Records(recs, results); err != nil {
		slog.Error("Cannot write normalized export", "error", err)
		return res, err
	}
	if err = s.exporter.Summary(res); err != nil {
		slog.Error("Cannot write summary", "error", err)
		return res, err
	}

	logSummary(res)
	return res, uploadErr
}

// processFile reads a file and normalizes its sheets. Errors mean the file
// gave no rows and are already logged.
func (s *screenload) processFile(
	path string,
) ([]sheet.Row, meta.File, layout.Variant, error) {
	name := filepath.Base(path)
	f := s.resolver.Resolve(name)

	sheets, err := s.reader.Read(path)
	if err != nil {
		slog.Warn("Cannot read file", "file", name, "error", err)
		return nil, f, layout.Unknown, err
	}

	hdrs := make([]layout.Header, len(sheets))
	for i := range sheets {
		hdrs[i] = layout.Header{
			SheetName: sheets[i].Name,
			Cells:     sheets[i].Header(),
		}
	}
	v, err := layout.Detect(hdrs)
	if err != nil {
		slog.Warn("Skipping file", "file", name, "error", err)
		return nil, f, layout.Unknown, err
	}

	rows := sheet.Normalize(sheets, v)
	slog.Info("Processed file",
		"file", name, "layout", v, "rows", len(rows))
	return rows, f, v, nil
}

// InputFiles returns XLSX files of a directory sorted by name. Excel lock
// files are ignored.
func InputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		res = append(res, filepath.Join(dir, name))
	}
	sort.Strings(res)
	return res, nil
}

func logSummary(s Summary) {
	comma := func(i int) string { return humanize.Comma(int64(i)) }
	slog.Info("Done processing all files",
		"files", comma(s.Files),
		"skipped-files", comma(s.FilesSkipped),
		"unmatched-files", comma(s.FilesUnmatched),
		"rows", comma(s.Rows),
		"quarantined", comma(s.Quarantined),
		"not-present", comma(s.NotPresent),
		"records", comma(s.Records),
	)
	if !s.WithUpload {
		slog.Info("Upload is disabled, only export files were created")
		return
	}
	slog.Info("Upload summary",
		"success", comma(s.Upload.Success),
		"skipped", comma(s.Upload.Skipped),
		"duplicate", comma(s.Upload.Duplicate),
		"error", comma(s.Upload.Error),
		"total", comma(s.Upload.Total()),
	)
}
