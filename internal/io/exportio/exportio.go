package exportio

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
	"github.com/gnames/gnuuid"
	"github.com/gnames/screenload/internal/ent/export"
	"github.com/gnames/screenload/pkg/config"
	"github.com/gnames/screenload/pkg/ent/grade"
	"github.com/gnames/screenload/pkg/ent/meta"
	"github.com/gnames/screenload/pkg/ent/record"
	"github.com/gnames/screenload/pkg/ent/sheet"
	"github.com/gnames/screenload/pkg/ent/upload"
)

type exportio struct {
	cfg config.Config
}

// New creates an Exporter that writes files to the output directory of
// the configuration.
func New(cfg config.Config) (export.Exporter, error) {
	err := gnsys.MakeDir(cfg.OutputDir)
	if err != nil {
		slog.Error("Cannot create output directory", "error", err)
		return nil, err
	}
	return &exportio{cfg: cfg}, nil
}

var rowHeader = []string{"Status", "Last_Name", "First_Name", "Seat_Number",
	"Student_ID", "Grade", "Gender", "DOB", "Teacher_Name",
	"SPED_or_Period_or_Course", "Sheet_Name"}

var fileHeader = []string{"File", "School_Name", "Screening_Date",
	"Nurse_Name", "Nurse_Initials", "School_Code", "File_Date"}

// Records writes the normalized export.
func (e *exportio) Records(recs []record.Candidate, res []upload.Result) error {
	slog.Info("Writing normalized export", "path", e.cfg.ExportPath())
	header := append(append(append([]string{}, rowHeader...), fileHeader...),
		"Grade_Level", "Key", "Outcome", "SQ", "Note")

	rows := make([][]string, len(recs))
	for i, rec := range recs {
		row := append(rowFields(rec.Row), fileFields(rec.File)...)
		gr := ""
		if rec.Grade != nil {
			gr = grade.String(*rec.Grade)
		}
		var outcome, sq, note string
		if i < len(res) {
			outcome = res[i].Outcome.String()
			if res[i].SQ > 0 {
				sq = strconv.Itoa(res[i].SQ)
			}
			if res[i].Err != nil {
				note = res[i].Err.Error()
			}
		}
		row = append(row, gr, recordKey(rec), outcome, sq, note)
		rows[i] = row
	}
	return e.write(e.cfg.ExportPath(), header, rows)
}

// Quarantine writes rows with missing or invalid student IDs.
func (e *exportio) Quarantine(q []record.Quarantined) error {
	slog.Info("Writing quarantine export", "path", e.cfg.QuarantinePath())
	header := append(append(append([]string{}, rowHeader...), fileHeader...),
		"Reason")
	rows := make([][]string, len(q))
	for i, v := range q {
		row := append(rowFields(v.Row), fileFields(v.File)...)
		rows[i] = append(row, v.Reason)
	}
	return e.write(e.cfg.QuarantinePath(), header, rows)
}

// Summary writes run statistics as JSON.
func (e *exportio) Summary(s any) error {
	enc := gnfmt.GNjson{Pretty: true}
	bs, err := enc.Encode(s)
	if err != nil {
		slog.Error("Cannot encode summary", "error", err)
		return err
	}
	return os.WriteFile(e.cfg.SummaryPath(), append(bs, '\n'), 0644)
}

func (e *exportio) write(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err = w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err = w.Write(row); err != nil {
			slog.Error("Cannot write to CSV file", "error", err)
			return err
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return err
	}
	slog.Info("Export is written",
		"path", path, "rows", humanize.Comma(int64(len(rows))))
	return file.Sync()
}

func rowFields(r sheet.Row) []string {
	return []string{r.Status, r.LastName, r.FirstName, r.SeatNumber,
		r.StudentID, r.Grade, r.Gender, r.DOB, r.TeacherName,
		r.SPEDOrPeriodOrCourse, r.SheetName}
}

func fileFields(f meta.File) []string {
	return []string{f.FileName, f.SchoolName, formatDate(f.ScreeningDate),
		f.NurseName, f.NurseInitials, f.SchoolCode, formatDate(f.FileDate)}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// recordKey is a stable identifier of the student and screening date pair.
func recordKey(rec record.Candidate) string {
	key := fmt.Sprintf("%d|%s", rec.PID, formatDate(rec.File.Date()))
	return gnuuid.New(key).String()
}
