package config

import (
	"os"
	"path/filepath"
)

// Config is a struct that holds configuration parameters for the package.
type Config struct {
	// InputDir is a directory with daily screening spreadsheets.
	InputDir string

	// OutputDir is a directory for export, quarantine and summary files.
	OutputDir string

	// ExportFile is the name of the normalized export inside OutputDir.
	ExportFile string

	// QuarantineFile is the name of the export of rows with missing or
	// invalid student IDs.
	QuarantineFile string

	// SummaryFile is the name of the JSON run summary inside OutputDir.
	SummaryFile string

	// DirectoryFile is a path to the nurse/school directory (CSV or XLSX).
	DirectoryFile string

	// OverridesDir is a directory of the key-value store with grade
	// overrides.
	OverridesDir string

	// WithUpload enables writing records to the database. When false only
	// the export files are created.
	WithUpload bool

	// DBType is either "postgres" or "mysql".
	DBType string

	// DBHost is a host name of the student-information database.
	DBHost string

	// DBPort is a port of the student-information database. Zero means the
	// default port of DBType.
	DBPort int

	// DBUser is a user name for the database.
	DBUser string

	// DBPass is a password for the database.
	DBPass string

	// DBName is a database name. Test and production runs differ only by
	// this value.
	DBName string

	// HistoryTable keeps screening history (PID, SQ, GR, SR, SL, PF, TD,
	// SCL, IN).
	HistoryTable string

	// StudentTable is a student directory (ID, GR, DEL, TG).
	StudentTable string

	// SubmitterTag is written to the IN field of every uploaded record.
	SubmitterTag string

	// PresentCode is the presence code of screened students. Only these
	// rows are persisted.
	PresentCode string
}

// Option type allows to change settings for Config.
type Option func(*Config)

// OptInputDir sets a directory with input spreadsheets.
func OptInputDir(d string) Option {
	return func(cfg *Config) {
		cfg.InputDir = d
	}
}

// OptOutputDir sets a directory for output files.
func OptOutputDir(d string) Option {
	return func(cfg *Config) {
		cfg.OutputDir = d
	}
}

// OptDirectoryFile sets the path to the nurse directory.
func OptDirectoryFile(p string) Option {
	return func(cfg *Config) {
		cfg.DirectoryFile = p
	}
}

// OptOverridesDir sets a directory for grade overrides store.
func OptOverridesDir(d string) Option {
	return func(cfg *Config) {
		cfg.OverridesDir = d
	}
}

// OptWithUpload toggles database upload.
func OptWithUpload(b bool) Option {
	return func(cfg *Config) {
		cfg.WithUpload = b
	}
}

// OptDBType sets database type (postgres or mysql).
func OptDBType(t string) Option {
	return func(cfg *Config) {
		cfg.DBType = t
	}
}

// OptDBHost sets database host.
func OptDBHost(h string) Option {
	return func(cfg *Config) {
		cfg.DBHost = h
	}
}

// OptDBPort sets database port.
func OptDBPort(p int) Option {
	return func(cfg *Config) {
		cfg.DBPort = p
	}
}

// OptDBUser sets database user.
func OptDBUser(u string) Option {
	return func(cfg *Config) {
		cfg.DBUser = u
	}
}

// OptDBPass sets database password.
func OptDBPass(p string) Option {
	return func(cfg *Config) {
		cfg.DBPass = p
	}
}

// OptDBName sets database name.
func OptDBName(n string) Option {
	return func(cfg *Config) {
		cfg.DBName = n
	}
}

// OptHistoryTable sets the name of screening history table.
func OptHistoryTable(t string) Option {
	return func(cfg *Config) {
		cfg.HistoryTable = t
	}
}

// OptStudentTable sets the name of the student directory table.
func OptStudentTable(t string) Option {
	return func(cfg *Config) {
		cfg.StudentTable = t
	}
}

// OptSubmitterTag sets the value of the IN field.
func OptSubmitterTag(s string) Option {
	return func(cfg *Config) {
		cfg.SubmitterTag = s
	}
}

// OptPresentCode sets the presence code of screened students.
func OptPresentCode(c string) Option {
	return func(cfg *Config) {
		cfg.PresentCode = c
	}
}

// ExportPath returns the full path of the normalized export.
func (cfg Config) ExportPath() string {
	return filepath.Join(cfg.OutputDir, cfg.ExportFile)
}

// QuarantinePath returns the full path of the quarantine export.
func (cfg Config) QuarantinePath() string {
	return filepath.Join(cfg.OutputDir, cfg.QuarantineFile)
}

// SummaryPath returns the full path of the run summary.
func (cfg Config) SummaryPath() string {
	return filepath.Join(cfg.OutputDir, cfg.SummaryFile)
}

// New creates a Config with defaults, modified by given options.
func New(opts ...Option) Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	cacheDir = filepath.Join(cacheDir, "screenload")

	res := Config{
		InputDir:       "in",
		OutputDir:      "out",
		ExportFile:     "out.csv",
		QuarantineFile: "missing_ids.csv",
		SummaryFile:    "summary.json",
		DirectoryFile:  "nurses.csv",
		OverridesDir:   filepath.Join(cacheDir, "overrides"),
		DBType:         "postgres",
		DBHost:         "0.0.0.0",
		DBUser:         "postgres",
		DBPass:         "postgres",
		DBName:         "sis_test",
		HistoryTable:   "hrn",
		StudentTable:   "stu",
		SubmitterTag:   "HS",
		PresentCode:    "P",
	}

	for _, opt := range opts {
		opt(&res)
	}

	return res
}
