package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/screenload/internal/ent/kv"
	"github.com/gnames/screenload/internal/io/dirio"
	"github.com/gnames/screenload/internal/io/exportio"
	"github.com/gnames/screenload/internal/io/kvio"
	"github.com/gnames/screenload/internal/io/myio"
	"github.com/gnames/screenload/internal/io/pgio"
	"github.com/gnames/screenload/internal/io/xlsxio"
	screenload "github.com/gnames/screenload/pkg"
	"github.com/gnames/screenload/pkg/config"
	"github.com/gnames/screenload/pkg/ent/meta"
	"github.com/gnames/screenload/pkg/ent/upload"
	"github.com/spf13/cobra"
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Normalizes spreadsheets, exports them and uploads records",
	Long: `Reads all *.xlsx files from the input directory, resolves school
metadata from the nurse directory, writes normalized and quarantine
exports and, if upload is enabled, inserts screening records into the
history table of the database.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(
			context.Background(), os.Interrupt, syscall.SIGTERM,
		)
		defer stop()

		uploadFlags(cmd)
		cfg := config.New(opts...)
		if err := runUpload(ctx, cfg); err != nil {
			stop()
			os.Exit(1)
		}
	},
}

// runUpload wires readers, exporter and, if upload is enabled, the store and
// grade overrides, then runs the pipeline. Everything it opens is closed
// before it returns.
func runUpload(ctx context.Context, cfg config.Config) error {
	wr := xlsxio.New()
	entries, err := dirio.Load(cfg.DirectoryFile, wr)
	if err != nil {
		slog.Error("Cannot load nurse directory",
			"path", cfg.DirectoryFile, "error", err)
		return err
	}
	resolver := meta.NewResolver(entries)

	exp, err := exportio.New(cfg)
	if err != nil {
		slog.Error("Cannot create exporter", "error", err)
		return err
	}

	var engine *upload.Engine
	if cfg.WithUpload {
		store, err := openStore(ctx, cfg)
		if err != nil {
			slog.Error("Cannot connect to database",
				"type", cfg.DBType, "db", cfg.DBName, "error", err)
			return err
		}
		defer func() { _ = store.Close() }()

		ovr, err := openOverrides(cfg)
		if err != nil {
			slog.Error("Cannot open grade overrides", "error", err)
			return err
		}
		defer func() { _ = ovr.Close() }()

		engine = upload.New(store, cfg.SubmitterTag,
			upload.OptOverrides(ovr.Grade))
	}

	sl := screenload.New(cfg, wr, resolver, exp, engine)
	if _, err = sl.Run(ctx); err != nil {
		slog.Error("Run finished with error", "error", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolP("upload", "u", false,
		"send records to the database")
	uploadCmd.Flags().StringP("input", "i", "",
		"directory with screening spreadsheets")
	uploadCmd.Flags().StringP("output", "o", "",
		"directory for export files")
	uploadCmd.Flags().StringP("directory", "d", "",
		"nurse directory file (CSV or XLSX)")
}

// uploadFlags adds options from command line flags. Flags override the
// configuration file.
func uploadFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("upload") {
		b, _ := cmd.Flags().GetBool("upload")
		opts = append(opts, config.OptWithUpload(b))
	}
	if s, _ := cmd.Flags().GetString("input"); s != "" {
		opts = append(opts, config.OptInputDir(expandHome(s)))
	}
	if s, _ := cmd.Flags().GetString("output"); s != "" {
		opts = append(opts, config.OptOutputDir(expandHome(s)))
	}
	if s, _ := cmd.Flags().GetString("directory"); s != "" {
		opts = append(opts, config.OptDirectoryFile(expandHome(s)))
	}
}

// openStore connects to the database of cfg.DBType.
var openStore = func(
	ctx context.Context,
	cfg config.Config,
) (upload.Store, error) {
	switch cfg.DBType {
	case "mysql":
		return myio.New(ctx, cfg)
	default:
		return pgio.New(ctx, cfg)
	}
}

func openOverrides(cfg config.Config) (kv.Overrides, error) {
	ovr, err := kvio.New(cfg.OverridesDir)
	if err != nil {
		return nil, err
	}
	if err = ovr.Open(); err != nil {
		return nil, err
	}
	return ovr, nil
}
