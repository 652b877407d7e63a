package cmd

import (
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gnames/screenload/internal/io/kvio"
	"github.com/gnames/screenload/pkg/config"
	"github.com/spf13/cobra"
)

// overridesCmd represents the overrides command
var overridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Manages manually corrected grades",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// importCmd represents the overrides import command
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Loads student_id,grade rows into the overrides store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.New(opts...)
		ovr, err := kvio.New(cfg.OverridesDir)
		if err != nil {
			slog.Error("Cannot create overrides store", "error", err)
			os.Exit(1)
		}

		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			if err = ovr.Reset(); err != nil {
				slog.Error("Cannot reset overrides", "error", err)
				os.Exit(1)
			}
		}

		f, err := os.Open(args[0])
		if err != nil {
			slog.Error("Cannot open file", "path", args[0], "error", err)
			os.Exit(1)
		}
		defer f.Close()

		if err = ovr.Open(); err != nil {
			slog.Error("Cannot open overrides store", "error", err)
			os.Exit(1)
		}
		defer ovr.Close()

		num, err := ovr.Import(f)
		if err != nil {
			slog.Error("Cannot import overrides", "error", err)
			os.Exit(1)
		}
		slog.Info("Imported grade overrides",
			"path", args[0], "records", humanize.Comma(int64(num)))
	},
}

func init() {
	rootCmd.AddCommand(overridesCmd)
	overridesCmd.AddCommand(importCmd)

	importCmd.Flags().BoolP("reset", "r", false,
		"remove existing overrides before import")
}
