package cmd

import (
	"log/slog"
	"os"

	"github.com/gnames/screenload/internal/io/myio"
	"github.com/gnames/screenload/internal/io/pgio"
	"github.com/gnames/screenload/pkg/config"
	"github.com/gnames/screenload/pkg/io/modelio"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates history and student tables in a development database",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := config.New(opts...)
		db, err := gormConn(cfg)
		if err != nil {
			slog.Error("Cannot connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		m := modelio.New(db, cfg.HistoryTable, cfg.StudentTable)
		if err = m.Migrate(); err != nil {
			slog.Error("Cannot create tables", "error", err)
			os.Exit(1)
		}
		slog.Info("Tables are ready",
			"db", cfg.DBName,
			"history", cfg.HistoryTable,
			"students", cfg.StudentTable,
		)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func gormConn(cfg config.Config) (*gorm.DB, error) {
	if cfg.DBType == "mysql" {
		return gorm.Open("mysql", myio.DSN(cfg))
	}
	return gorm.Open("postgres", pgio.DSN(cfg))
}
