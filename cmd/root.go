// Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnsys"
	screenload "github.com/gnames/screenload/pkg"
	"github.com/gnames/screenload/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed screenload.yaml
var configText string

var (
	opts []config.Option
)

type cfgData struct {
	InputDir      string
	OutputDir     string
	DirectoryFile string
	OverridesDir  string
	WithUpload    bool
	DBType        string
	DBHost        string
	DBPort        int
	DBUser        string
	DBPass        string
	DBName        string
	HistoryTable  string
	StudentTable  string
	SubmitterTag  string
	PresentCode   string
}

// configKeys are settings that can also come from SCREENLOAD_* variables.
var configKeys = []string{
	"InputDir", "OutputDir", "DirectoryFile", "OverridesDir", "WithUpload",
	"DBType", "DBHost", "DBPort", "DBUser", "DBPass", "DBName",
	"HistoryTable", "StudentTable", "SubmitterTag", "PresentCode",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screenload",
	Short: "Normalizes school screening spreadsheets and uploads them",
	Long: `Reads daily screening spreadsheets of schools, converts them
to one canonical format, creates export files and uploads records of
screened students into the student-information database.`,
	Run: func(cmd *cobra.Command, args []string) {
		version, err := cmd.Flags().GetBool("version")
		if err != nil {
			slog.Error("Cannot get flag", "error", err)
			os.Exit(1)
		}
		if version {
			fmt.Printf(
				"\nversion: %s\nbuild: %s\n\n",
				screenload.Version, screenload.Build,
			)
			os.Exit(0)
		}

		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolP("version", "V", false, "Returns version and build date")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	var homeDir, cfgDir string
	configFile := "screenload"

	// Find home directory.
	homeDir, err = os.UserHomeDir()
	if err != nil {
		slog.Error("Cannot find home dir", "error", err)
		os.Exit(1)
	}
	cfgDir = filepath.Join(homeDir, ".config")

	// Search config in home directory with name "screenload" (without extension).
	viper.AddConfigPath(cfgDir)
	viper.SetConfigName(configFile)

	// Environment variables like SCREENLOAD_DBPASS override the file.
	viper.SetEnvPrefix("SCREENLOAD")
	for _, key := range configKeys {
		_ = viper.BindEnv(key)
	}

	configPath := filepath.Join(cfgDir, fmt.Sprintf("%s.yaml", configFile))
	touchConfigFile(configPath)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		slog.Error("Config file screenload.yaml not found", "error", err)
		os.Exit(1)
	}
	opts = getOpts()
}

// getOpts imports data from the configuration file. Some of the settings can
// be overriden by command line flags.
func getOpts() []config.Option {
	var res []config.Option
	cfg := cfgData{}
	err := viper.Unmarshal(&cfg)
	if err != nil {
		slog.Error("Cannot unmarshal config file", "error", err)
	}

	if cfg.InputDir != "" {
		res = append(res, config.OptInputDir(expandHome(cfg.InputDir)))
	}
	if cfg.OutputDir != "" {
		res = append(res, config.OptOutputDir(expandHome(cfg.OutputDir)))
	}
	if cfg.DirectoryFile != "" {
		res = append(res,
			config.OptDirectoryFile(expandHome(cfg.DirectoryFile)))
	}
	if cfg.OverridesDir != "" {
		res = append(res, config.OptOverridesDir(expandHome(cfg.OverridesDir)))
	}
	res = append(res, config.OptWithUpload(cfg.WithUpload))
	if cfg.DBType != "" {
		res = append(res, config.OptDBType(cfg.DBType))
	}
	if cfg.DBHost != "" {
		res = append(res, config.OptDBHost(cfg.DBHost))
	}
	if cfg.DBPort != 0 {
		res = append(res, config.OptDBPort(cfg.DBPort))
	}
	if cfg.DBUser != "" {
		res = append(res, config.OptDBUser(cfg.DBUser))
	}
	if cfg.DBPass != "" {
		res = append(res, config.OptDBPass(cfg.DBPass))
	}
	if cfg.DBName != "" {
		res = append(res, config.OptDBName(cfg.DBName))
	}
	if cfg.HistoryTable != "" {
		res = append(res, config.OptHistoryTable(cfg.HistoryTable))
	}
	if cfg.StudentTable != "" {
		res = append(res, config.OptStudentTable(cfg.StudentTable))
	}
	if cfg.SubmitterTag != "" {
		res = append(res, config.OptSubmitterTag(cfg.SubmitterTag))
	}
	if cfg.PresentCode != "" {
		res = append(res, config.OptPresentCode(cfg.PresentCode))
	}
	return res
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("Cannot find home directory", "error", err)
		return path
	}
	return filepath.Join(home, path[2:])
}

// touchConfigFile checks if config file exists, and if not, it gets created.
func touchConfigFile(configPath string) {
	fileExists, _ := gnsys.FileExists(configPath)
	if fileExists {
		return
	}

	slog.Info("Creating config file", "path", configPath)
	createConfig(configPath)
}

// createConfig creates config file.
func createConfig(path string) {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		slog.Error("Cannot create config dir", "error", err)
		os.Exit(1)
	}

	err = os.WriteFile(path, []byte(configText), 0644)
	if err != nil {
		slog.Error("Cannot write to config file", "error", err)
		os.Exit(1)
	}
}
