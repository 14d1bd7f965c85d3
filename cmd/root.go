package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dbPath    string
	inputPath string
	logLevel  string
	workers   int
)

var rootCmd = &cobra.Command{
	Use:   "shiftmetrics",
	Short: "Hockey shift/event presence analytics",
	Long:  "Build presence, segmentation, and overlap analytics (H2H, WOWY, line combos) from per-game hockey tracking exports.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".shiftmetrics", "metrics.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite output database")
	rootCmd.PersistentFlags().StringVar(&inputPath, "input", "data", "root directory of per-game tracking exports")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 4, "max games processed concurrently")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sqlCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// newLogger builds the console logger used across a run.
func newLogger() *zap.Logger {
	level := zapcore.WarnLevel
	if parsed, err := zapcore.ParseLevel(logLevel); err == nil {
		level = parsed
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}
