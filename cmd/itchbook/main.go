// Command itchbook reconstructs per-symbol limit order books from a
// NASDAQ TotalView-ITCH 5.0 feed and writes snapshot, trade, and
// cross-trade CSVs for each tracked symbol.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	inputPath      string
	symbols        []string
	depth          int
	lengthPrefixed bool
	compressOutput bool
	outDir         string
	logLevel       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "itchbook: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "itchbook",
	Short: "itchbook reconstructs order books from an ITCH 5.0 feed",
	Long:  "itchbook reconstructs per-symbol order books, trade tapes, and cross-trade tapes from a NASDAQ TotalView-ITCH 5.0 feed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconstruct()
	},
}

func init() {
	rootCmd.Flags().StringVar(&inputPath, "input", "", "path to the ITCH feed (a trailing .gz is transparently decompressed)")
	rootCmd.MarkFlagRequired("input")
	rootCmd.Flags().StringArrayVar(&symbols, "symbol", nil, "symbol to track (repeatable); unknown symbols are silently ignored")
	rootCmd.MarkFlagRequired("symbol")
	rootCmd.Flags().IntVar(&depth, "depth", 5, "number of price levels retained per snapshot side")
	rootCmd.Flags().BoolVar(&lengthPrefixed, "length-prefixed", false, "expect a 2-byte big-endian length prefix before each record")
	rootCmd.Flags().BoolVar(&compressOutput, "compress-output", false, "gzip-compress the output CSV files")
	rootCmd.Flags().StringVar(&outDir, "out", ".", "directory to write output CSVs into")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// newLogger builds a single SugaredLogger for the process, the way
// abdoElHodaky-tradSys/services/common/logging.go builds one per
// service — without that file's multi-service audit/factory layer,
// which this single-binary CLI has no use for (§10).
func newLogger(level string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
