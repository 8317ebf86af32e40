package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/kalkyl/internal/calculation"
	"github.com/rgehrsitz/kalkyl/internal/config"
	"github.com/rgehrsitz/kalkyl/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	taxConfigPath string
	taxYear       int
	debugMode     bool
)

// logger is built by the root command before any subcommand runs
var logger = zap.NewNop()

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kalkyl %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "kalkyl",
	Short: "Swedish payroll and identity number calculator",
	Long: `Validate Swedish personal numbers and OCR payment references,
compute hourly wage payslips and estimate monthly income tax and employer cost.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(debugMode)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
		return nil
	},
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// loadTaxConfig reads path, or the embedded table for --tax-year when path is empty
func loadTaxConfig(path string) (*domain.TaxConfig, error) {
	parser := config.NewInputParser()
	if path != "" {
		return parser.LoadTaxConfig(path)
	}
	return parser.EmbeddedTaxConfig(taxYear)
}

func newTaxEngine() (*calculation.TaxEngine, error) {
	cfg, err := loadTaxConfig(taxConfigPath)
	if err != nil {
		return nil, err
	}
	engine := calculation.NewTaxEngine(*cfg)
	engine.SetLogger(logger.Sugar())
	return engine, nil
}

func newWageEngine() *calculation.WageEngine {
	engine := calculation.NewWageEngine(calculation.DefaultWageConfig())
	engine.SetLogger(logger.Sugar())
	return engine
}

func init() {
	rootCmd.PersistentFlags().StringVar(&taxConfigPath, "tax-config", "", "Rate table file (YAML or JSON). Defaults to the embedded table for --tax-year")
	rootCmd.PersistentFlags().IntVar(&taxYear, "tax-year", config.DefaultTaxYear, "Embedded rate table year")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(versionCmd())
}

func main() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
