package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/kalkyl/internal/calculation"
	"github.com/rgehrsitz/kalkyl/internal/clock"
	"github.com/rgehrsitz/kalkyl/internal/config"
	"github.com/rgehrsitz/kalkyl/internal/domain"
	"github.com/rgehrsitz/kalkyl/internal/output"
)

var wageCmd = &cobra.Command{
	Use:   "wage",
	Short: "Compute hourly wage payslips",
}

var wageCalculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Calculate a payslip from a YAML or JSON wage input",
	Long: `Calculate a payslip from a wage input file.

Examples:
  kalkyl wage calculate september.yaml
  kalkyl wage calculate september.yaml -f csv-lines --show-zero-rows
  kalkyl wage calculate september.yaml -f pdf -o ./exports`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("output-dir")
		showZero, _ := cmd.Flags().GetBool("show-zero-rows")

		f, err := output.NewFormatter(format, output.Options{ShowZeroRows: showZero})
		if err != nil {
			return fmt.Errorf("%w (valid: %s)", err, strings.Join(append(output.AvailableFormatterNames(), output.AvailableFormatAliases()...), ", "))
		}

		in, err := config.NewInputParser().LoadWageInput(args[0])
		if err != nil {
			return err
		}

		p := &domain.Payslip{Input: *in, Result: newWageEngine().Calculate(*in)}
		logger.Debug("payslip calculated",
			zap.String("file", args[0]),
			zap.Int("lines", len(p.Result.LineItems)),
			zap.String("gross", p.Result.Summary.GrossPayAmount.StringFixed(2)),
		)

		if outDir != "" {
			path, err := output.WriteFormatted(f, p, outDir, output.Extension(format))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		}

		data, err := f.Format(p)
		if err != nil {
			return fmt.Errorf("failed to format payslip: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var wageValidateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a wage input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := config.NewInputParser().LoadWageInput(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d additional rows, period %s\n",
			args[0], len(in.AdditionalRows), describePeriod(in.Period))
		return nil
	},
}

var wageExampleCmd = &cobra.Command{
	Use:   "example [output-file]",
	Short: "Write an example wage input for the current month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(args[0]); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", args[0])
		}

		example := config.CreateExampleWageInput(calculation.DefaultPeriod(clock.System{}))
		if err := config.NewInputParser().SaveWageInput(args[0], example); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example wage input written to %s\n", args[0])
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the payslip export formats",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range output.AvailableFormatterNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s .%s\t%s\n", name, output.Extension(name), output.ContentType(name))
		}
	},
}

func describePeriod(p domain.Period) string {
	if p.Start.IsZero() {
		return "undated"
	}
	return fmt.Sprintf("%s to %s", p.Start, p.End)
}

func init() {
	wageCalculateCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv-lines, csv-summary, pdf)")
	wageCalculateCmd.Flags().StringP("output-dir", "o", "", "Write the export into this directory instead of stdout")
	wageCalculateCmd.Flags().Bool("show-zero-rows", false, "Keep zero rows in csv-lines exports")
	wageExampleCmd.Flags().Bool("force", false, "Overwrite an existing file")

	wageCmd.AddCommand(wageCalculateCmd, wageValidateCmd, wageExampleCmd, formatsCmd)
	rootCmd.AddCommand(wageCmd)
}
