package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/kalkyl/internal/ocr"
	"github.com/rgehrsitz/kalkyl/internal/personnummer"
)

var pnrCmd = &cobra.Command{
	Use:     "pnr",
	Aliases: []string{"personnummer"},
	Short:   "Validate, parse and generate Swedish personal numbers",
}

var pnrValidateCmd = &cobra.Command{
	Use:   "validate [number...]",
	Short: "Validate one or more personal numbers",
	Long: `Validate personal numbers in any of the accepted forms (YYMMDD-NNNC, YYYYMMDDNNNC, ...).
A number given without its check digit is reported with the computed digit.
The command exits non-zero when any number is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		results := make([]personnummer.ValidationResult, len(args))
		invalid := 0
		for i, arg := range args {
			results[i] = personnummer.Validate(arg)
			if !results[i].IsValid {
				invalid++
			}
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			if err := writeJSON(out, results); err != nil {
				return err
			}
		case "console", "":
			for i, r := range results {
				fmt.Fprintln(out, describePnr(args[i], r))
			}
		default:
			return fmt.Errorf("unsupported format: %s", format)
		}

		if invalid > 0 {
			return fmt.Errorf("%d of %d personal numbers are invalid", invalid, len(args))
		}
		return nil
	},
}

var pnrParseCmd = &cobra.Command{
	Use:   "parse [number]",
	Short: "Show the structural fields of a personal number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), personnummer.Parse(args[0]))
	},
}

var pnrGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate random valid test personal numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		if count < 1 {
			return fmt.Errorf("count must be at least 1, got %d", count)
		}
		for _, n := range personnummer.NewDefaultService().GenerateTestBatch(count) {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var ocrCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Validate and complete OCR payment references",
}

var ocrValidateCmd = &cobra.Command{
	Use:   "validate [number...]",
	Short: "Validate the Luhn check digit of one or more OCR numbers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		results := make([]ocr.Validation, len(args))
		invalid := 0
		for i, arg := range args {
			results[i] = ocr.Validate(arg)
			if !results[i].IsValid {
				invalid++
			}
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			if err := writeJSON(out, results); err != nil {
				return err
			}
		case "console", "":
			for _, r := range results {
				if r.IsValid {
					fmt.Fprintf(out, "%s\tgiltig\n", ocr.Group(r.Cleaned))
				} else {
					fmt.Fprintf(out, "%s\togiltig: %s\n", ocr.Group(r.Cleaned), r.Error)
				}
			}
		default:
			return fmt.Errorf("unsupported format: %s", format)
		}

		if invalid > 0 {
			return fmt.Errorf("%d of %d OCR numbers are invalid", invalid, len(args))
		}
		return nil
	},
}

var ocrCompleteCmd = &cobra.Command{
	Use:   "complete [payload]",
	Short: "Append the Luhn check digit to a reference payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, err := ocr.Complete(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), full)
		return nil
	},
}

func describePnr(input string, r personnummer.ValidationResult) string {
	if !r.IsValid {
		return fmt.Sprintf("%s\togiltig: %s", input, r.Error)
	}

	kind := "personnummer"
	if r.IsCoordinationNumber {
		kind = "samordningsnummer"
	}
	gender := "man"
	if r.Gender == personnummer.GenderFemale {
		gender = "kvinna"
	}
	line := fmt.Sprintf("%s\tgiltigt %s, %s", r.Formatted, kind, gender)
	if r.Suggested && r.CheckDigit != nil {
		line += fmt.Sprintf(" (kontrollsiffra %d beräknad)", *r.CheckDigit)
	}
	return line
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	pnrValidateCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	pnrGenerateCmd.Flags().IntP("count", "n", 1, "Number of personal numbers to generate")
	ocrValidateCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")

	pnrCmd.AddCommand(pnrValidateCmd, pnrParseCmd, pnrGenerateCmd)
	ocrCmd.AddCommand(ocrValidateCmd, ocrCompleteCmd)
	rootCmd.AddCommand(pnrCmd, ocrCmd)
}
