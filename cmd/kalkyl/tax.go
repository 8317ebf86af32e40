package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/kalkyl/internal/compare"
	"github.com/rgehrsitz/kalkyl/internal/config"
	"github.com/rgehrsitz/kalkyl/internal/domain"
	"github.com/rgehrsitz/kalkyl/internal/output"
)

var taxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Estimate income tax and employer cost",
}

var taxPrivatCmd = &cobra.Command{
	Use:     "privat",
	Aliases: []string{"privatperson"},
	Short:   "Estimate yearly tax and monthly net salary for an individual",
	Long: `Estimate yearly tax and monthly net salary for an individual.

Examples:
  kalkyl tax privat --kommun Stockholm --age 40 --salary 45000
  kalkyl tax privat --kommun Göteborg --age 67 --salary 30000 --church -f json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kommun, _ := cmd.Flags().GetString("kommun")
		age, _ := cmd.Flags().GetInt("age")
		church, _ := cmd.Flags().GetBool("church")
		format, _ := cmd.Flags().GetString("format")

		salary, err := decimalFlag(cmd, "salary")
		if err != nil {
			return err
		}
		extra, err := decimalFlag(cmd, "extra")
		if err != nil {
			return err
		}

		in := domain.PrivatpersonInput{
			Kommun:           kommun,
			Age:              age,
			BruttolonManad:   salary,
			Kyrkomedlem:      church,
			ExtraAvdragManad: extra,
		}
		if err := validateFlags(&in); err != nil {
			return err
		}

		engine, err := newTaxEngine()
		if err != nil {
			return err
		}
		if _, ok := engine.RatesFor(kommun); !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unknown kommun %q, using average rates\n", kommun)
		}

		res := engine.CalculatePrivatperson(in)
		data, err := output.FormatPrivatperson(format, in, &res)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var taxEmployerCmd = &cobra.Command{
	Use:     "employer",
	Aliases: []string{"arbetsgivare"},
	Short:   "Estimate the monthly cost of an employee",
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetInt("age")
		format, _ := cmd.Flags().GetString("format")

		values := make(map[string]decimal.Decimal, 3)
		for _, name := range []string{"salary", "semester", "pension"} {
			v, err := decimalFlag(cmd, name)
			if err != nil {
				return err
			}
			values[name] = v
		}

		in := domain.ArbetsgivareInput{
			BruttolonManad: values["salary"],
			Age:            age,
			SemesterProc:   values["semester"],
			PensionProc:    values["pension"],
		}
		if err := validateFlags(&in); err != nil {
			return err
		}

		engine, err := newTaxEngine()
		if err != nil {
			return err
		}
		res := engine.CalculateArbetsgivare(in)
		data, err := output.FormatArbetsgivare(format, in, &res)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var taxCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the net salary across municipalities",
	Long: `Compare the monthly net salary of one salary situation across municipalities.

Examples:
  kalkyl tax compare --kommun Stockholm --salary 35000
  kalkyl tax compare --kommun Malmö --salary 35000 --with Göteborg,Uppsala -f csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kommun, _ := cmd.Flags().GetString("kommun")
		age, _ := cmd.Flags().GetInt("age")
		church, _ := cmd.Flags().GetBool("church")
		with, _ := cmd.Flags().GetStringSlice("with")
		format, _ := cmd.Flags().GetString("format")

		salary, err := decimalFlag(cmd, "salary")
		if err != nil {
			return err
		}
		in := domain.PrivatpersonInput{Kommun: kommun, Age: age, BruttolonManad: salary, Kyrkomedlem: church}
		if err := validateFlags(&in); err != nil {
			return err
		}

		engine, err := newTaxEngine()
		if err != nil {
			return err
		}
		set, err := compare.NewCompareEngine(engine).Compare(in, with)
		if err != nil {
			return err
		}
		out, err := compare.Format(format, set)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var taxValidateCmd = &cobra.Command{
	Use:   "validate [rate-table-file]",
	Short: "Validate a rate table, or the embedded one when no file is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := taxConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		cfg, err := loadTaxConfig(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rate table for %d is valid: %d municipalities, %d age brackets\n",
			cfg.TaxYear, len(cfg.KommunSkattMap)-1, len(cfg.AGProcByAge))
		return nil
	},
}

var taxMunicipalitiesCmd = &cobra.Command{
	Use:   "municipalities",
	Short: "List the municipalities in the rate table",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newTaxEngine()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range engine.Municipalities() {
			rates, _ := engine.RatesFor(name)
			fmt.Fprintf(out, "%-14s kommun %s  region %s\n", name,
				output.FormatPercentage(rates.Kommun), output.FormatPercentage(rates.Region))
		}
		fmt.Fprintln(out, engine.DataSources())
		return nil
	},
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	v, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return v, nil
}

func validateFlags(v interface{}) error {
	if err := config.NewValidator("yaml").Struct(v); err != nil {
		return fmt.Errorf("invalid input: %s", config.DescribeValidation(err))
	}
	return nil
}

func init() {
	taxPrivatCmd.Flags().String("kommun", "Stockholm", "Municipality of residence")
	taxPrivatCmd.Flags().Int("age", 40, "Age in years")
	taxPrivatCmd.Flags().String("salary", "0", "Gross monthly salary in SEK")
	taxPrivatCmd.Flags().Bool("church", false, "Member of the Church of Sweden")
	taxPrivatCmd.Flags().String("extra", "0", "Extra monthly deduction in SEK")
	taxPrivatCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")

	taxEmployerCmd.Flags().String("salary", "0", "Gross monthly salary in SEK")
	taxEmployerCmd.Flags().Int("age", 40, "Age of the employee")
	taxEmployerCmd.Flags().String("semester", "12", "Vacation supplement in percent")
	taxEmployerCmd.Flags().String("pension", "4.5", "Occupational pension in percent")
	taxEmployerCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")

	taxCompareCmd.Flags().String("kommun", "Stockholm", "Base municipality")
	taxCompareCmd.Flags().Int("age", 40, "Age in years")
	taxCompareCmd.Flags().String("salary", "0", "Gross monthly salary in SEK")
	taxCompareCmd.Flags().Bool("church", false, "Member of the Church of Sweden")
	taxCompareCmd.Flags().StringSlice("with", nil, "Municipalities to compare with (default: all)")
	taxCompareCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")

	taxCmd.AddCommand(taxPrivatCmd, taxEmployerCmd, taxCompareCmd, taxValidateCmd, taxMunicipalitiesCmd)
	rootCmd.AddCommand(taxCmd)
}
