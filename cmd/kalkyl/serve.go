package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/kalkyl/internal/api"
	"github.com/rgehrsitz/kalkyl/internal/personnummer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	Long: `Run the JSON HTTP API.

PORT and KALKYL_RATE_LIMIT are read from the environment or a .env file
in the working directory. --addr overrides PORT.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			logger.Info("no .env file found, using system environment")
		}

		cfg, err := api.ConfigFromEnv()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		cfg.Version = version

		tax, err := newTaxEngine()
		if err != nil {
			return err
		}

		srv, err := api.NewServer(cfg, api.Deps{
			Wage:         newWageEngine(),
			Tax:          tax,
			Personnummer: personnummer.NewDefaultService(),
			Logger:       logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("starting kalkyl API",
			zap.String("addr", cfg.Addr),
			zap.Float64("rate_limit", cfg.RateLimit),
			zap.Int("tax_year", tax.Config().TaxYear),
		)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address, e.g. :8080 (default from PORT)")
	rootCmd.AddCommand(serveCmd)
}
