// Package api exposes the calculators as a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rgehrsitz/kalkyl/internal/calculation"
	"github.com/rgehrsitz/kalkyl/internal/clock"
	"github.com/rgehrsitz/kalkyl/internal/config"
	"github.com/rgehrsitz/kalkyl/internal/personnummer"
)

// Environment variables read by ConfigFromEnv
const (
	EnvPort      = "PORT"
	EnvRateLimit = "KALKYL_RATE_LIMIT"
)

const (
	DefaultPort      = "8080"
	DefaultRateLimit = 20 // requests per second per client IP
	shutdownTimeout  = 10 * time.Second
)

// Config holds the HTTP server settings
type Config struct {
	Addr      string
	RateLimit float64 // requests per second per IP, 0 disables limiting
	Burst     int
	Version   string
}

// ConfigFromEnv reads PORT and KALKYL_RATE_LIMIT, falling back to defaults
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Addr:      ":" + DefaultPort,
		RateLimit: DefaultRateLimit,
		Burst:     DefaultRateLimit * 2,
	}
	if port := os.Getenv(EnvPort); port != "" {
		cfg.Addr = ":" + port
	}
	if limit := os.Getenv(EnvRateLimit); limit != "" {
		v, err := strconv.ParseFloat(limit, 64)
		if err != nil || v < 0 {
			return cfg, fmt.Errorf("invalid %s %q: must be a non-negative number", EnvRateLimit, limit)
		}
		cfg.RateLimit = v
		cfg.Burst = int(v * 2)
		if cfg.Burst < 1 {
			cfg.Burst = 1
		}
	}
	return cfg, nil
}

// Deps are the engines the handlers call. Nil fields get defaults, except Tax.
type Deps struct {
	Wage         *calculation.WageEngine
	Tax          *calculation.TaxEngine
	Personnummer *personnummer.Service
	Parser       *config.InputParser
	Clock        clock.Clock
	Logger       *zap.Logger
}

// Server wires the engines into a fiber app
type Server struct {
	cfg      Config
	app      *fiber.App
	wage     *calculation.WageEngine
	tax      *calculation.TaxEngine
	pnr      *personnummer.Service
	parser   *config.InputParser
	validate *validator.Validate
	clock    clock.Clock
	logger   *zap.Logger
}

// NewServer builds the app and registers every route
func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Tax == nil {
		return nil, errors.New("api: tax engine is required")
	}
	s := &Server{
		cfg:      cfg,
		wage:     deps.Wage,
		tax:      deps.Tax,
		pnr:      deps.Personnummer,
		parser:   deps.Parser,
		validate: config.NewValidator("json"),
		clock:    deps.Clock,
		logger:   deps.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.wage == nil {
		s.wage = calculation.NewWageEngine(calculation.DefaultWageConfig())
		s.wage.SetLogger(s.logger.Sugar())
	}
	if s.pnr == nil {
		s.pnr = personnummer.NewService(s.clock, nil)
	}
	if s.parser == nil {
		s.parser = config.NewInputParser()
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "kalkyl",
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          errorHandler(s.logger),
	})
	s.routes()
	return s, nil
}

// App returns the underlying fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Use(RequestLogger(s.logger))
	if s.cfg.RateLimit > 0 {
		burst := s.cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.app.Use(RateLimitByIP(rate.Limit(s.cfg.RateLimit), burst))
	}

	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)

	pnr := api.Group("/personnummer")
	pnr.Post("/validate", s.handleValidatePersonnummer)
	pnr.Post("/parse", s.handleParsePersonnummer)
	pnr.Get("/generate", s.handleGeneratePersonnummer)

	api.Post("/ocr/validate", s.handleValidateOCR)

	wage := api.Group("/wage")
	wage.Post("/calculate", s.handleCalculateWage)
	wage.Post("/export/:format", s.handleExportWage)

	tax := api.Group("/tax")
	tax.Post("/privatperson", s.handlePrivatperson)
	tax.Post("/arbetsgivare", s.handleArbetsgivare)
	tax.Post("/compare", s.handleCompare)
	tax.Get("/municipalities", s.handleMunicipalities)

	s.app.Use(func(c *fiber.Ctx) error {
		return ErrNotFound
	})
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server running", zap.String("addr", s.cfg.Addr))
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	s.logger.Info("server exited gracefully")
	return nil
}
