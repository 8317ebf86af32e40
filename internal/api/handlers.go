package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/rgehrsitz/kalkyl/internal/compare"
	"github.com/rgehrsitz/kalkyl/internal/domain"
	"github.com/rgehrsitz/kalkyl/internal/ocr"
	"github.com/rgehrsitz/kalkyl/internal/output"
	"github.com/rgehrsitz/kalkyl/internal/personnummer"
)

// Bounds of the count query parameter of /personnummer/generate
const (
	MinGenerateCount = 1
	MaxGenerateCount = 100
)

// InputRequest is the body of the personnummer and OCR endpoints
type InputRequest struct {
	Input *string `json:"input" validate:"required"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type GenerateResponse struct {
	Numbers []string `json:"numbers"`
}

// CompareRequest is a privatperson input plus the municipalities to compare with.
// An empty With compares against every municipality.
type CompareRequest struct {
	domain.PrivatpersonInput
	With []string `json:"with"`
}

type MunicipalitiesResponse struct {
	TaxYear        int      `json:"taxYear"`
	Municipalities []string `json:"municipalities"`
	DataSources    string   `json:"dataSources"`
}

// bind decodes the JSON body into v and validates its shape
func (s *Server) bind(c *fiber.Ctx, v interface{}) error {
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return WrapAppError(err, ErrMalformedBody.Code, ErrMalformedBody.Message, ErrMalformedBody.HTTPStatus)
	}
	if err := s.validate.Struct(v); err != nil {
		return mapValidationError(err)
	}
	return nil
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok", Version: s.cfg.Version})
}

func (s *Server) handleValidatePersonnummer(c *fiber.Ctx) error {
	var req InputRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	return c.JSON(personnummer.Validate(*req.Input))
}

func (s *Server) handleParsePersonnummer(c *fiber.Ctx) error {
	var req InputRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	return c.JSON(personnummer.Parse(*req.Input))
}

func (s *Server) handleGeneratePersonnummer(c *fiber.Ctx) error {
	count := MinGenerateCount
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < MinGenerateCount || n > MaxGenerateCount {
			return NewAppError(CodeInvalidInput,
				fmt.Sprintf("Count must be between %d and %d", MinGenerateCount, MaxGenerateCount),
				http.StatusBadRequest)
		}
		count = n
	}
	return c.JSON(GenerateResponse{Numbers: s.pnr.GenerateTestBatch(count)})
}

func (s *Server) handleValidateOCR(c *fiber.Ctx) error {
	var req InputRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	return c.JSON(ocr.Validate(*req.Input))
}

// decodeWageInput reads a WageInput body and applies the same checks as file loading
func (s *Server) decodeWageInput(c *fiber.Ctx) (*domain.WageInput, error) {
	var in domain.WageInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return nil, WrapAppError(err, CodeInvalidInput, err.Error(), http.StatusBadRequest)
	}
	if err := s.parser.ValidateWageInput(&in); err != nil {
		return nil, mapValidationError(err)
	}
	return &in, nil
}

func (s *Server) handleCalculateWage(c *fiber.Ctx) error {
	in, err := s.decodeWageInput(c)
	if err != nil {
		return err
	}
	return c.JSON(s.wage.Calculate(*in))
}

func (s *Server) handleExportWage(c *fiber.Ctx) error {
	format := c.Params("format")
	f, err := output.NewFormatter(format, output.Options{
		ShowZeroRows: c.QueryBool("showZeroRows", false),
		Clock:        s.clock,
	})
	if err != nil {
		return NewAppError(CodeUnsupportedFormat, err.Error(), http.StatusBadRequest)
	}

	in, err := s.decodeWageInput(c)
	if err != nil {
		return err
	}
	p := &domain.Payslip{Input: *in, Result: s.wage.Calculate(*in)}

	data, err := f.Format(p)
	if err != nil {
		return WrapAppError(err, ErrInternal.Code, ErrInternal.Message, ErrInternal.HTTPStatus)
	}

	c.Attachment(output.FileName(f.Name(), p, output.Extension(format)))
	c.Set(fiber.HeaderContentType, output.ContentType(format))
	return c.Send(data)
}

func (s *Server) handlePrivatperson(c *fiber.Ctx) error {
	var in domain.PrivatpersonInput
	if err := s.bind(c, &in); err != nil {
		return err
	}
	return c.JSON(s.tax.CalculatePrivatperson(in))
}

func (s *Server) handleArbetsgivare(c *fiber.Ctx) error {
	var in domain.ArbetsgivareInput
	if err := s.bind(c, &in); err != nil {
		return err
	}
	return c.JSON(s.tax.CalculateArbetsgivare(in))
}

func (s *Server) handleMunicipalities(c *fiber.Ctx) error {
	return c.JSON(MunicipalitiesResponse{
		TaxYear:        s.tax.Config().TaxYear,
		Municipalities: s.tax.Municipalities(),
		DataSources:    s.tax.DataSources(),
	})
}

func (s *Server) handleCompare(c *fiber.Ctx) error {
	var req CompareRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	set, err := compare.NewCompareEngine(s.tax).Compare(req.PrivatpersonInput, req.With)
	if err != nil {
		return WrapAppError(err, CodeInvalidInput, err.Error(), http.StatusBadRequest)
	}
	return c.JSON(set)
}
