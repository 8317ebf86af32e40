package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rgehrsitz/kalkyl/internal/calculation"
	"github.com/rgehrsitz/kalkyl/internal/clock"
	"github.com/rgehrsitz/kalkyl/internal/compare"
	"github.com/rgehrsitz/kalkyl/internal/config"
	"github.com/rgehrsitz/kalkyl/internal/ocr"
	"github.com/rgehrsitz/kalkyl/internal/personnummer"
)

const wageBody = `{
  "period": {"start": "2025-09-01", "end": "2025-09-30"},
  "employee": {"name": "Anna Andersson", "id": "A-1001"},
  "hourlyRate": 150,
  "roundingStep": "none",
  "regularHours": 160,
  "vacationPercent": 12,
  "vacationBase": {"regular": true},
  "additionalRows": [
    {"type": "overtime", "label": "Helg", "hours": 2, "factor": 2, "includeInVacationBase": false}
  ]
}`

func setupTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	taxConfig, err := config.NewInputParser().DefaultTaxConfig()
	require.NoError(t, err)

	s, err := NewServer(cfg, Deps{
		Tax:   calculation.NewTaxEngine(*taxConfig),
		Clock: clock.Fixed(time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return s
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeAppError(t *testing.T, data []byte) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestNewServerRequiresTaxEngine(t *testing.T) {
	_, err := NewServer(Config{}, Deps{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{Version: "1.2.3"})

	resp, data := doRequest(t, s, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, HealthResponse{Status: "ok", Version: "1.2.3"}, body)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := setupTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(HeaderRequestID, "abc-123")

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))
}

func TestRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	taxConfig, err := config.NewInputParser().DefaultTaxConfig()
	require.NoError(t, err)
	s, err := NewServer(Config{}, Deps{Tax: calculation.NewTaxEngine(*taxConfig), Logger: zap.New(core)})
	require.NoError(t, err)

	doRequest(t, s, http.MethodGet, "/api/nope", "")

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/nope", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}

func TestValidatePersonnummerEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodPost, "/api/personnummer/validate", `{"input": "850709-9805"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result personnummer.ValidationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, personnummer.Validate("850709-9805"), result)
}

func TestValidatePersonnummerInvalidIsStillOK(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodPost, "/api/personnummer/validate", `{"input": "123"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result personnummer.ValidationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, personnummer.MsgTooShort, result.Error)
}

func TestParsePersonnummerEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodPost, "/api/personnummer/parse", `{"input": "850769-9802"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed personnummer.ParsedPersonalNumber
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, personnummer.Parse("850769-9802"), parsed)
	assert.True(t, parsed.IsCoordinationNumber)
}

func TestRequestShapeErrors(t *testing.T) {
	s := setupTestServer(t, Config{})

	tests := []struct {
		name    string
		path    string
		body    string
		message string
	}{
		{"malformed json", "/api/personnummer/validate", `{"input":`, ErrMalformedBody.Message},
		{"missing input", "/api/personnummer/validate", `{}`, "Input is required"},
		{"missing ocr input", "/api/ocr/validate", `{"other": "1"}`, "Input is required"},
		{"negative age", "/api/tax/privatperson", `{"kommun": "Stockholm", "age": -1, "bruttolonManad": 30000}`, "Age must be at least 0"},
		{"pension above 100", "/api/tax/arbetsgivare", `{"bruttolonManad": 30000, "age": 40, "pensionProc": 101}`, "Pension Proc must be at most 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := doRequest(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeAppError(t, data)
			assert.Equal(t, CodeInvalidInput, body["code"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestGeneratePersonnummerEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodGet, "/api/personnummer/generate", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var one GenerateResponse
	require.NoError(t, json.Unmarshal(data, &one))
	assert.Len(t, one.Numbers, 1)

	resp, data = doRequest(t, s, http.MethodGet, "/api/personnummer/generate?count=25", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var many GenerateResponse
	require.NoError(t, json.Unmarshal(data, &many))
	require.Len(t, many.Numbers, 25)
	for _, n := range many.Numbers {
		assert.True(t, personnummer.Validate(n).IsValid, n)
	}

	for _, bad := range []string{"0", "101", "abc", "-3"} {
		resp, data = doRequest(t, s, http.MethodGet, "/api/personnummer/generate?count="+bad, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
		assert.Equal(t, "Count must be between 1 and 100", decodeAppError(t, data)["message"])
	}
}

func TestValidateOCREndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodPost, "/api/ocr/validate", `{"input": "1234 5678 2"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var result ocr.Validation
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.IsValid)
	assert.Equal(t, "123456782", result.Cleaned)

	_, data = doRequest(t, s, http.MethodPost, "/api/ocr/validate", `{"input": "123456789"}`)
	require.NoError(t, json.Unmarshal(data, &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, "invalid check digit. Expected: 2, got: 9", result.Error)
}

func TestCalculateWageEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodPost, "/api/wage/calculate", wageBody)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var result struct {
		LineItems []map[string]interface{} `json:"lineItems"`
		Summary   struct {
			OvertimeAmount decimal.Decimal `json:"overtimeAmount"`
			GrossPayAmount decimal.Decimal `json:"grossPayAmount"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	// 160 × 150 + 2 × 150 × 2 + 24000 × 12 %
	assert.Len(t, result.LineItems, 3)
	assert.True(t, result.Summary.OvertimeAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, result.Summary.GrossPayAmount.Equal(decimal.NewFromInt(27480)), result.Summary.GrossPayAmount.String())
}

func TestCalculateWageRejectsInvalidInput(t *testing.T) {
	s := setupTestServer(t, Config{})

	body := strings.Replace(wageBody, `"hourlyRate": 150`, `"hourlyRate": 0`, 1)
	resp, data := doRequest(t, s, http.MethodPost, "/api/wage/calculate", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Hourly Rate must be greater than 0", decodeAppError(t, data)["message"])

	body = strings.Replace(wageBody, `"type": "overtime"`, `"type": "bonus"`, 1)
	resp, data = doRequest(t, s, http.MethodPost, "/api/wage/calculate", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeAppError(t, data)["message"], "additional row 1")
}

func TestExportWageEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodPost, "/api/wage/export/csv-summary", wageBody)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="lonespec_csv-summary_2025-09.csv"`, resp.Header.Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(data, []byte("pay_month,employer_name")))

	resp, data = doRequest(t, s, http.MethodPost, "/api/wage/export/pdf", wageBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-1.4")))
	assert.Contains(t, string(data), "Skapad: 2025-10-01 09:00")

	resp, data = doRequest(t, s, http.MethodPost, "/api/wage/export/xml", wageBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeUnsupportedFormat, decodeAppError(t, data)["code"])
}

func TestPrivatpersonEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodPost, "/api/tax/privatperson",
		`{"kommun": "Stockholm", "age": 40, "bruttolonManad": 35000, "kyrkomedlem": false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var result struct {
		TotalSkatt    decimal.Decimal `json:"totalSkatt"`
		NettolonManad decimal.Decimal `json:"nettolonManad"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.TotalSkatt.Equal(decimal.RequireFromString("127314.6")), result.TotalSkatt.String())
	assert.True(t, result.NettolonManad.Equal(decimal.RequireFromString("24390.45")), result.NettolonManad.String())
}

func TestArbetsgivareEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodPost, "/api/tax/arbetsgivare",
		`{"bruttolonManad": 35000, "age": 40, "semesterProc": 12, "pensionProc": 4.5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var result struct {
		AGRate            decimal.Decimal `json:"agRate"`
		TotalkostnadManad decimal.Decimal `json:"totalkostnadManad"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.AGRate.Equal(decimal.RequireFromString("31.42")))
	assert.True(t, result.TotalkostnadManad.Equal(decimal.NewFromInt(51772)), result.TotalkostnadManad.String())
}

func TestMunicipalitiesEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodGet, "/api/tax/municipalities", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body MunicipalitiesResponse
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, 2025, body.TaxYear)
	assert.Len(t, body.Municipalities, 10)
	assert.Contains(t, body.Municipalities, "Stockholm")
	assert.NotContains(t, body.Municipalities, "FALLBACK")
	assert.NotEmpty(t, body.DataSources)
}

func TestCompareEndpoint(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodPost, "/api/tax/compare",
		`{"kommun":"Stockholm","age":40,"bruttolonManad":"35000","with":["Göteborg","Malmö"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var body compare.ComparisonSet
	require.NoError(t, json.Unmarshal(data, &body))
	require.NotNil(t, body.BaseResult)
	assert.Equal(t, "Stockholm", body.BaseResult.Kommun)
	assert.True(t, body.BaseResult.NettolonMan.Equal(decimal.RequireFromString("24390.45")), body.BaseResult.NettolonMan.String())
	require.Len(t, body.AlternativeResults, 2)
	assert.Equal(t, "Malmö", body.AlternativeResults[0].Kommun)

	resp, data = doRequest(t, s, http.MethodPost, "/api/tax/compare", `{"kommun":"Atlantis","age":40,"bruttolonManad":"35000"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeAppError(t, data)["message"], "Atlantis")
}

func TestUnknownRoute(t *testing.T) {
	s := setupTestServer(t, Config{})

	resp, data := doRequest(t, s, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, decodeAppError(t, data)["code"])
}

func TestRateLimit(t *testing.T) {
	s := setupTestServer(t, Config{RateLimit: 1, Burst: 2})

	for i := 0; i < 2; i++ {
		resp, _ := doRequest(t, s, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, data := doRequest(t, s, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, CodeTooManyRequests, decodeAppError(t, data)["code"])
}

func TestIPRateLimiterReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.2"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvRateLimit, "")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, float64(DefaultRateLimit), cfg.RateLimit)

	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvRateLimit, "0")
	cfg, err = ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Zero(t, cfg.RateLimit)

	t.Setenv(EnvRateLimit, "fast")
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}
