package calculation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rgehrsitz/kalkyl/internal/domain"
)

func testTaxConfig() domain.TaxConfig {
	return domain.TaxConfig{
		TaxYear:          2025,
		LastUpdated:      time.Date(2024, time.December, 15, 10, 0, 0, 0, time.UTC),
		StatligSkattProc: d("20"),
		BrytpunktAr:      d("598500"),
		BegravningProc:   d("0.253"),
		KyrkoProc:        d("1.0"),
		KommunSkattMap: map[string]domain.KommunRates{
			domain.FallbackMunicipality: {Kommun: d("20.2"), Region: d("11.5"), Kyrka: d("1.0")},
			"Stockholm":                 {Kommun: d("17.98"), Region: d("12.08"), Kyrka: d("0.65")},
			"Göteborg":                  {Kommun: d("21.12"), Region: d("11.48"), Kyrka: d("0.70")},
			"Malmö":                     {Kommun: d("20.64"), Region: d("11.48"), Kyrka: d("0.60")},
		},
		AGProcByAge: []domain.AgeBracket{
			{MinAge: 0, MaxAge: 17, Proc: d("7.65")},
			{MinAge: 18, MaxAge: 19, Proc: d("15.49")},
			{MinAge: 20, MaxAge: 64, Proc: d("31.42")},
			{MinAge: 65, MaxAge: 150, Proc: d("10.21")},
		},
	}
}

func TestTaxEngine_CalculatePrivatperson(t *testing.T) {
	engine := NewTaxEngine(testTaxConfig())

	result := engine.CalculatePrivatperson(domain.PrivatpersonInput{
		Kommun:         "Stockholm",
		Age:            30,
		BruttolonManad: d("35000"),
	})

	assertDecimal(t, "420000", result.Arslon)
	assertDecimal(t, "75516", result.KommunalSkatt)
	assertDecimal(t, "50736", result.RegionalSkatt)
	assertDecimal(t, "0", result.StatligSkatt, "below the threshold")
	assertDecimal(t, "1062.6", result.Begravningsavgift)
	assertDecimal(t, "0", result.Kyrkoavgift)
	assertDecimal(t, "127314.6", result.TotalSkatt)
	assertDecimal(t, "24390.45", result.NettolonManad)

	assert.True(t, result.Breakdown.Kommunal.Equal(result.KommunalSkatt))
	assert.True(t, result.Breakdown.Regional.Equal(result.RegionalSkatt))
	assert.True(t, result.Breakdown.Statlig.Equal(result.StatligSkatt))
	assert.True(t, result.Breakdown.Begravning.Equal(result.Begravningsavgift))
	assert.True(t, result.Breakdown.Kyrka.Equal(result.Kyrkoavgift))
}

func TestTaxEngine_StateTaxAboveThreshold(t *testing.T) {
	engine := NewTaxEngine(testTaxConfig())

	tests := []struct {
		name    string
		monthly string
		want    string
	}{
		{"below", "49000", "0"},
		{"exactly at threshold", "49875", "0"},
		{"above", "60000", "24300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.CalculatePrivatperson(domain.PrivatpersonInput{Kommun: "Stockholm", Age: 40, BruttolonManad: d(tt.monthly)})
			assertDecimal(t, tt.want, result.StatligSkatt)
		})
	}
}

func TestTaxEngine_ChurchMemberAndExtraDeduction(t *testing.T) {
	engine := NewTaxEngine(testTaxConfig())

	member := engine.CalculatePrivatperson(domain.PrivatpersonInput{
		Kommun:         "Stockholm",
		BruttolonManad: d("35000"),
		Kyrkomedlem:    true,
	})
	assertDecimal(t, "2730", member.Kyrkoavgift)
	assertDecimal(t, "130044.6", member.TotalSkatt)

	withDeduction := engine.CalculatePrivatperson(domain.PrivatpersonInput{
		Kommun:           "Stockholm",
		BruttolonManad:   d("35000"),
		ExtraAvdragManad: d("1000"),
	})
	assertDecimal(t, "115314.6", withDeduction.TotalSkatt)
	assertDecimal(t, "25390.45", withDeduction.NettolonManad)
}

func TestTaxEngine_UnknownMunicipalityUsesFallback(t *testing.T) {
	logger := &recordingLogger{}
	engine := NewTaxEngine(testTaxConfig())
	engine.SetLogger(logger)

	result := engine.CalculatePrivatperson(domain.PrivatpersonInput{Kommun: "Ankeborg", BruttolonManad: d("35000"), Kyrkomedlem: true})

	assertDecimal(t, "84840", result.KommunalSkatt)
	assertDecimal(t, "48300", result.RegionalSkatt)
	assertDecimal(t, "4200", result.Kyrkoavgift)
	if assert.Len(t, logger.debug, 1) {
		assert.True(t, strings.Contains(logger.debug[0], "Ankeborg"))
	}

	_, found := engine.RatesFor("Ankeborg")
	assert.False(t, found)
	rates, found := engine.RatesFor("Malmö")
	assert.True(t, found)
	assertDecimal(t, "20.64", rates.Kommun)
}

func TestTaxEngine_CalculateArbetsgivare(t *testing.T) {
	engine := NewTaxEngine(testTaxConfig())

	tests := []struct {
		name      string
		input     domain.ArbetsgivareInput
		wantRate  string
		wantTotal string
	}{
		{
			name:      "standard rate with vacation and pension",
			input:     domain.ArbetsgivareInput{BruttolonManad: d("35000"), Age: 30, SemesterProc: d("12"), PensionProc: d("4.5")},
			wantRate:  "31.42",
			wantTotal: "51772",
		},
		{
			name:      "age 19 uses youth rate",
			input:     domain.ArbetsgivareInput{BruttolonManad: d("25000"), Age: 19},
			wantRate:  "15.49",
			wantTotal: "28872.5",
		},
		{
			name:      "age 66 uses pensioner rate",
			input:     domain.ArbetsgivareInput{BruttolonManad: d("30000"), Age: 66, SemesterProc: d("12")},
			wantRate:  "10.21",
			wantTotal: "36663",
		},
		{
			name:      "no pension",
			input:     domain.ArbetsgivareInput{BruttolonManad: d("30000"), Age: 25, SemesterProc: d("12")},
			wantRate:  "31.42",
			wantTotal: "43026",
		},
		{
			name:      "age outside every bracket",
			input:     domain.ArbetsgivareInput{BruttolonManad: d("10000"), Age: 200},
			wantRate:  "31.42",
			wantTotal: "13142",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.CalculateArbetsgivare(tt.input)
			assertDecimal(t, tt.wantRate, result.AGRate)
			assertDecimal(t, tt.wantTotal, result.TotalkostnadManad)
		})
	}
}

func TestTaxEngine_ArbetsgivareBreakdown(t *testing.T) {
	engine := NewTaxEngine(testTaxConfig())

	result := engine.CalculateArbetsgivare(domain.ArbetsgivareInput{
		BruttolonManad: d("35000"), Age: 30, SemesterProc: d("12"), PensionProc: d("4.5"),
	})

	assertDecimal(t, "10997", result.Arbetsgivaravgift)
	assertDecimal(t, "4200", result.Semesterpaslag)
	assertDecimal(t, "1575", result.Pension)
	assertDecimal(t, "313.77", result.KostnadPerTimme.Round(2))

	assertDecimal(t, "35000", result.Breakdown.Bruttolon)
	assert.True(t, result.Breakdown.Avgifter.Equal(result.Arbetsgivaravgift))
	assert.True(t, result.Breakdown.Semester.Equal(result.Semesterpaslag))
	assert.True(t, result.Breakdown.Pension.Equal(result.Pension))
}

func TestTaxEngine_EmployerFeeRateEmptyTable(t *testing.T) {
	engine := NewTaxEngine(domain.TaxConfig{})

	assert.True(t, engine.EmployerFeeRate(30).Equal(DefaultEmployerFeeRate))
}

func TestTaxEngine_Municipalities(t *testing.T) {
	engine := NewTaxEngine(testTaxConfig())

	assert.Equal(t, []string{"Göteborg", "Malmö", "Stockholm"}, engine.Municipalities())
	assert.Contains(t, engine.DataSources(), "Skatteverket")
}

func TestTaxEngine_HoursIndependentOfWageConfig(t *testing.T) {
	wage := NewWageEngine(WageConfig{HoursPerMonth: d("160")})
	tax := NewTaxEngine(testTaxConfig())

	result := tax.CalculateArbetsgivare(domain.ArbetsgivareInput{BruttolonManad: d("16500"), Age: 30})

	assertDecimal(t, "160", wage.Config().HoursPerMonth)
	assertDecimal(t, "131.42", result.KostnadPerTimme, "still divides by 165")
}
