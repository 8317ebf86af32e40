package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/kalkyl/internal/domain"
)

// TaxHoursPerMonth divides the employer's monthly cost into a cost per hour.
// It is tuned independently of WageConfig.HoursPerMonth.
const TaxHoursPerMonth = 165

// DefaultEmployerFeeRate is used when no age bracket matches
var DefaultEmployerFeeRate = decimal.RequireFromString("31.42")

// DataSources names where the rate tables come from
const DataSources = "Datakällor: SCB (kommun/region), Skatteverket (statlig skatt), Kammarkollegiet (begravningsavgift), Svenska kyrkan (kyrkoavgift)"

var monthsPerYear = decimal.NewFromInt(12)

// TaxEngine computes net salary and employer cost from a TaxConfig
type TaxEngine struct {
	config domain.TaxConfig
	logger Logger
}

// NewTaxEngine creates an engine over config. The config must not be modified afterwards.
func NewTaxEngine(config domain.TaxConfig) *TaxEngine {
	return &TaxEngine{config: config, logger: NopLogger{}}
}

// SetLogger sets the logger. Call before sharing the engine between goroutines.
func (e *TaxEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.logger = l
}

// Config returns the rate table
func (e *TaxEngine) Config() domain.TaxConfig {
	return e.config
}

// DataSources returns the attribution line for the rate tables
func (e *TaxEngine) DataSources() string {
	return DataSources
}

// Municipalities returns the configured municipality names, sorted, without FALLBACK
func (e *TaxEngine) Municipalities() []string {
	names := make([]string, 0, len(e.config.KommunSkattMap))
	for name := range e.config.KommunSkattMap {
		if name == domain.FallbackMunicipality {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RatesFor returns the rates for a municipality and whether it was found.
// Unknown names get the FALLBACK rates.
func (e *TaxEngine) RatesFor(kommun string) (domain.KommunRates, bool) {
	if r, ok := e.config.KommunSkattMap[kommun]; ok {
		return r, true
	}
	return e.config.KommunSkattMap[domain.FallbackMunicipality], false
}

// EmployerFeeRate returns the fee percentage of the first bracket containing age
func (e *TaxEngine) EmployerFeeRate(age int) decimal.Decimal {
	for _, b := range e.config.AGProcByAge {
		if b.Contains(age) {
			return b.Proc
		}
	}
	return DefaultEmployerFeeRate
}

// CalculatePrivatperson computes annual taxes and the monthly net salary
func (e *TaxEngine) CalculatePrivatperson(in domain.PrivatpersonInput) domain.PrivatpersonResult {
	arslon := in.BruttolonManad.Mul(monthsPerYear)

	rates, found := e.RatesFor(in.Kommun)
	if !found {
		e.logger.Debugf("municipality %q not in tax table, using %s", in.Kommun, domain.FallbackMunicipality)
	}

	kommunal := percentOf(arslon, rates.Kommun)
	regional := percentOf(arslon, rates.Region)

	statlig := decimal.Zero
	if arslon.GreaterThan(e.config.BrytpunktAr) {
		statlig = percentOf(arslon.Sub(e.config.BrytpunktAr), e.config.StatligSkattProc)
	}

	begravning := percentOf(arslon, e.config.BegravningProc)

	kyrka := decimal.Zero
	if in.Kyrkomedlem {
		kyrka = percentOf(arslon, rates.Kyrka)
	}

	total := kommunal.Add(regional).Add(statlig).Add(begravning).Add(kyrka).
		Sub(in.ExtraAvdragManad.Mul(monthsPerYear))

	return domain.PrivatpersonResult{
		Arslon:            arslon,
		KommunalSkatt:     kommunal,
		RegionalSkatt:     regional,
		StatligSkatt:      statlig,
		Begravningsavgift: begravning,
		Kyrkoavgift:       kyrka,
		TotalSkatt:        total,
		NettolonManad:     arslon.Sub(total).Div(monthsPerYear),
		Breakdown: domain.PrivatpersonBreakdown{
			Kommunal:   kommunal,
			Regional:   regional,
			Statlig:    statlig,
			Begravning: begravning,
			Kyrka:      kyrka,
		},
	}
}

// CalculateArbetsgivare computes the employer's monthly cost for one employee
func (e *TaxEngine) CalculateArbetsgivare(in domain.ArbetsgivareInput) domain.ArbetsgivareResult {
	rate := e.EmployerFeeRate(in.Age)

	avgift := percentOf(in.BruttolonManad, rate)
	semester := percentOf(in.BruttolonManad, in.SemesterProc)
	pension := percentOf(in.BruttolonManad, in.PensionProc)
	total := in.BruttolonManad.Add(avgift).Add(semester).Add(pension)

	return domain.ArbetsgivareResult{
		BruttolonManad:    in.BruttolonManad,
		AGRate:            rate,
		Arbetsgivaravgift: avgift,
		Semesterpaslag:    semester,
		Pension:           pension,
		TotalkostnadManad: total,
		KostnadPerTimme:   total.Div(decimal.NewFromInt(TaxHoursPerMonth)),
		Breakdown: domain.ArbetsgivareBreakdown{
			Bruttolon: in.BruttolonManad,
			Avgifter:  avgift,
			Semester:  semester,
			Pension:   pension,
		},
	}
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}
