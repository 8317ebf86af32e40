package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FallbackMunicipality is the rate table key used for unknown municipalities
const FallbackMunicipality = "FALLBACK"

// KommunRates are the percentage rates of one municipality
type KommunRates struct {
	Kommun decimal.Decimal `yaml:"kommun" json:"kommun" validate:"gte=0,lte=100"`
	Region decimal.Decimal `yaml:"region" json:"region" validate:"gte=0,lte=100"`
	Kyrka  decimal.Decimal `yaml:"kyrka" json:"kyrka" validate:"gte=0,lte=100"`
}

// AgeBracket maps an inclusive age range to an employer fee percentage
type AgeBracket struct {
	MinAge int             `yaml:"min_age" json:"minAge" validate:"gte=0"`
	MaxAge int             `yaml:"max_age" json:"maxAge" validate:"gtefield=MinAge"`
	Proc   decimal.Decimal `yaml:"proc" json:"proc" validate:"gte=0,lte=100"`
}

// Contains reports whether age falls within the bracket
func (b AgeBracket) Contains(age int) bool {
	return age >= b.MinAge && age <= b.MaxAge
}

// TaxConfig is the rate table for one tax year
type TaxConfig struct {
	TaxYear          int                    `yaml:"tax_year" json:"taxYear" validate:"gte=2000,lte=2100"`
	LastUpdated      time.Time              `yaml:"last_updated" json:"lastUpdated"`
	StatligSkattProc decimal.Decimal        `yaml:"statlig_skatt_proc" json:"statligSkattProc" validate:"gte=0,lte=100"`
	BrytpunktAr      decimal.Decimal        `yaml:"brytpunkt_ar" json:"brytpunktAr" validate:"gte=0"`
	BegravningProc   decimal.Decimal        `yaml:"begravning_proc" json:"begravningProc" validate:"gte=0,lte=100"`
	KyrkoProc        decimal.Decimal        `yaml:"kyrko_proc" json:"kyrkoProc" validate:"gte=0,lte=100"`
	KommunSkattMap   map[string]KommunRates `yaml:"kommun_skatt_map" json:"kommunSkattMap" validate:"required,dive"`
	AGProcByAge      []AgeBracket           `yaml:"ag_proc_by_age" json:"agProcByAge" validate:"required,dive"`
}

// PrivatpersonInput describes an individual's monthly salary situation
type PrivatpersonInput struct {
	Kommun           string          `yaml:"kommun" json:"kommun"`
	Age              int             `yaml:"age" json:"age" validate:"gte=0,lte=150"`
	BruttolonManad   decimal.Decimal `yaml:"bruttolon_manad" json:"bruttolonManad" validate:"gte=0"`
	Kyrkomedlem      bool            `yaml:"kyrkomedlem" json:"kyrkomedlem"`
	ExtraAvdragManad decimal.Decimal `yaml:"extra_avdrag_manad" json:"extraAvdragManad" validate:"gte=0"`
}

// PrivatpersonBreakdown repeats the five tax components
type PrivatpersonBreakdown struct {
	Kommunal   decimal.Decimal `yaml:"kommunal" json:"kommunal"`
	Regional   decimal.Decimal `yaml:"regional" json:"regional"`
	Statlig    decimal.Decimal `yaml:"statlig" json:"statlig"`
	Begravning decimal.Decimal `yaml:"begravning" json:"begravning"`
	Kyrka      decimal.Decimal `yaml:"kyrka" json:"kyrka"`
}

// PrivatpersonResult is the annual tax and monthly net salary of an individual
type PrivatpersonResult struct {
	Arslon            decimal.Decimal       `yaml:"arslon" json:"arslon"`
	KommunalSkatt     decimal.Decimal       `yaml:"kommunal_skatt" json:"kommunalSkatt"`
	RegionalSkatt     decimal.Decimal       `yaml:"regional_skatt" json:"regionalSkatt"`
	StatligSkatt      decimal.Decimal       `yaml:"statlig_skatt" json:"statligSkatt"`
	Begravningsavgift decimal.Decimal       `yaml:"begravningsavgift" json:"begravningsavgift"`
	Kyrkoavgift       decimal.Decimal       `yaml:"kyrkoavgift" json:"kyrkoavgift"`
	TotalSkatt        decimal.Decimal       `yaml:"total_skatt" json:"totalSkatt"`
	NettolonManad     decimal.Decimal       `yaml:"nettolon_manad" json:"nettolonManad"`
	Breakdown         PrivatpersonBreakdown `yaml:"breakdown" json:"breakdown"`
}

// ArbetsgivareInput describes one employee from the employer's side
type ArbetsgivareInput struct {
	BruttolonManad decimal.Decimal `yaml:"bruttolon_manad" json:"bruttolonManad" validate:"gte=0"`
	Age            int             `yaml:"age" json:"age" validate:"gte=0,lte=150"`
	SemesterProc   decimal.Decimal `yaml:"semester_proc" json:"semesterProc" validate:"gte=0,lte=100"`
	PensionProc    decimal.Decimal `yaml:"pension_proc" json:"pensionProc" validate:"gte=0,lte=100"`
}

// ArbetsgivareBreakdown groups the monthly cost components
type ArbetsgivareBreakdown struct {
	Bruttolon decimal.Decimal `yaml:"bruttolon" json:"bruttolon"`
	Avgifter  decimal.Decimal `yaml:"avgifter" json:"avgifter"`
	Semester  decimal.Decimal `yaml:"semester" json:"semester"`
	Pension   decimal.Decimal `yaml:"pension" json:"pension"`
}

// ArbetsgivareResult is the employer's total monthly cost
type ArbetsgivareResult struct {
	BruttolonManad    decimal.Decimal       `yaml:"bruttolon_manad" json:"bruttolonManad"`
	AGRate            decimal.Decimal       `yaml:"ag_rate" json:"agRate"`
	Arbetsgivaravgift decimal.Decimal       `yaml:"arbetsgivaravgift" json:"arbetsgivaravgift"`
	Semesterpaslag    decimal.Decimal       `yaml:"semesterpaslag" json:"semesterpaslag"`
	Pension           decimal.Decimal       `yaml:"pension" json:"pension"`
	TotalkostnadManad decimal.Decimal       `yaml:"totalkostnad_manad" json:"totalkostnadManad"`
	KostnadPerTimme   decimal.Decimal       `yaml:"kostnad_per_timme" json:"kostnadPerTimme"`
	Breakdown         ArbetsgivareBreakdown `yaml:"breakdown" json:"breakdown"`
}
