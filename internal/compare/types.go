// Package compare ranks municipalities by the net salary they leave for one
// salary situation.
package compare

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/kalkyl/internal/domain"
)

// ComparisonResult is the tax outcome in one municipality
type ComparisonResult struct {
	Kommun      string          `json:"kommun"`
	KommunProc  decimal.Decimal `json:"kommunProc"`
	RegionProc  decimal.Decimal `json:"regionProc"`
	TotalSkatt  decimal.Decimal `json:"totalSkatt"`
	NettolonMan decimal.Decimal `json:"nettolonManad"`

	// Difference against the base municipality, per month
	NetDiffFromBase decimal.Decimal `json:"netDiffFromBase"`
	NetPctFromBase  decimal.Decimal `json:"netPctFromBase"`
}

// CombinedRate returns the municipal plus regional rate
func (r ComparisonResult) CombinedRate() decimal.Decimal {
	return r.KommunProc.Add(r.RegionProc)
}

// ComparisonSet is a base municipality and the alternatives, best net salary first
type ComparisonSet struct {
	Input              domain.PrivatpersonInput `json:"input"`
	BaseResult         *ComparisonResult        `json:"baseResult"`
	AlternativeResults []ComparisonResult       `json:"alternativeResults"`
	Recommendations    []string                 `json:"recommendations"`
	TaxYear            int                      `json:"taxYear"`
}

// Best returns the alternative with the highest net salary, or nil when there are none
func (cs *ComparisonSet) Best() *ComparisonResult {
	if len(cs.AlternativeResults) == 0 {
		return nil
	}
	return &cs.AlternativeResults[0]
}
