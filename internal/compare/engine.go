package compare

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/kalkyl/internal/calculation"
	"github.com/rgehrsitz/kalkyl/internal/domain"
	"github.com/rgehrsitz/kalkyl/internal/output"
)

// CompareEngine runs one salary situation through several municipalities
type CompareEngine struct {
	Tax *calculation.TaxEngine
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(tax *calculation.TaxEngine) *CompareEngine {
	return &CompareEngine{Tax: tax}
}

// Compare computes in for in.Kommun and every municipality in with.
// An empty with compares against all configured municipalities.
func (ce *CompareEngine) Compare(in domain.PrivatpersonInput, with []string) (*ComparisonSet, error) {
	if _, ok := ce.Tax.RatesFor(in.Kommun); !ok {
		return nil, fmt.Errorf("base kommun %q not found in rate table", in.Kommun)
	}

	if len(with) == 0 {
		with = ce.Tax.Municipalities()
	}

	base := ce.result(in, in.Kommun)
	set := &ComparisonSet{
		Input:      in,
		BaseResult: &base,
		TaxYear:    ce.Tax.Config().TaxYear,
	}

	seen := map[string]bool{in.Kommun: true}
	for _, kommun := range with {
		if seen[kommun] {
			continue
		}
		seen[kommun] = true
		if _, ok := ce.Tax.RatesFor(kommun); !ok {
			return nil, fmt.Errorf("kommun %q not found in rate table", kommun)
		}

		alt := in
		alt.Kommun = kommun
		r := ce.result(alt, kommun)
		r.NetDiffFromBase = r.NettolonMan.Sub(base.NettolonMan)
		if base.NettolonMan.IsPositive() {
			r.NetPctFromBase = r.NetDiffFromBase.Div(base.NettolonMan).Mul(decimal.NewFromInt(100)).Round(2)
		}
		set.AlternativeResults = append(set.AlternativeResults, r)
	}

	sort.SliceStable(set.AlternativeResults, func(i, j int) bool {
		a, b := set.AlternativeResults[i], set.AlternativeResults[j]
		if !a.NettolonMan.Equal(b.NettolonMan) {
			return a.NettolonMan.GreaterThan(b.NettolonMan)
		}
		return a.Kommun < b.Kommun
	})

	set.Recommendations = recommendations(set)
	return set, nil
}

func (ce *CompareEngine) result(in domain.PrivatpersonInput, kommun string) ComparisonResult {
	rates, _ := ce.Tax.RatesFor(kommun)
	res := ce.Tax.CalculatePrivatperson(in)
	return ComparisonResult{
		Kommun:      kommun,
		KommunProc:  rates.Kommun,
		RegionProc:  rates.Region,
		TotalSkatt:  res.TotalSkatt,
		NettolonMan: res.NettolonManad,
	}
}

func recommendations(set *ComparisonSet) []string {
	best := set.Best()
	if best == nil {
		return nil
	}
	if !best.NetDiffFromBase.IsPositive() {
		return []string{fmt.Sprintf("%s har redan lägst skatt av de jämförda kommunerna", set.BaseResult.Kommun)}
	}
	return []string{fmt.Sprintf("Högst nettolön: %s ger %s mer per månad än %s",
		best.Kommun, output.FormatCurrency(best.NetDiffFromBase), set.BaseResult.Kommun)}
}
