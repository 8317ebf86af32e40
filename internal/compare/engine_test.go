package compare

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/kalkyl/internal/calculation"
	"github.com/rgehrsitz/kalkyl/internal/config"
	"github.com/rgehrsitz/kalkyl/internal/domain"
)

func newEngine(t *testing.T) *CompareEngine {
	t.Helper()
	cfg, err := config.NewInputParser().DefaultTaxConfig()
	require.NoError(t, err)
	return NewCompareEngine(calculation.NewTaxEngine(*cfg))
}

func input(kommun string) domain.PrivatpersonInput {
	return domain.PrivatpersonInput{
		Kommun:         kommun,
		Age:            40,
		BruttolonManad: decimal.NewFromInt(35000),
	}
}

func TestCompareSelectedMunicipalities(t *testing.T) {
	ce := newEngine(t)

	set, err := ce.Compare(input("Stockholm"), []string{"Göteborg", "Malmö"})
	require.NoError(t, err)

	direct := ce.Tax.CalculatePrivatperson(input("Stockholm"))
	require.NotNil(t, set.BaseResult)
	assert.Equal(t, "Stockholm", set.BaseResult.Kommun)
	assert.True(t, set.BaseResult.NettolonMan.Equal(direct.NettolonManad))
	assert.True(t, set.BaseResult.CombinedRate().Equal(decimal.RequireFromString("30.06")))
	assert.Equal(t, 2025, set.TaxYear)

	require.Len(t, set.AlternativeResults, 2)
	assert.Equal(t, "Malmö", set.AlternativeResults[0].Kommun, "lower rate ranks first")
	assert.Equal(t, "Göteborg", set.AlternativeResults[1].Kommun)
	for _, alt := range set.AlternativeResults {
		assert.True(t, alt.NetDiffFromBase.IsNegative(), alt.Kommun)
		assert.True(t, alt.NetDiffFromBase.Equal(alt.NettolonMan.Sub(set.BaseResult.NettolonMan)))
		assert.True(t, alt.NetPctFromBase.IsNegative())
	}

	require.Len(t, set.Recommendations, 1)
	assert.Contains(t, set.Recommendations[0], "Stockholm har redan lägst skatt")
}

func TestCompareAllMunicipalities(t *testing.T) {
	ce := newEngine(t)

	set, err := ce.Compare(input("Norrköping"), nil)
	require.NoError(t, err)

	assert.Len(t, set.AlternativeResults, len(ce.Tax.Municipalities())-1)
	best := set.Best()
	require.NotNil(t, best)
	assert.Equal(t, "Stockholm", best.Kommun)
	assert.True(t, best.NetDiffFromBase.IsPositive())
	assert.Contains(t, set.Recommendations[0], "Högst nettolön: Stockholm")

	for i := 1; i < len(set.AlternativeResults); i++ {
		prev, cur := set.AlternativeResults[i-1], set.AlternativeResults[i]
		assert.True(t, prev.NettolonMan.GreaterThanOrEqual(cur.NettolonMan), "%s before %s", prev.Kommun, cur.Kommun)
	}
}

func TestCompareSkipsBaseAndDuplicates(t *testing.T) {
	set, err := newEngine(t).Compare(input("Uppsala"), []string{"Uppsala", "Malmö", "Malmö"})
	require.NoError(t, err)
	require.Len(t, set.AlternativeResults, 1)
	assert.Equal(t, "Malmö", set.AlternativeResults[0].Kommun)
}

func TestCompareUnknownMunicipality(t *testing.T) {
	ce := newEngine(t)

	_, err := ce.Compare(input("Atlantis"), nil)
	assert.ErrorContains(t, err, `base kommun "Atlantis"`)

	_, err = ce.Compare(input("Stockholm"), []string{"Atlantis"})
	assert.ErrorContains(t, err, `kommun "Atlantis" not found`)
}

func TestCompareZeroSalary(t *testing.T) {
	in := input("Stockholm")
	in.BruttolonManad = decimal.Zero

	set, err := newEngine(t).Compare(in, []string{"Malmö"})
	require.NoError(t, err)
	assert.True(t, set.AlternativeResults[0].NetPctFromBase.IsZero())
}
