package usecase

import (
	"testing"
	"time"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileWakanda(t *testing.T) {
	now := time.Date(2025, 10, 22, 10, 0, 0, 0, time.UTC)
	entries := []entity.DirectoryEntry{
		{Name: "Wakanda", Population: 1000, CurrencyCodes: []string{"WAK"}},
	}

	got := reconcile(entries, map[string]float64{"WAK": 2.0}, NewEstimator(nil), now)

	require.Len(t, got, 1)
	c := got[0]
	require.NotNil(t, c.CurrencyCode)
	assert.Equal(t, "WAK", *c.CurrencyCode)
	require.NotNil(t, c.ExchangeRate)
	assert.Equal(t, 2.0, *c.ExchangeRate)
	require.NotNil(t, c.EstimatedGDP)
	assert.GreaterOrEqual(t, *c.EstimatedGDP, 500_000.0)
	assert.Less(t, *c.EstimatedGDP, 1_000_000.0)
	assert.Equal(t, now, c.LastRefreshedAt)
}

func TestReconcileWithoutCurrencies(t *testing.T) {
	entries := []entity.DirectoryEntry{
		{Name: "Nowhere", Population: 5_000_000},
		{Name: "Blank", Population: 10, CurrencyCodes: []string{""}},
	}

	got := reconcile(entries, map[string]float64{"USD": 1}, NewEstimator(nil), time.Now())

	require.Len(t, got, 2)
	for _, c := range got {
		assert.Nil(t, c.CurrencyCode, c.Name)
		assert.Nil(t, c.ExchangeRate, c.Name)
		assert.Nil(t, c.EstimatedGDP, c.Name)
	}
}

func TestReconcileUsesFirstCurrencyOnly(t *testing.T) {
	entries := []entity.DirectoryEntry{
		{Name: "Zimbabwe", Population: 100, CurrencyCodes: []string{"ZWL", "USD"}},
	}

	got := reconcile(entries, map[string]float64{"USD": 1}, NewEstimator(fixedRand(0)), time.Now())

	require.Len(t, got, 1)
	require.NotNil(t, got[0].CurrencyCode)
	assert.Equal(t, "ZWL", *got[0].CurrencyCode)
	assert.Nil(t, got[0].ExchangeRate)
	assert.Nil(t, got[0].EstimatedGDP)
}

func TestReconcileUncodifiedFirstCurrency(t *testing.T) {
	entries := []entity.DirectoryEntry{
		{Name: "Panama", Population: 100, CurrencyCodes: []string{"", "USD"}},
		{Name: "Tuvalu", Population: 100, CurrencyCodes: []string{"  ", "AUD"}},
	}

	got := reconcile(entries, map[string]float64{"USD": 1, "AUD": 1.5}, NewEstimator(fixedRand(0)), time.Now())

	require.Len(t, got, 2)
	for _, c := range got {
		assert.Nil(t, c.CurrencyCode, c.Name)
		assert.Nil(t, c.ExchangeRate, c.Name)
		assert.Nil(t, c.EstimatedGDP, c.Name)
	}
}

func TestReconcileSkipsNamelessAndClampsPopulation(t *testing.T) {
	entries := []entity.DirectoryEntry{
		{Name: "", Population: 10},
		{Name: "   ", Population: 10},
		{Name: " Ghana ", Capital: "Accra", Region: "Africa", Population: -3, Flag: "https://flagcdn.com/gh.svg", CurrencyCodes: []string{"GHS"}},
	}

	got := reconcile(entries, map[string]float64{"GHS": 15.3}, NewEstimator(nil), time.Now())

	require.Len(t, got, 1)
	c := got[0]
	assert.Equal(t, "Ghana", c.Name)
	assert.Equal(t, "Accra", c.Capital)
	assert.Equal(t, "Africa", c.Region)
	assert.Equal(t, "https://flagcdn.com/gh.svg", c.FlagURL)
	assert.Equal(t, int64(0), c.Population)
	require.NotNil(t, c.ExchangeRate)
	assert.Nil(t, c.EstimatedGDP)
}

func TestReconcileRatePointersAreIndependent(t *testing.T) {
	entries := []entity.DirectoryEntry{
		{Name: "A", Population: 1, CurrencyCodes: []string{"AAA"}},
		{Name: "B", Population: 1, CurrencyCodes: []string{"BBB"}},
	}

	got := reconcile(entries, map[string]float64{"AAA": 1, "BBB": 2}, NewEstimator(nil), time.Now())

	require.Len(t, got, 2)
	assert.Equal(t, 1.0, *got[0].ExchangeRate)
	assert.Equal(t, 2.0, *got[1].ExchangeRate)
}
