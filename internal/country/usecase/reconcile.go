package usecase

import (
	"strings"
	"time"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
)

// reconcile joins directory entries with exchange rates by currency code.
//
// Entries without a name are skipped. Only the first listed currency is used.
// Duplicate names (case-insensitive) are all returned in input order so the
// store's upsert makes the last one win.
func reconcile(entries []entity.DirectoryEntry, rates map[string]float64, est *Estimator, now time.Time) []entity.Country {
	countries := make([]entity.Country, 0, len(entries))

	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}

		population := entry.Population
		if population < 0 {
			population = 0
		}

		var currencyCode *string
		var exchangeRate *float64
		if len(entry.CurrencyCodes) > 0 {
			if code := strings.TrimSpace(entry.CurrencyCodes[0]); code != "" {
				currencyCode = &code
				if rate, ok := rates[code]; ok {
					exchangeRate = &rate
				}
			}
		}

		countries = append(countries, entity.Country{
			Name:            name,
			Capital:         strings.TrimSpace(entry.Capital),
			Region:          strings.TrimSpace(entry.Region),
			Population:      population,
			CurrencyCode:    currencyCode,
			ExchangeRate:    exchangeRate,
			EstimatedGDP:    est.Estimate(population, exchangeRate),
			FlagURL:         strings.TrimSpace(entry.Flag),
			LastRefreshedAt: now,
		})
	}

	return countries
}
