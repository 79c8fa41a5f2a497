package usecase

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
)

type RefreshResult struct {
	TotalCountries  int
	LastRefreshedAt time.Time
}

type StatusResult struct {
	TotalCountries  int
	LastRefreshedAt *time.Time
}

// CountryFilter selects and orders countries. Empty fields match everything.
type CountryFilter struct {
	Region       string
	CurrencyCode string
	Sort         entity.SortOrder
}

func (f CountryFilter) Matches(c entity.Country) bool {
	if f.Region != "" && !strings.EqualFold(c.Region, f.Region) {
		return false
	}

	if f.CurrencyCode != "" {
		if c.CurrencyCode == nil || !strings.EqualFold(*c.CurrencyCode, f.CurrencyCode) {
			return false
		}
	}

	return true
}

// SortCountries orders items in place according to order. The sort is stable,
// so ties (and SortDefault) keep the incoming insertion order.
func SortCountries(items []entity.Country, order entity.SortOrder) {
	switch order {
	case entity.SortGDPDesc:
		slices.SortStableFunc(items, func(a, b entity.Country) int {
			return compareGDP(a.EstimatedGDP, b.EstimatedGDP, true)
		})
	case entity.SortGDPAsc:
		slices.SortStableFunc(items, func(a, b entity.Country) int {
			return compareGDP(a.EstimatedGDP, b.EstimatedGDP, false)
		})
	case entity.SortName:
		slices.SortStableFunc(items, func(a, b entity.Country) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
}

// compareGDP puts absent values last when descending and first when ascending.
func compareGDP(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		if desc {
			return 1
		}
		return -1
	case b == nil:
		if desc {
			return -1
		}
		return 1
	}

	c := cmp.Compare(*a, *b)
	if desc {
		return -c
	}
	return c
}
