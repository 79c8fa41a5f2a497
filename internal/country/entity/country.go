package entity

import "time"

// Country is the latest known state of one country.
//
// CurrencyCode, ExchangeRate and EstimatedGDP are nil when absent. Capital,
// Region and FlagURL use the empty string for unknown.
type Country struct {
	ID              int64
	Name            string
	Capital         string
	Region          string
	Population      int64
	CurrencyCode    *string
	ExchangeRate    *float64
	EstimatedGDP    *float64
	FlagURL         string
	LastRefreshedAt time.Time
}

// RefreshMetadata is the singleton record describing the last successful refresh.
type RefreshMetadata struct {
	TotalCountries  int
	LastRefreshedAt time.Time
}

// DirectoryEntry is one country as reported by the directory source.
type DirectoryEntry struct {
	Name          string
	Capital       string
	Region        string
	Population    int64
	Flag          string
	CurrencyCodes []string
}
