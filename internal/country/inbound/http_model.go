package inbound

import (
	"time"
)

type ListCountriesRequest struct {
	Region   string `json:"region" validate:"max=100"`
	Currency string `json:"currency" validate:"max=10"`
	Sort     string `json:"sort" validate:"omitempty,oneof=gdp_desc gdp_asc name"`
}

type Country struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Capital         *string   `json:"capital"`
	Region          *string   `json:"region"`
	Population      int64     `json:"population"`
	CurrencyCode    *string   `json:"currency_code"`
	ExchangeRate    *float64  `json:"exchange_rate"`
	EstimatedGDP    *float64  `json:"estimated_gdp"`
	FlagURL         *string   `json:"flag_url"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

type CountryList []Country

func (l CountryList) Meta() map[string]any {
	return map[string]any{"total": len(l)}
}

type RefreshResponse struct {
	TotalCountries  int       `json:"total_countries"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

func (RefreshResponse) Message() string {
	return "countries refreshed successfully"
}

type DeleteResponse struct {
	Name string `json:"name"`
}

func (DeleteResponse) Message() string {
	return "country deleted successfully"
}

type StatusResponse struct {
	TotalCountries  int        `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

type ImageResponse struct {
	data []byte
}

func (ImageResponse) ContentType() string {
	return "image/png"
}

func (i ImageResponse) Body() []byte {
	return i.data
}
