package outbound

import (
	"context"
	"errors"

	"github.com/shandysiswandi/gocountry/internal/country/usecase"
	"github.com/tidwall/gjson"
)

const DefaultRatesURL = "https://open.er-api.com/v6/latest/USD"

var (
	_ usecase.RateSource = (*RatesClient)(nil)

	errInvalidRates = errors.New("rates response is not valid json")
)

type RatesClient struct {
	http Getter
	url  string
}

func NewRatesClient(http Getter, url string) *RatesClient {
	if url == "" {
		url = DefaultRatesURL
	}

	return &RatesClient{http: http, url: url}
}

// FetchRates returns units of each currency per one USD. A response without a
// rates object yields an empty mapping. Non-numeric entries are dropped.
func (r *RatesClient) FetchRates(ctx context.Context) (map[string]float64, error) {
	body, err := r.http.Get(ctx, r.url)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, errInvalidRates
	}

	rates := make(map[string]float64)
	gjson.GetBytes(body, "rates").ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number {
			rates[key.String()] = value.Float()
		}
		return true
	})

	return rates, nil
}
