package outbound

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/country/usecase"
)

const DefaultDirectoryURL = "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"

var _ usecase.DirectorySource = (*DirectoryClient)(nil)

// Getter fetches a URL and returns the raw body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type DirectoryClient struct {
	http Getter
	url  string
}

func NewDirectoryClient(http Getter, url string) *DirectoryClient {
	if url == "" {
		url = DefaultDirectoryURL
	}

	return &DirectoryClient{http: http, url: url}
}

type directoryItem struct {
	Name       string   `json:"name"`
	Capital    string   `json:"capital"`
	Region     string   `json:"region"`
	Population *float64 `json:"population"`
	Flag       string   `json:"flag"`
	Currencies []struct {
		Code *string `json:"code"`
	} `json:"currencies"`
}

func (d *DirectoryClient) FetchCountries(ctx context.Context) ([]entity.DirectoryEntry, error) {
	body, err := d.http.Get(ctx, d.url)
	if err != nil {
		return nil, err
	}

	var items []directoryItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}

	entries := make([]entity.DirectoryEntry, 0, len(items))
	for _, item := range items {
		entry := entity.DirectoryEntry{
			Name:    item.Name,
			Capital: item.Capital,
			Region:  item.Region,
			Flag:    item.Flag,
		}

		entry.Population = population(item.Population)

		// One slot per listed currency; a null code stays "" so the first
		// currency keeps its position.
		for _, cur := range item.Currencies {
			code := ""
			if cur.Code != nil {
				code = *cur.Code
			}
			entry.CurrencyCodes = append(entry.CurrencyCodes, code)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// population converts the upstream number, treating missing, negative and
// NaN as 0 and capping values beyond int64.
func population(v *float64) int64 {
	if v == nil || math.IsNaN(*v) || *v <= 0 {
		return 0
	}
	if *v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(*v)
}
