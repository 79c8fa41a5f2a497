package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/country/usecase"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgrouter"
)

// imageName is the reserved path segment under /countries that serves the
// summary image instead of a country record.
const imageName = "image"

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Refresh(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	return RefreshResponse{
		TotalCountries:  result.TotalCountries,
		LastRefreshedAt: result.LastRefreshedAt,
	}, nil
}

func (h *HTTPEndpoint) Countries(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()
	req := ListCountriesRequest{
		Region:   query.Get("region"),
		Currency: query.Get("currency"),
		Sort:     query.Get("sort"),
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	countries, err := h.uc.Countries(ctx, usecase.CountryFilter{
		Region:       req.Region,
		CurrencyCode: req.Currency,
		Sort:         entity.SortOrder(req.Sort),
	})
	if err != nil {
		return nil, err
	}

	resp := make(CountryList, 0, len(countries))
	for _, c := range countries {
		resp = append(resp, toHTTPCountry(c))
	}

	return resp, nil
}

func (h *HTTPEndpoint) Country(ctx context.Context, r *http.Request) (any, error) {
	name := pkgrouter.GetParam(ctx, "name")
	if name == imageName {
		return h.summaryImage(ctx)
	}

	country, err := h.uc.Country(ctx, name)
	if err != nil {
		return nil, err
	}

	return toHTTPCountry(country), nil
}

func (h *HTTPEndpoint) DeleteCountry(ctx context.Context, r *http.Request) (any, error) {
	name := pkgrouter.GetParam(ctx, "name")
	if err := h.uc.DeleteCountry(ctx, name); err != nil {
		return nil, err
	}

	return DeleteResponse{Name: name}, nil
}

func (h *HTTPEndpoint) Status(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Status(ctx)
	if err != nil {
		return nil, err
	}

	return StatusResponse{
		TotalCountries:  result.TotalCountries,
		LastRefreshedAt: result.LastRefreshedAt,
	}, nil
}

func (h *HTTPEndpoint) summaryImage(ctx context.Context) (any, error) {
	data, err := h.uc.SummaryImage(ctx)
	if err != nil {
		return nil, err
	}

	return ImageResponse{data: data}, nil
}

func toHTTPCountry(c entity.Country) Country {
	return Country{
		ID:              c.ID,
		Name:            c.Name,
		Capital:         optional(c.Capital),
		Region:          optional(c.Region),
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    c.ExchangeRate,
		EstimatedGDP:    c.EstimatedGDP,
		FlagURL:         optional(c.FlagURL),
		LastRefreshedAt: c.LastRefreshedAt.UTC(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
