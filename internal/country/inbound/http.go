package inbound

import (
	"context"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/country/usecase"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgrouter"
)

type uc interface {
	Refresh(ctx context.Context) (usecase.RefreshResult, error)
	Countries(ctx context.Context, filter usecase.CountryFilter) ([]entity.Country, error)
	Country(ctx context.Context, name string) (entity.Country, error)
	DeleteCountry(ctx context.Context, name string) error
	Status(ctx context.Context) (usecase.StatusResult, error)
	SummaryImage(ctx context.Context) ([]byte, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/countries/refresh", end.Refresh)

	r.GET("/countries", end.Countries)     // ?region=&currency=&sort=
	r.GET("/countries/:name", end.Country) // "image" serves the summary png
	r.DELETE("/countries/:name", end.DeleteCountry)

	r.GET("/status", end.Status)
}
