package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gocountry/internal/country"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.country.enabled") {
		closer, err := country.New(country.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
		})
		if err != nil {
			slog.Error("failed to init module country", "error", err)
			os.Exit(1)
		}
		a.addCloser("Country", closer)
	}
}
