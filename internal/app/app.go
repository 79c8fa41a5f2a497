package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gocountry/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkglog"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkguid"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	config pkgconfig.Config

	uuid      pkguid.StringID
	goroutine *pkgroutine.Manager

	router     *pkgrouter.Router
	httpServer *http.Server

	// closed in reverse order by Stop
	closers []closer
}

// New wires the application or exits the process when a dependency cannot
// be initialised.
func New() *App {
	pkglog.InitLogging(pkglog.DefaultService, pkglog.ParseLevel("info"))

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLogging()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()

	return app
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}
