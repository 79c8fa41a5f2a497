package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkglog"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to load .env file", "error", err)
		}
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
	a.addCloser("Config", func(context.Context) error { return cfg.Close() })
}

func (a *App) initLogging() {
	service := a.config.GetString("app.name")
	if service == "" {
		service = pkglog.DefaultService
	}

	pkglog.InitLogging(service, pkglog.ParseLevel(a.config.GetString("log.level")))
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("goroutine.max")))
	a.uuid = pkguid.NewUUID()
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)
	a.router.Handle(http.MethodGet, "/metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{pkgrouter.HeaderCorrelationID},
	})

	readHeaderTimeout := a.config.GetDuration("server.read_header_timeout")
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 10 * time.Second
	}

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
