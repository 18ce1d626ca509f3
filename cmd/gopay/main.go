package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eamirgh/gopay"
	"github.com/eamirgh/gopay/config"
	"github.com/eamirgh/gopay/internal/httpapi"
	"github.com/eamirgh/gopay/logging"
	"github.com/eamirgh/gopay/metrics"
)

func main() {
	var (
		configPath string
		addr       string
		publicURL  string
	)
	flag.StringVar(&configPath, "config", "", "path to config yaml (built-in defaults when empty)")
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&publicURL, "public-url", "http://localhost:8080", "public base url used to build callback urls")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			bootLogger := logging.New(cfg.Log)
			bootLogger.Fatal().Err(err).Str("path", configPath).Msg("load config")
		}
		cfg = loaded
	}
	logger := logging.New(cfg.Log)

	for name, settings := range cfg.Drivers {
		merchant := settings.String("merchant_id")
		if merchant == "" {
			merchant = settings.String("merchant")
		}
		logger.Info().
			Str("driver", name).
			Str("implementation", cfg.Map[name]).
			Str("merchant", logging.Redact(merchant)).
			Interface("sandbox", settings["sandbox"]).
			Msg("driver configured")
	}

	reg := prometheus.NewRegistry()
	m := metrics.New()
	m.MustRegister(reg)
	client := m.InstrumentClient(&http.Client{Timeout: cfg.HTTP.Timeout})

	newManager := func() *gopay.Manager {
		return gopay.New(cfg,
			gopay.WithHTTPClient(client),
			gopay.WithLogger(logger),
			gopay.WithListener(m),
		)
	}
	api := httpapi.NewServer(newManager, publicURL, logger, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", addr).Str("default_driver", cfg.Default).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}
}
