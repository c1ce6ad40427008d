package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vmunix/catalogd/internal/assembler"
	"github.com/vmunix/catalogd/internal/backfill"
	"github.com/vmunix/catalogd/internal/config"
	"github.com/vmunix/catalogd/internal/httpapi"
	"github.com/vmunix/catalogd/internal/metrics"
	"github.com/vmunix/catalogd/internal/provider"
	"github.com/vmunix/catalogd/internal/ratelimit"
	"github.com/vmunix/catalogd/internal/store"
)

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	var providerClient *provider.Client
	if cfg.HasProvider() {
		fg, bg := ratelimit.ProviderBuckets(float64(cfg.Provider.RPS), float64(cfg.Provider.ForegroundRPS))
		httpClient := &http.Client{Timeout: 15 * time.Second}
		if cfg.Provider.Proxy != "" {
			proxyURL, err := url.Parse(cfg.Provider.Proxy)
			if err != nil {
				return fmt.Errorf("parse TMDB_PROXY: %w", err)
			}
			httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
			logger.Info("provider proxy configured", "proxy", cfg.Provider.Proxy)
		}
		providerClient = provider.New(cfg.Provider.APIKey, fg, bg, provider.WithHTTPClient(httpClient), provider.WithLogger(logger))
		logger.Info("provider client configured", "rps", cfg.Provider.RPS, "foreground_rps", cfg.Provider.ForegroundRPS)
	} else {
		logger.Warn("no TMDB_API_KEY set; serving from local store only")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var scheduler *backfill.Scheduler
	if providerClient != nil {
		bcfg := backfill.Config{
			Workers:    cfg.Backfill.Workers,
			QueueLimit: cfg.Backfill.QueueLimit,
			TTL:        cfg.Backfill.TTL,
		}
		scheduler = backfill.New(st, providerClient, bcfg, logger)
		scheduler.Start(ctx)
	}

	var m *metrics.Metrics
	if scheduler != nil {
		m = metrics.New(func() float64 { return float64(scheduler.QueueDepth()) })
	} else {
		m = metrics.New(nil)
	}
	if providerClient != nil {
		providerClient.SetMetrics(m)
	}
	if scheduler != nil {
		scheduler.SetMetrics(m)
	}

	asm := assembler.New(assembler.Deps{
		Store:    st,
		Provider: providerClient,
		Backfill: scheduler,
		Metrics:  m,
		Log:      logger,
	})

	srv := httpapi.New(httpapi.Deps{
		Assembler:   asm,
		RateLimit:   cfg.RateLimit,
		CORS:        cfg.CORS,
		Compression: cfg.Compression,
		Metrics:     m,
		Log:         logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.BindAddr, cfg.Server.HTTPPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ConnTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"provider", providerClient != nil,
	)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	var httpsServer *http.Server
	if cfg.Server.HTTPSPort > 0 && cfg.Server.TLSCert != "" && cfg.Server.TLSKey != "" {
		httpsAddr := fmt.Sprintf("%s:%d", cfg.Server.BindAddr, cfg.Server.HTTPSPort)
		httpsServer = &http.Server{
			Addr:              httpsAddr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.Server.ConnTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		}
		logger.Info("tls server starting", "addr", httpsAddr)
		go func() {
			if err := httpsServer.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey); err != nil && err != http.ErrServerClosed {
				logger.Error("tls server error", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	cancel()
	if scheduler != nil {
		scheduler.Wait()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if httpsServer != nil {
		if err := httpsServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("tls shutdown: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
