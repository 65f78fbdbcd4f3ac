package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"contact-converter/config"
	"contact-converter/logging"
	"contact-converter/usage/application"
	"contact-converter/usage/domain"
	"contact-converter/usage/infra"
	"contact-converter/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return err
	}
	log.Logger = logger

	store := infra.NewMemoryStatsStore()

	var sink domain.UsageSink
	if cfg.Usage.Sink.RedisEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Usage.Sink.RedisAddr,
			Password: cfg.Usage.Sink.RedisPassword,
			DB:       cfg.Usage.Sink.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			return fmt.Errorf("redis usage sink ping error: %w", err)
		}

		sink = infra.NewRedisUsageSink(
			rdb,
			infra.WithSinkPrefix(cfg.Usage.Sink.Prefix),
			infra.WithSinkTTL(cfg.Usage.Sink.TTL),
			infra.WithSinkBucket(cfg.Usage.Sink.Bucket),
		)
	}

	usage := application.NewDispatcher(
		store,
		application.WithPool(infra.NewChanPool(cfg.Usage.MaxInFlight)),
		application.WithSinkPool(infra.NewChanPool(cfg.Usage.MaxInFlight)),
		application.WithSink(sink),
		application.WithLogger(logger.With().Str("component", "usage").Logger()),
	)

	var metrics http.Handler
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			infra.NewCollector(store, usage, logger),
		)
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	h := web.NewHandler(web.Options{
		Usage:   usage,
		Stats:   store,
		Logger:  logger,
		Metrics: metrics,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(srv, usage, store, cfg.ShutdownTimeout, logger)
	})

	logger.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
	logger.Info().
		Int("max_inflight", cfg.Usage.MaxInFlight).
		Bool("metrics", cfg.Metrics.Enabled).
		Bool("redis_sink", cfg.Usage.Sink.RedisEnabled).
		Str("sink_bucket", cfg.Usage.Sink.Bucket).
		Dur("sink_ttl", cfg.Usage.Sink.TTL).
		Msg("usage tracking")

	return g.Wait()
}

// shutdown para de aceitar requisições e dá uma chance aos incrementos em voo.
// O dreno tem prazo próprio: o srv.Shutdown pode consumir o timeout inteiro.
// O que não terminar dentro do prazo é perdido.
func shutdown(srv *http.Server, usage *application.Dispatcher, store *infra.MemoryStatsStore, timeout time.Duration, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := srv.Shutdown(ctx)

	drainCtx, drainCancel := context.WithTimeout(context.Background(), timeout)
	defer drainCancel()
	if werr := usage.Shutdown(drainCtx); werr != nil {
		logger.Warn().Err(werr).Int("in_flight", usage.InFlight()).Msg("pending usage increments lost")
	}

	ev := logger.Info().
		Uint64("dropped", usage.Dropped()).
		Uint64("failed", usage.Failed()).
		Uint64("sink_dropped", usage.SinkDropped()).
		Bool("stats_poisoned", store.Poisoned())
	if snap, serr := store.Snapshot(); serr == nil {
		ev = ev.Uint64("to_celsius", snap.ToCelsius).Uint64("to_fahrenheit", snap.ToFahrenheit)
	}
	ev.Msg("server stopped")
	return err
}
