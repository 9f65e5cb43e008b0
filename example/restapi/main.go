// SPDX-License-Identifier: MIT

// Command restapi is the demo REST service for the strut toolkit: a
// CRUD resource with plugins, the unified response envelope, the full
// middleware stack and graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/go-strut/strut"
	"github.com/go-strut/strut/cache"
	"github.com/go-strut/strut/devreload"
	"github.com/go-strut/strut/docgen"
	"github.com/go-strut/strut/log"
	"github.com/go-strut/strut/middleware"
	"github.com/go-strut/strut/response"
	"github.com/go-strut/strut/telemetry"
)

func main() {
	addr := pflag.String("addr", "", "listen address (overrides config)")
	debug := pflag.Bool("debug", false, "debug logging, config dump and route table")
	dev := pflag.BoolP("dev", "d", false, "watch source files and exit on change for a supervisor restart")
	token := pflag.String("token", "", "bearer token required by the auth plugin (DELETE)")
	pflag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Configure(log.Config{Service: "strut-restapi"})
		base := log.Base()
		base.Fatal().Err(err).Str("event", "config.load_failed").Msg("failed to load configuration")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	log.Configure(log.Config{Level: cfg.LogLevel, Service: "strut-restapi"})
	logger := log.WithComponent("restapi")

	if *debug {
		if dump, err := yaml.Marshal(cfg); err == nil {
			logger.Debug().Str("event", "config.dump").Msg(string(dump))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  "strut-restapi",
		Environment:  "development",
		ExporterType: cfg.Tracing.Exporter,
		Endpoint:     cfg.Tracing.Endpoint,
		SamplingRate: cfg.Tracing.Sampling,
	})
	if err != nil {
		logger.Fatal().Err(err).Str("event", "telemetry.init_failed").Msg("failed to initialise tracing")
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	store, err := buildCache(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "cache.init_failed").Msg("failed to initialise cache")
	}
	ttl, err := time.ParseDuration(cfg.CacheTTL)
	if err != nil {
		ttl = 30 * time.Second
	}

	stack := middleware.StackConfig{
		EnableCORS:    true,
		StripSlashes:  true,
		EnableMetrics: true,
		EnableLogging: true,
	}
	if cfg.Tracing.Enabled {
		stack.TracingService = "strut-restapi"
	}
	r := middleware.NewRouter(stack)

	plugins := strut.NewPluginSet()
	if err := plugins.Use(
		authPlugin(*token),
		strut.NewPlugin("cached", middleware.ResponseCache(store, ttl)),
	); err != nil {
		logger.Fatal().Err(err).Msg("plugin registration failed")
	}

	rt := strut.NewRouter()
	err = rt.Resource("/resources", &ResourceHandler{store: NewStore()},
		strut.WithName("ResourceHandler"),
		strut.WithDescription("API Handler for Data Resource."),
		strut.WithParams(http.MethodGet, strut.Optional("uid")),
		strut.WithParams(http.MethodPut, strut.Required("uid")),
		strut.WithParams(http.MethodDelete, strut.Required("uid")),
		strut.WithPlugins(plugins),
		strut.UsePlugins(http.MethodGet, "cached"),
		strut.UsePlugins(http.MethodDelete, "auth"),
	)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "routes.invalid").Msg("resource registration failed")
	}
	if err := rt.HandleFunc("/status", statusHandler(time.Now())); err != nil {
		logger.Fatal().Err(err).Msg("status route registration failed")
	}
	if err := rt.Mount(r); err != nil {
		logger.Fatal().Err(err).Msg("route mounting failed")
	}
	r.Handle("/metrics", promhttp.Handler())

	if *debug {
		docgen.WriteTable(os.Stdout, rt.Routes())
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("event", "server.started").Str("addr", cfg.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info().Str("event", "server.stopping").Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if *dev {
		g.Go(func() error {
			watcher, err := devreload.New(devreload.Config{
				Dirs:       []string{"."},
				Extensions: []string{".go", ".yaml"},
			})
			if err != nil {
				return err
			}
			return watcher.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Str("event", "server.failed").Msg("server error")
	}
	logger.Info().Str("event", "server.stopped").Msg("bye")
}

// buildCache picks the response-cache backend: Redis when configured,
// otherwise the in-process store.
func buildCache(cfg Config) (cache.Cache, error) {
	if cfg.RedisURL != "" {
		return cache.NewRedisCache(cache.RedisConfig{Addr: cfg.RedisURL}, log.WithComponent("cache"))
	}
	return cache.NewMemoryCache(time.Minute), nil
}

// authPlugin guards a route with a static bearer token. An empty token
// rejects every request, which is the safe default for a demo.
func authPlugin(token string) strut.Plugin {
	return strut.NewPlugin("auth", func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" || r.Header.Get("Authorization") != "Bearer "+token {
				_ = response.Unauthorized("missing or invalid bearer token").Write(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
}
