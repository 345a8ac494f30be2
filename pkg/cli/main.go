// Package cli provides the mongomap gateway command-line interface.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mongomap/mongomap/pkg/config"
	"github.com/mongomap/mongomap/pkg/health"
	"github.com/mongomap/mongomap/pkg/mapper"
	"github.com/mongomap/mongomap/pkg/observability/logger"
	"github.com/mongomap/mongomap/pkg/observability/metrics"
	"github.com/mongomap/mongomap/pkg/server"
	"github.com/mongomap/mongomap/pkg/server/router"
	"github.com/mongomap/mongomap/pkg/server/router/factory"
	"github.com/mongomap/mongomap/pkg/store/mongodb"
	"github.com/mongomap/mongomap/pkg/version"
)

// GatewayOptions defines callbacks for customizing the gateway command.
type GatewayOptions struct {
	Name        string
	Description string
	ConfigPath  string

	// Customize lets embedders adjust the per-route options before the
	// CRUD handlers are mounted, typically to install filters or
	// decorators for a collection.
	Customize func(route config.RouteConfig, opts mapper.Options) mapper.Options

	// RunServer overrides the default serve implementation, mainly for
	// tests.
	RunServer func(ctx context.Context, cfg config.Config, log logger.Logger) error
}

// NewGatewayCommand creates the root command with serve, healthcheck, and
// version subcommands. serve is also the root's default action.
func NewGatewayCommand(opts GatewayOptions) *cobra.Command {
	if opts.Name == "" {
		opts.Name = "mongomap"
	}

	rootCmd := &cobra.Command{
		Use:   opts.Name,
		Short: opts.Description,
	}

	var cfgPath string
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config-file", "c", opts.ConfigPath, "config file path")

	loadConfig := func() (config.Config, logger.Logger, error) {
		cfg, err := config.NewLoader().Load(cfgPath)
		if err != nil {
			return config.Config{}, nil, err
		}

		level, _ := logger.ParseLogLevel(cfg.Log.Level)
		format, _ := logger.ParseLogFormat(cfg.Log.Format)
		log, err := logger.NewZapLogger(logger.Config{Level: level, Format: format})
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
		}
		return cfg, log, nil
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Current(opts.Name)
			fmt.Printf("Service:    %s\n", info.Service)
			fmt.Printf("Version:    %s\n", info.Version)
			fmt.Printf("Commit:     %s\n", info.Commit)
			fmt.Printf("Build Time: %s\n", info.BuildTime)
		},
	})

	runServer := opts.RunServer
	if runServer == nil {
		runServer = func(ctx context.Context, cfg config.Config, log logger.Logger) error {
			return RunGateway(ctx, cfg, log, opts.Customize)
		}
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mapping gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(runCtx, cfg, log)
		},
	}
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(&cobra.Command{
		Use:   "healthcheck",
		Short: "Check connectivity to MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			adapter, err := mongodb.NewAdapter(mongodb.Config{
				URL:              cfg.Mongo.URL,
				Database:         cfg.Mongo.Database,
				ConnectTimeout:   cfg.Mongo.ConnectTimeout,
				OperationTimeout: cfg.Mongo.OperationTimeout,
			}, log)
			if err != nil {
				return fmt.Errorf("mongodb: %w", err)
			}
			defer adapter.Close()

			if err := adapter.HealthCheck(cmd.Context()); err != nil {
				return fmt.Errorf("mongodb: %w", err)
			}
			log.Info("all dependencies healthy")
			return nil
		},
	})

	return rootCmd
}

// RunGateway builds the full service from configuration and serves until the
// context is cancelled: MongoDB adapter, mapper service, router with the
// standard middleware stack, CRUD routes per configured collection, plus
// health and metrics endpoints.
func RunGateway(ctx context.Context, cfg config.Config, log logger.Logger, customize func(config.RouteConfig, mapper.Options) mapper.Options) error {
	adapter, err := mongodb.NewAdapter(mongodb.Config{
		URL:              cfg.Mongo.URL,
		Database:         cfg.Mongo.Database,
		ConnectTimeout:   cfg.Mongo.ConnectTimeout,
		OperationTimeout: cfg.Mongo.OperationTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		if closeErr := adapter.Close(); closeErr != nil {
			log.Error("failed to close mongodb adapter", "error", closeErr)
		}
	}()

	docs, err := mapper.NewMongoStore(adapter)
	if err != nil {
		return fmt.Errorf("create document store: %w", err)
	}

	svc := mapper.New(mapper.InstrumentStore(docs), mapper.WithLogger(log))

	r, err := factory.NewRouter(cfg.RouterType)
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}

	// The middleware stack must be installed before any route is
	// registered; NewAPIServer does that, so it runs first.
	srv := server.NewAPIServer(cfg.HTTP, r, log)

	if err := MountRoutes(r, svc, cfg.Routes, customize); err != nil {
		return err
	}

	healthReg := health.NewRegistry()
	healthReg.Register(health.NewAdapterChecker("mongodb", adapter, cfg.Mongo.OperationTimeout))
	r.GET("/healthz", health.Handler(healthReg))

	metricsReg := metrics.NewRegistry()
	r.GET("/metrics", wrapHTTPHandler(metricsReg.Handler()))

	log.Info("gateway configured",
		"router_type", cfg.RouterType,
		"routes", len(cfg.Routes),
		"database", cfg.Mongo.Database,
	)

	return srv.Start(ctx)
}

// MountRoutes registers the CRUD handler set for every configured route.
func MountRoutes(r router.Router, svc *mapper.Service, routes []config.RouteConfig, customize func(config.RouteConfig, mapper.Options) mapper.Options) error {
	for _, route := range routes {
		opts := mapper.Options{
			Collection:          route.Collection,
			RequiredQueryFields: route.RequiredQueryFields,
			OptionalQueryFields: route.OptionalQueryFields,
			UseEnvelope:         route.Envelope,
		}
		if customize != nil {
			opts = customize(route, opts)
		}
		if err := svc.Auto(opts).Mount(r, route.Path); err != nil {
			return fmt.Errorf("mount %s: %w", route.Path, err)
		}
	}
	return nil
}

// wrapHTTPHandler adapts a plain http.Handler to the route handler type.
func wrapHTTPHandler(h http.Handler) router.HandlerFunc {
	return func(c router.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
