// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/config"
	"github.com/canonical/team-planner/internal/db"
	"github.com/canonical/team-planner/internal/idp"
	"github.com/canonical/team-planner/internal/logging"
	"github.com/canonical/team-planner/internal/monitoring"
	"github.com/canonical/team-planner/internal/monitoring/prometheus"
	"github.com/canonical/team-planner/internal/storage"
	"github.com/canonical/team-planner/internal/tracing"
	"github.com/canonical/team-planner/pkg/authentication"
	"github.com/canonical/team-planner/pkg/changefeed"
	"github.com/canonical/team-planner/pkg/colors"
	"github.com/canonical/team-planner/pkg/events"
	"github.com/canonical/team-planner/pkg/metrics"
	"github.com/canonical/team-planner/pkg/organizations"
	"github.com/canonical/team-planner/pkg/profiles"
	"github.com/canonical/team-planner/pkg/rolesync"
	"github.com/canonical/team-planner/pkg/status"
	"github.com/canonical/team-planner/pkg/tasks"
	"github.com/canonical/team-planner/pkg/web"
	"github.com/canonical/team-planner/pkg/webhooks"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// backend holds the services shared by the server and the maintenance commands.
type backend struct {
	dbClient *db.DBClient
	storage  *storage.Storage
	redis    redis.UniversalClient
	feed     changefeed.FeedInterface

	evaluator     *authorization.Evaluator
	tasks         *tasks.Service
	events        *events.Service
	organizations *organizations.Service
	colors        *colors.Service
	profiles      *profiles.Service
	rolesync      *rolesync.Service
}

func (b *backend) Close() {
	b.rolesync.Wait()

	if b.redis != nil {
		_ = b.redis.Close()
	}

	b.dbClient.Close()
}

func loadSpecs() (*config.EnvSpec, error) {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		return nil, fmt.Errorf("issues with environment sourcing: %s", err)
	}

	return specs, nil
}

func newBackend(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*backend, error) {
	b := new(backend)

	dbConfig := db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}

	dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %v", err)
	}

	b.dbClient = dbClient
	b.storage = storage.NewStorage(dbClient, tracer, monitor, logger)

	if specs.RedisAddr != "" {
		b.redis = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{specs.RedisAddr},
			Password: specs.RedisPassword,
			DB:       specs.RedisDB,
		})
		b.feed = changefeed.NewRedisFeed(b.redis, tracer, monitor, logger)
		logger.Infof("Change feed is published to redis at %s", specs.RedisAddr)
	} else {
		b.feed = changefeed.NewNoopFeed()
		logger.Info("Using noop change feed")
	}

	idpClient := idp.NewClient(
		idp.Config{
			BaseURL:      specs.IdPAPIURL,
			SecretKey:    specs.IdPSecretKey,
			ClientID:     specs.IdPClientID,
			ClientSecret: specs.IdPClientSecret,
			TokenURL:     specs.IdPTokenURL,
		},
		tracer,
		monitor,
		logger,
	)

	b.evaluator = authorization.NewEvaluator(b.storage, tracer, monitor, logger)

	b.tasks = tasks.NewService(b.storage, b.evaluator, b.feed, tracer, monitor, logger)
	b.events = events.NewService(b.storage, b.evaluator, b.feed, tracer, monitor, logger)
	b.organizations = organizations.NewService(b.storage, b.evaluator, b.feed, tracer, monitor, logger)
	b.colors = colors.NewService(b.storage, b.evaluator, b.feed, tracer, monitor, logger)
	b.profiles = profiles.NewService(b.storage, b.evaluator, b.feed, tracer, monitor, logger)
	b.rolesync = rolesync.NewService(
		b.storage,
		idpClient,
		b.profiles,
		b.evaluator,
		b.feed,
		specs.ReconcileConcurrency,
		specs.ReconcileTimeout,
		tracer,
		monitor,
		logger,
	)

	return b, nil
}

func newAuthenticator(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (authentication.TokenVerifierInterface, error) {
	if !specs.AuthenticationEnabled {
		logger.Warn("Authentication is disabled, bearer tokens are taken as user ids")
		return authentication.NewNoopVerifier(), nil
	}

	return authentication.NewJWTAuthenticator(
		context.Background(),
		specs.OIDCIssuer,
		specs.OIDCJWKSURL,
		specs.JWTSigningSecret,
		tracer,
		monitor,
		logger,
	)
}

func serve() error {
	specs, err := loadSpecs()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs.Redacted())
	defer logger.Sync()

	monitor := prometheus.NewMonitor("team-planner", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	b, err := newBackend(specs, tracer, monitor, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	verifier, err := newAuthenticator(specs, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to set up authentication: %v", err)
	}

	dependencies := map[string]status.PingerInterface{"database": b.dbClient}
	if pinger, ok := b.feed.(status.PingerInterface); ok && b.redis != nil {
		dependencies["redis"] = pinger
	}

	public := []web.APIInterface{
		status.NewAPI(dependencies, tracer, monitor, logger),
		metrics.NewAPI(logger),
	}

	if specs.WebhookSigningSecret != "" {
		webhookVerifier, err := webhooks.NewVerifier(specs.WebhookSigningSecret, webhooks.DefaultTolerance)
		if err != nil {
			return fmt.Errorf("invalid webhook signing secret: %v", err)
		}

		public = append(
			public,
			webhooks.NewAPI(webhooks.NewService(b.rolesync, tracer, monitor, logger), webhookVerifier, tracer, monitor, logger),
		)
		logger.Info("Identity provider webhooks are enabled")
	} else {
		logger.Warn("Webhook signing secret is not set, identity provider webhooks are disabled")
	}

	router := web.NewRouter(
		web.RouterConfig{
			AllowedOrigins: specs.CORSAllowedOrigins,
			Public:         public,
			Protected: []web.APIInterface{
				tasks.NewAPI(b.tasks, tracer, monitor, logger),
				events.NewAPI(b.events, tracer, monitor, logger),
				organizations.NewAPI(b.organizations, tracer, monitor, logger),
				colors.NewAPI(b.colors, tracer, monitor, logger),
				profiles.NewAPI(b.profiles, tracer, monitor, logger),
				rolesync.NewAPI(b.rolesync, tracer, monitor, logger),
				changefeed.NewAPI(b.feed, b.evaluator, tracer, monitor, logger),
			},
			Authenticate: authentication.NewMiddleware(verifier, tracer, monitor, logger).Authenticate(),
		},
		b.dbClient,
		tracer,
		monitor,
		logger,
	)

	var scheduler *rolesync.Scheduler
	if specs.ReconcileSchedule != "" {
		scheduler, err = rolesync.NewScheduler(specs.ReconcileSchedule, b.rolesync, tracer, monitor, logger)
		if err != nil {
			return err
		}

		scheduler.Start()
		logger.Infof("Membership reconciliation scheduled %s", specs.ReconcileSchedule)
	}

	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()

	if scheduler != nil {
		scheduler.Stop(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
