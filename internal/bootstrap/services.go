package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/giftwell/lookalike-api/config"
	"github.com/giftwell/lookalike-api/internal/adapters/vendor"
	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/data"
	"github.com/giftwell/lookalike-api/internal/domain/model"
	"github.com/giftwell/lookalike-api/internal/observability/statsd"
	"github.com/giftwell/lookalike-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs          *service.JobService
	Lists         *service.ListService
	Campaigns     *service.CampaignService
	Enrichment    *service.EnrichmentService
	Vendors       *vendor.Registry
	JobResults    core.JobResultRepository
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB            *sql.DB
	Redis         redis.UniversalClient
	JobRepo       *data.JobRepo
	ListRepo      *data.ListRepo
	RecipientRepo *data.RecipientRepo
	CampaignRepo  *data.CampaignRepo
	CacheRepo     *data.RedisCacheRepo
	JobResultRepo *data.JobResultRepo
}

// buildObservability configures the metrics adapter.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "lookalike",
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient, logger *slog.Logger) *serviceRepositories {
	repoCfg := data.RepoConfig{Logger: logger}
	repos := &serviceRepositories{
		DB:            db,
		Redis:         redisClient,
		JobRepo:       data.NewJobRepo(db, repoCfg),
		ListRepo:      data.NewListRepo(db),
		RecipientRepo: data.NewRecipientRepo(db),
		CampaignRepo:  data.NewCampaignRepo(db),
		JobResultRepo: data.NewJobResultRepo(db),
	}
	if redisClient != nil {
		repos.CacheRepo = data.NewRedisCacheRepo(redisClient)
	}
	return repos
}

// BuildVendorRegistry wires up the configured similarity vendors, wrapping
// each in a read-through cache when one is available. Vendors without an
// API key stay unregistered so misconfigured lookups fail loudly.
func BuildVendorRegistry(
	cfg config.VendorsConfig,
	cacheCfg config.CacheConfig,
	cache core.CacheRepository,
	logger *slog.Logger,
) (*vendor.Registry, error) {
	log := logger
	if log == nil {
		log = slog.Default()
	}

	finders := make(map[model.VendorKind]vendor.Finder, 2)

	if cfg.Ocean.Enabled() {
		client, err := vendor.NewOceanClient(vendor.OceanConfig{
			BaseURL:    cfg.Ocean.BaseURL,
			APIKey:     cfg.Ocean.APIKey,
			Timeout:    cfg.Ocean.Timeout,
			RetryLimit: cfg.Ocean.RetryLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("configure ocean vendor: %w", err)
		}
		finders[model.VendorOcean] = vendor.NewCachingFinder(vendor.CachingFinderConfig{
			Kind:   model.VendorOcean,
			Inner:  client,
			Cache:  cache,
			TTL:    cacheCfg.VendorTTL,
			Logger: log,
		})
	}

	if cfg.LinkedIn.Enabled() {
		client, err := vendor.NewLinkedInClient(vendor.LinkedInConfig{
			BaseURL:    cfg.LinkedIn.BaseURL,
			APIKey:     cfg.LinkedIn.APIKey,
			Expression: cfg.LinkedIn.Expression,
			Timeout:    cfg.LinkedIn.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("configure linkedin vendor: %w", err)
		}
		finders[model.VendorLinkedIn] = vendor.NewCachingFinder(vendor.CachingFinderConfig{
			Kind:   model.VendorLinkedIn,
			Inner:  client,
			Cache:  cache,
			TTL:    cacheCfg.VendorTTL,
			Logger: log,
		})
	}

	if len(finders) == 0 {
		log.Warn("no similarity vendors configured; lookalike jobs will fail until one is enabled")
	}

	return vendor.NewRegistry(finders), nil
}

func newJobService(repos *serviceRepositories, lease time.Duration, logger *slog.Logger) *service.JobService {
	return service.MustNewJobService(service.JobServiceOptions{
		Repo:         repos.JobRepo,
		DefaultLease: lease,
		Logger:       logger,
	})
}

func newEnrichmentService(
	repos *serviceRepositories,
	jobs *service.JobService,
	vendors *vendor.Registry,
	observability ObservabilityContainer,
	logger *slog.Logger,
) *service.EnrichmentService {
	opts := service.EnrichmentServiceOptions{
		Jobs:       jobs,
		Lists:      repos.ListRepo,
		Recipients: repos.RecipientRepo,
		Campaigns:  repos.CampaignRepo,
		Results:    repos.JobResultRepo,
		Vendors:    vendors,
		Logger:     logger,
	}
	if observability.MetricsSink != nil {
		opts.Metrics = observability.MetricsSink
	}
	return service.MustNewEnrichmentService(opts)
}

// DomainServicesOptions groups inputs for domain service wiring.
type DomainServicesOptions struct {
	Repos         *serviceRepositories
	Observability ObservabilityContainer
	Config        *config.AppConfig
	Logger        *slog.Logger
}

// buildDomainServices wires business services using repositories and observability adapters.
func buildDomainServices(opts *DomainServicesOptions) (ServiceContainer, error) {
	if opts == nil {
		return ServiceContainer{}, errors.New("domain services options are required")
	}
	svcLogger := opts.Logger
	if svcLogger == nil {
		svcLogger = slog.Default()
	}

	appCfg := opts.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	var cache core.CacheRepository
	if opts.Repos.CacheRepo != nil {
		cache = opts.Repos.CacheRepo
	}
	vendors, err := BuildVendorRegistry(appCfg.Vendors, appCfg.Cache, cache, svcLogger)
	if err != nil {
		return ServiceContainer{}, err
	}

	jobService := newJobService(opts.Repos, appCfg.EnrichmentRunner.JobLease, svcLogger)
	listService := service.MustNewListService(service.ListServiceOptions{
		Repo:   opts.Repos.ListRepo,
		Logger: svcLogger,
	})
	campaignService := service.MustNewCampaignService(service.CampaignServiceOptions{
		Repo:   opts.Repos.CampaignRepo,
		Logger: svcLogger,
	})
	enrichmentService := newEnrichmentService(opts.Repos, jobService, vendors, opts.Observability, svcLogger)

	return ServiceContainer{
		Jobs:          jobService,
		Lists:         listService,
		Campaigns:     campaignService,
		Enrichment:    enrichmentService,
		Vendors:       vendors,
		JobResults:    opts.Repos.JobResultRepo,
		Observability: opts.Observability,
	}, nil
}

// NewServices builds the full service container from shared infrastructure.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service deps are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var obsCfg config.ObservabilityConfig
	if deps.Config != nil {
		obsCfg = deps.Config.Observability
	}
	observability := buildObservability(logger, obsCfg)
	repos := buildRepositories(deps.DB, deps.RedisClient, logger)
	return buildDomainServices(&DomainServicesOptions{
		Repos:         repos,
		Observability: observability,
		Config:        deps.Config,
		Logger:        logger,
	})
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				if deps.logger != nil {
					deps.logger.WarnContext(
						ctx,
						"dropping background service error",
						"service",
						descriptor.name,
						"error",
						errMsg,
					)
				} else {
					slog.Default().WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
				}
			}
		}
	}()

	if deps.logger != nil {
		deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	} else {
		slog.Default().InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	}

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newEnrichmentRunnerBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeEnrichmentRunner,
		name: "enrichment runner",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var lease time.Duration
			concurrency := 0
			if deps.cfg.Config != nil {
				lease = deps.cfg.Config.EnrichmentRunner.JobLease
				concurrency = deps.cfg.Config.EnrichmentRunner.Concurrency
			}
			return RunEnrichmentRunner(ctx, EnrichmentRunnerConfig{
				DB:          deps.cfg.DB,
				Logger:      deps.logger,
				Lease:       lease,
				Concurrency: concurrency,
				Vendors:     deps.cfg.Services.Vendors,
				Metrics:     deps.cfg.Services.Observability.MetricsSink,
			})
		},
	}
}

func newReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeReaper,
		name: "reaper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var reaperCfg config.ReaperConfig
			if deps.cfg.Config != nil {
				reaperCfg = deps.cfg.Config.Reaper
			}
			return RunReaper(ctx, ReaperRunConfig{
				DB:      deps.cfg.DB,
				Logger:  deps.logger,
				Config:  reaperCfg,
				Metrics: deps.cfg.Services.Observability.MetricsSink,
			})
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newEnrichmentRunnerBackgroundService(deps),
		newReaperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		jobService:  cfg.Services.Jobs,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	jobService  *service.JobService
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	// Gracefully stop HTTP server if running
	if cfg.httpServer != nil {
		// Create a timeout context for HTTP shutdown
		shutdownCtx, cancel := context.WithTimeout(cfg.ctx, shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context:    shutdownCtx,
			Server:     cfg.httpServer,
			JobService: cfg.jobService,
			Logger:     cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
