package container

import (
	"context"
	"fmt"

	"statadvisor/adapters/dataset"
	"statadvisor/adapters/memory"
	"statadvisor/adapters/numeric"
	"statadvisor/adapters/postgres"
	"statadvisor/app"
	domain "statadvisor/domain/profiling"
	"statadvisor/internal"
	checks "statadvisor/internal/assumption"
	"statadvisor/internal/catalog"
	"statadvisor/internal/config"
	"statadvisor/internal/migration"
	"statadvisor/internal/profiling"
	"statadvisor/internal/recommender"
	"statadvisor/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	RecommendationRepo ports.RecommendationRepository

	// Engines
	Catalog     *catalog.Catalog
	Profiler    *profiling.Profiler
	Backend     ports.NumericBackend
	Checker     *checks.Adapter
	Recommender *recommender.Recommender
	Reader      *dataset.Reader

	// Services
	Advisor *app.AdvisorService
}

// New creates a new dependency injection container with an in-memory
// repository. Call InitWithDatabase to switch to PostgreSQL.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	c := &Container{
		Config:             cfg,
		Logger:             logger,
		RecommendationRepo: memory.NewRecommendationRepository(),
	}

	if err := c.initEngines(); err != nil {
		return nil, err
	}
	if err := c.initAdvisor(); err != nil {
		return nil, err
	}
	return c, nil
}

// initEngines loads the catalog and builds the stateless engines
func (c *Container) initEngines() error {
	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("failed to load method catalog: %w", err)
	}
	c.Catalog = cat

	c.Recommender, err = recommender.New(cat, c.Logger)
	if err != nil {
		return fmt.Errorf("method catalog does not cover the decision table: %w", err)
	}

	profilingConfig := domain.DefaultProfilingConfig()
	profilingConfig.SampleSize = c.Config.Profiling.SampleSize
	c.Profiler = profiling.NewProfiler(profilingConfig)
	c.Reader = dataset.NewReader("", c.Logger)

	if c.Config.Backend.Enabled() {
		client, err := numeric.NewClient(numeric.Config{
			BaseURL: c.Config.Backend.URL,
			Timeout: c.Config.Backend.Timeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create numeric backend client: %w", err)
		}
		c.Backend = client
		c.Checker = checks.NewAdapter(client, c.Config.Backend.Alpha, c.Logger)
	} else {
		c.Logger.Warn("NUMERIC_BACKEND_URL not set; recommendations will skip assumption tests")
	}

	c.Logger.Info("catalog %s loaded with %d methods", cat.Version(), cat.Len())
	return nil
}

// initAdvisor (re)builds the advisor service around the current repository
func (c *Container) initAdvisor() error {
	advisor, err := app.NewAdvisorService(c.Profiler, c.Checker, c.Recommender, c.RecommendationRepo, c.Config.Cache.AssumptionEntries, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create advisor service: %w", err)
	}
	c.Advisor = advisor
	return nil
}

// InitWithDatabase migrates the schema and switches persistence to PostgreSQL
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		return fmt.Errorf("database migration %s failed: %w", runner.Version(), err)
	}

	c.DB = db
	c.RecommendationRepo = postgres.NewRecommendationRepository(db)
	if err := c.initAdvisor(); err != nil {
		return err
	}

	c.Logger.Info("container initialized with database connection (schema %s)", runner.Version())
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
