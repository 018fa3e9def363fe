package commands

import (
	"context"
	"fmt"

	"github.com/wonny/dahai/internal/brain"
	"github.com/wonny/dahai/internal/confluence"
	"github.com/wonny/dahai/internal/ledger"
	"github.com/wonny/dahai/internal/metrics"
	"github.com/wonny/dahai/internal/s0_data"
	"github.com/wonny/dahai/internal/s1_universe"
	"github.com/wonny/dahai/internal/s2_signals"
	"github.com/wonny/dahai/internal/strategyconfig"
	"github.com/wonny/dahai/pkg/config"
	"github.com/wonny/dahai/pkg/database"
	"github.com/wonny/dahai/pkg/logger"
	"github.com/wonny/dahai/pkg/redis"
)

// cachePrefix namespaces every redis key of this service
const cachePrefix = "dahai"

// app holds the wired components shared by the commands
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategyconfig.Config
	registry *s2_signals.Registry
	db       *database.DB // nil unless the ledger lives in postgres
	redis    *redis.Client
	cache    *redis.Cache
	ledger   *ledger.Ledger
	recorder *metrics.Recorder
}

// newApp loads config, strategies and the infrastructure the commands need
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if strategyFile != "" {
		cfg.Scan.StrategyFile = strategyFile
	}

	log := logger.New(cfg)

	strategy, _, err := strategyconfig.Load(cfg.Scan.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategies: %w", err)
	}
	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash strategies: %w", err)
	}
	registry, err := s2_signals.NewRegistry(strategy)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"strategy_set":  strategy.Meta.StrategySet,
		"strategy_hash": hash[:12],
		"strategies":    registry.Len(),
		"ledger":        cfg.Ledger.Backend,
	}).Info("Configuration loaded")

	a := &app{
		cfg:      cfg,
		log:      log,
		strategy: strategy,
		registry: registry,
	}

	rc, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc
	a.cache = redis.NewCache(rc, cachePrefix)

	if cfg.MetricsEnabled {
		a.recorder = metrics.New()
	}

	store, err := a.ledgerStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.ledger = ledger.New(store, cfg.Ledger.MinResonance, log.Component("ledger"))

	return a, nil
}

func (a *app) ledgerStore(ctx context.Context) (ledger.Store, error) {
	if a.cfg.Ledger.Backend != config.LedgerBackendPostgres {
		return ledger.NewFileStore(a.cfg.Ledger.Dir), nil
	}

	db, err := database.New(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.db = db

	store := ledger.NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure ledger schema: %w", err)
	}
	a.log.Info("Ledger stored in postgres")
	return store, nil
}

// orchestrator wires S0 → S4 for one process
func (a *app) orchestrator() (*brain.Orchestrator, error) {
	schema, err := s0_data.LoadSchema(a.cfg.Scan.ColumnMapFile)
	if err != nil {
		return nil, fmt.Errorf("load column map: %w", err)
	}
	loader := s0_data.NewLoader(a.cfg.Scan.DataDir, schema)

	u := a.strategy.Universe
	builder, err := s1_universe.NewBuilder(s1_universe.Config{
		AllowPrefixes:      u.AllowPrefixes,
		DenyPrefixes:       u.DenyPrefixes,
		ExcludeNamePattern: u.ExcludeNamePattern,
		PriceMin:           u.PriceMin,
		PriceMax:           u.PriceMax,
	})
	if err != nil {
		return nil, fmt.Errorf("build universe filter: %w", err)
	}

	deps := brain.Deps{
		Codes:      loader,
		NamesFile:  a.cfg.Scan.NamesFile,
		Universe:   builder,
		Scanner:    s2_signals.NewScanner(loader, builder, a.registry, a.cfg.Scan.Workers, a.log.Component("scanner")),
		Aggregator: confluence.NewAggregator(a.registry, a.log.Component("confluence")),
		Ledger:     a.ledger,
		OutputDir:  a.cfg.Scan.OutputDir,
		Metrics:    a.recorder,
	}
	if a.redis.Enabled() {
		deps.Publisher = brain.NewCachePublisher(a.cache)
	}

	return brain.NewOrchestrator(deps, a.log.Component("brain")), nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
