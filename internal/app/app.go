package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/external/sportsdata"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/config"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/contest"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/entry"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/fixture"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/payout"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/winner"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/infrastructure/jobqueue"
	cacherepo "github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/infrastructure/repository/cache"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/infrastructure/repository/memory"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/infrastructure/repository/postgres"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/interfaces/httpapi"
	basecache "github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/cache"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/logging"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/resilience"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

type repositories struct {
	entries entry.Repository
	pots    contest.PotRepository
	winners winner.Repository
	payouts payout.Repository
}

// NewHTTPServer assembles the full service: storage, the fixture feed, the
// settlement webhook, and the HTTP surface. The returned cleanup releases
// whatever the chosen storage driver holds open.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	catalog := buildFixtureCatalog(cfg, logger)

	var publisher usecase.SettlementPublisher
	if cfg.SettlementWebhookEnabled {
		publisher = jobqueue.NewWebhookPublisher(jobqueue.WebhookPublisherConfig{
			WebhookURL:    cfg.SettlementWebhookURL,
			InternalToken: cfg.InternalJobToken,
			Timeout:       cfg.SettlementWebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SettlementWebhookCircuitEnabled,
				FailureThreshold: cfg.SettlementWebhookCircuitFailureCount,
				OpenTimeout:      cfg.SettlementWebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SettlementWebhookCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	settlementSvc := usecase.NewSettlementService(
		catalog,
		repos.entries,
		repos.pots,
		repos.winners,
		tierConfig(cfg),
		publisher,
		logger,
	)
	payoutSvc := usecase.NewPayoutService(repos.payouts, logger)
	sweepSvc := usecase.NewSweepService(settlementSvc)

	handler := httpapi.NewHandler(settlementSvc, payoutSvc, sweepSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup(context.Background())
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDatabase(cfg)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("open database: %w", err)
		}
		logger.Info("storage ready", "driver", config.StoragePostgres, "db", dbNameFromURL(cfg.DBURL))
		return repositories{
			entries: postgres.NewEntryRepository(db),
			pots:    postgres.NewPotRepository(db),
			winners: postgres.NewWinnerRepository(db),
			payouts: postgres.NewPayoutRepository(db),
		}, func(context.Context) error { return db.Close() }, nil
	default:
		logger.Info("storage ready", "driver", config.StorageMemory)
		return repositories{
			entries: memory.NewEntryRepository(),
			pots:    memory.NewPotRepository(),
			winners: memory.NewWinnerRepository(),
			payouts: memory.NewPayoutRepository(),
		}, noop, nil
	}
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}

func buildFixtureCatalog(cfg config.Config, logger *logging.Logger) fixture.Catalog {
	if !cfg.SportsDataEnabled {
		logger.Info("fixture catalog ready", "source", "seeded")
		return memory.NewFixtureCatalog(memory.SeedFixtures())
	}

	client := sportsdata.NewClient(sportsdata.ClientConfig{
		BaseURL:       cfg.SportsDataBaseURL,
		Token:         cfg.SportsDataToken,
		Timeout:       cfg.SportsDataTimeout,
		MaxRetries:    cfg.SportsDataMaxRetries,
		EventFetchers: cfg.SportsDataEventFetchers,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportsDataCircuitEnabled,
			FailureThreshold: cfg.SportsDataCircuitFailureCount,
			OpenTimeout:      cfg.SportsDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportsDataCircuitHalfOpenMaxReq,
		},
	})
	if !cfg.CacheEnabled {
		logger.Info("fixture catalog ready", "source", "sportsdata", "cache", false)
		return client
	}

	logger.Info("fixture catalog ready", "source", "sportsdata", "cache", true, "ttl", cfg.CacheTTL)
	return cacherepo.NewFixtureCatalog(client, basecache.NewStore(cfg.CacheTTL))
}

// tierConfig overrides the default tier lists field by field; a league can
// replace just the priority orderings and keep the stock tier sets.
func tierConfig(cfg config.Config) fixture.TierConfig {
	tiers := fixture.DefaultTierConfig()
	if len(cfg.Tier1Teams) > 0 {
		tiers.Tier1 = cfg.Tier1Teams
	}
	if len(cfg.Tier2Teams) > 0 {
		tiers.Tier2 = cfg.Tier2Teams
	}
	if len(cfg.HomePriority) > 0 {
		tiers.HomePriority = cfg.HomePriority
	}
	if len(cfg.AwayPriority) > 0 {
		tiers.AwayPriority = cfg.AwayPriority
	}
	return tiers
}
