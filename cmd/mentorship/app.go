package main

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/config"
	"github.com/alem-hub/mentorship-engine/internal/application/command"
	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/application/query"
	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/social"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/notify"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/persistence/postgres"
	redisstore "github.com/alem-hub/mentorship-engine/internal/infrastructure/persistence/redis"
	opshttp "github.com/alem-hub/mentorship-engine/internal/interface/http"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// interestStore reads and writes interest sets.
type interestStore interface {
	mentorship.InterestSetProvider
	mentorship.InterestWriter
}

// app wires the engine to a storage backend and exposes the handlers.
type app struct {
	engine *matching.Engine

	upsertProfile *command.UpsertProfileHandler
	connectUsers  *command.ConnectUsersHandler
	requestMentor *command.RequestMentorHandler
	endMentorship *command.EndMentorshipHandler
	waitlist      *command.WaitlistHandler

	queuePosition *query.GetQueuePositionHandler
	mentors       *query.ListEligibleMentorsHandler
	eligibility   *query.CheckEligibilityHandler
	mine          *query.GetMyMentorshipsHandler
	suggestions   *query.SuggestConnectionsHandler
	stats         *query.GetStatsHandler

	health  *opshttp.HealthChecker
	conn    *postgres.Connection
	closers []func()
}

type backend struct {
	store       mentorship.Store
	profiles    mentorship.ProfileProvider
	profileW    mentorship.ProfileWriter
	interests   interestStore
	connections social.ConnectionReader
	connectionW social.ConnectionWriter
	notifier    mentorship.NotificationSink
	ids         mentorship.IDGenerator
}

func newApp(cfg *config.Config, log *logger.Logger, b backend) (*app, error) {
	engine, err := matching.NewEngine(matching.Dependencies{
		Store:       b.store,
		Profiles:    b.profiles,
		Interests:   b.interests,
		Connections: b.connections,
		Notifier:    b.notifier,
		IDs:         b.ids,
		Policy:      cfg.MentorshipPolicy(),
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	return &app{
		engine: engine,

		upsertProfile: command.NewUpsertProfileHandler(b.profileW, b.interests, log),
		connectUsers:  command.NewConnectUsersHandler(b.connectionW),
		requestMentor: command.NewRequestMentorHandler(engine.Waitlist, log),
		endMentorship: command.NewEndMentorshipHandler(engine.Registry),
		waitlist:      command.NewWaitlistHandler(engine.Waitlist, log),

		queuePosition: query.NewGetQueuePositionHandler(engine.Waitlist),
		mentors:       query.NewListEligibleMentorsHandler(engine.Directory),
		eligibility:   query.NewCheckEligibilityHandler(engine.Eligibility),
		mine:          query.NewGetMyMentorshipsHandler(engine.Directory),
		suggestions:   query.NewSuggestConnectionsHandler(engine.Suggestions),
		stats:         query.NewGetStatsHandler(engine.Directory),

		health: opshttp.NewHealthChecker(cfg.App.Name),
	}, nil
}

// newMemoryApp runs the engine on an in-process store. State lives only as
// long as the process, which suits local worker runs and tests.
func newMemoryApp(cfg *config.Config, log *logger.Logger) (*app, error) {
	store := memory.NewStore()
	return newApp(cfg, log, backend{
		store:       store,
		profiles:    store,
		profileW:    store,
		interests:   store,
		connections: store,
		connectionW: store,
		notifier:    notify.NewLogSink(log),
		ids:         &memory.SequentialIDs{},
	})
}

func newPostgresApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url is required for the postgres store")
	}

	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Database.URL
	pgCfg.MaxConns = cfg.Database.MaxConns
	pgCfg.MinConns = cfg.Database.MinConns
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	conn, err := postgres.NewConnection(ctx, pgCfg)
	if err != nil {
		return nil, err
	}
	closers := []func(){conn.Close}

	if cfg.Database.AutoMigrate {
		ran, err := postgres.NewMigrator(conn).Migrate(ctx)
		if err != nil {
			conn.Close()
			return nil, err
		}
		log.Info("database schema is up to date", logger.Int("applied", ran))
	}

	profiles := postgres.NewProfileRepository(conn)
	friendships := postgres.NewFriendshipRepository(conn)

	var (
		interests interestStore = profiles
		cache     *redisstore.Cache
	)
	if cfg.Redis.Enabled {
		rCfg := redisstore.DefaultConfig()
		rCfg.Host = cfg.Redis.Host
		rCfg.Port = cfg.Redis.Port
		rCfg.Password = cfg.Redis.Password
		rCfg.DB = cfg.Redis.DB
		rCfg.PoolSize = cfg.Redis.PoolSize

		cache, err = redisstore.NewCache(ctx, rCfg)
		if err != nil {
			log.Warn("redis unavailable, interest cache disabled", logger.Err(err))
		} else {
			closers = append(closers, func() { _ = cache.Close() })
			interests = redisstore.NewInterestCache(profiles, cache, redisstore.InterestCacheOptions{
				TTL:    cfg.Redis.InterestTTL,
				Logger: log,
			})
		}
	}

	a, err := newApp(cfg, log, backend{
		store:       postgres.NewStore(conn, log),
		profiles:    profiles,
		profileW:    profiles,
		interests:   interests,
		connections: friendships,
		connectionW: friendships,
		notifier:    notify.NewFeedSink(postgres.NewNotificationRepository(conn), log),
		ids:         postgres.UUIDGenerator{},
	})
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}

	a.conn = conn
	a.closers = closers
	a.health.AddCheck("postgres", opshttp.PingCheck(conn))
	if cache != nil {
		a.health.AddCheck("redis", opshttp.PingCheck(cache))
	}
	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
