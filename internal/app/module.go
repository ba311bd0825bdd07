// Package app wires the client runtime: config, logging, store, session and
// the feature services, composed with fx so both binaries share one graph.
package app

import (
	"context"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/auth"
	"github.com/medogram/medoterm/internal/bus"
	"github.com/medogram/medoterm/internal/chat"
	"github.com/medogram/medoterm/internal/config"
	"github.com/medogram/medoterm/internal/feed"
	"github.com/medogram/medoterm/internal/lock"
	"github.com/medogram/medoterm/internal/logging"
	"github.com/medogram/medoterm/internal/payment"
	"github.com/medogram/medoterm/internal/profile"
	"github.com/medogram/medoterm/internal/session"
	"github.com/medogram/medoterm/internal/store"
	"github.com/medogram/medoterm/internal/visit"
	"github.com/medogram/medoterm/internal/wallet"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
}

// Module returns the fx module for the client, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("client",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideSession,
			provideAPIClient,
			provideAuthFlow,
			provideChatSession,
			provideFeedList,
			provideCacher,
			provideWizard,
			providePayment,
			provideWallet,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	cfg, err := config.Load(profile.ConfigPath())
	if err != nil {
		return config.Default()
	}
	return cfg
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.DBPath(p.ProfileName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideSession(db *store.DB, b *bus.Bus) (*session.Store, error) {
	return session.New(db, b)
}

func provideAPIClient(cfg *config.Config, s *session.Store, logger *zap.Logger) *api.Client {
	return api.New(cfg.APIBaseURL, s, logger)
}

func provideAuthFlow(c *api.Client, s *session.Store, b *bus.Bus, logger *zap.Logger) *auth.Flow {
	return auth.NewFlow(c, s, b, logger)
}

func provideChatSession(c *api.Client, cfg *config.Config, db *store.DB, b *bus.Bus, logger *zap.Logger) *chat.Session {
	return chat.NewSession(c, cfg.Chat, db, b, logger)
}

func provideFeedList(c *api.Client, s *session.Store, b *bus.Bus, logger *zap.Logger) *feed.List {
	return feed.NewList(c, s, b, logger)
}

func provideCacher(db *store.DB, b *bus.Bus, logger *zap.Logger) *feed.Cacher {
	return feed.NewCacher(db, b, logger)
}

func provideWizard(c *api.Client, db *store.DB, b *bus.Bus, logger *zap.Logger) *visit.Wizard {
	return visit.NewWizard(c, db, b, logger)
}

func providePayment(c *api.Client, b *bus.Bus, logger *zap.Logger) *payment.Initiator {
	return payment.NewInitiator(c, b, logger)
}

func provideWallet(c *api.Client, logger *zap.Logger) *wallet.Service {
	return wallet.NewService(c, logger)
}

func registerLifecycle(lc fx.Lifecycle, cacher *feed.Cacher, db *store.DB, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			cacher.Start(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			cacher.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
