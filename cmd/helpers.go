package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/config"
	"github.com/ziadkadry99/api-portal/internal/logging"
	"github.com/ziadkadry99/api-portal/internal/metrics"
	"github.com/ziadkadry99/api-portal/internal/portal"
	"github.com/ziadkadry99/api-portal/internal/registry"
	"github.com/ziadkadry99/api-portal/internal/store"
)

// app bundles what every command needs: config, logger, the persistent
// store and the catalog built on top of it.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	store   *store.Store
	builder *catalog.Builder
	mutator *registry.Mutator
	closeKV func() error
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `apiportal init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openApp loads config and opens the store. Callers must call Close.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(verbose)
	if err != nil {
		return nil, err
	}

	builtin, err := catalog.LoadBuiltin(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	kv, closeKV, err := store.OpenKV(string(cfg.Storage.Backend), cfg.Storage.StoragePath())
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	st := store.New(kv, cfg.Storage.Key, logger.Named("store"), m)
	builder := catalog.NewBuilder(builtin, st, catalog.DefaultScheme, logger.Named("catalog"))

	logger.Debug("store opened",
		zap.String("backend", string(cfg.Storage.Backend)),
		zap.String("path", cfg.Storage.StoragePath()),
		zap.String("key", st.Key()))

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		store:   st,
		builder: builder,
		mutator: registry.NewMutator(st, builder, logger.Named("registry"), m),
		closeKV: closeKV,
	}, nil
}

// site maps the branding config onto the portal.
func (a *app) site() portal.Site {
	return portal.Site{
		Name:           a.cfg.SiteName,
		SupportURL:     a.cfg.SupportURL,
		PrimaryColor:   a.cfg.PrimaryColor,
		SecondaryColor: a.cfg.SecondaryColor,
		Description:    a.cfg.Description,
	}
}

// Close releases the store and flushes the logger.
func (a *app) Close() error {
	err := a.closeKV()
	_ = a.logger.Sync()
	return err
}
