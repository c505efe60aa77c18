package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kozaktomas/mirage/internal/catalog"
	"github.com/kozaktomas/mirage/internal/config"
	"github.com/kozaktomas/mirage/internal/filenamer"
	"github.com/kozaktomas/mirage/internal/logging"
)

// app holds what the commands share. It is built once per invocation.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	catalogs   *catalog.Registry
	namers     *filenamer.Registry
	classifier *filenamer.Classifier
}

func newApp() (*app, error) {
	cfg := config.Load()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	catalogs, err := loadCatalogs(cfg.Catalog, logger)
	if err != nil {
		return nil, err
	}

	namers := filenamer.NewRegistry(catalogs)
	if _, err := namers.Get(""); err != nil {
		return nil, fmt.Errorf("default version %s: %w", catalogs.DefaultVersion(), err)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		catalogs:   catalogs,
		namers:     namers,
		classifier: filenamer.NewClassifier(cfg.Files),
	}, nil
}

// loadCatalogs registers the catalog file, when configured, under the default
// version, and the embedded catalog under its own version unless the file
// already took it.
func loadCatalogs(cfg config.CatalogConfig, logger *zap.Logger) (*catalog.Registry, error) {
	registry := catalog.NewRegistry(cfg.DefaultVersion)
	opt := catalog.WithLogger(logger)

	if cfg.File != "" {
		c, err := catalog.LoadFile(cfg.File, registry.DefaultVersion(), opt)
		if err != nil {
			return nil, fmt.Errorf("loading catalog file: %w", err)
		}
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	if _, err := registry.Get(catalog.DefaultVersion); err != nil {
		c, err := catalog.LoadEmbedded(opt)
		if err != nil {
			return nil, fmt.Errorf("loading embedded catalog: %w", err)
		}
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	if _, err := registry.Get(""); err != nil {
		return nil, err
	}
	return registry, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
