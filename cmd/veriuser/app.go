package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/veriuser/internal/certificate"
	"github.com/and161185/veriuser/internal/config"
	"github.com/and161185/veriuser/internal/lifecycle"
	"github.com/and161185/veriuser/internal/logging"
	"github.com/and161185/veriuser/internal/model"
	"github.com/and161185/veriuser/internal/repository"
	"github.com/and161185/veriuser/internal/service"
	"github.com/and161185/veriuser/internal/transfer"
)

// app holds every collaborator, built once per invocation.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	kv         repository.KV
	closeKV    func() error
	calc       lifecycle.Calculator
	records    *service.RecordServiceImpl
	statuses   *service.StatusTaxonomy
	categories *service.Taxonomy[model.CategoryDefinition]
	transfer   *transfer.Service
	exporter   *certificate.Exporter
}

// loadConfig reads the config and applies flag overrides.
func loadConfig(f globalFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.storage != "" {
		cfg.Storage.Backend = f.storage
	}
	if f.dataDir != "" {
		cfg.Storage.DataDir = f.dataDir
		cfg.Storage.SQLitePath = ""
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = config.DefaultSQLitePath(cfg.Storage.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func openApp(ctx context.Context, f globalFlags) (*app, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Dev)
	if err != nil {
		return nil, err
	}

	kv, closeKV, err := openKV(ctx, cfg.Storage, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	clock := lifecycle.SystemClock
	opts := []service.Option{service.WithClock(clock), service.WithLogger(log)}
	a := &app{
		cfg:        cfg,
		log:        log,
		kv:         kv,
		closeKV:    closeKV,
		calc:       lifecycle.NewCalculator(clock),
		records:    service.NewRecordService(kv, opts...),
		statuses:   service.NewStatusTaxonomy(kv, cfg.Statuses.FallbackColor, opts...),
		categories: service.NewCategoryTaxonomy(kv, opts...),
	}
	a.transfer = transfer.New(a.records, a.statuses, a.categories, clock, log)
	a.exporter = certificate.NewExporter(&certificate.RodRenderer{Bin: cfg.Certificate.ChromeBin}, cfg.Certificate.Timeout, log)

	if err := a.load(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	log.Debug("app opened", zap.String("storage", cfg.Storage.Backend))
	return a, nil
}

func (a *app) load(ctx context.Context) error {
	if err := a.records.Load(ctx); err != nil {
		return err
	}
	if err := a.statuses.Load(ctx); err != nil {
		return err
	}
	return a.categories.Load(ctx)
}

func (a *app) Close() error {
	var err error
	if a.closeKV != nil {
		err = a.closeKV()
	}
	_ = a.log.Sync()
	return err
}

// view builds the certificate view for a record as of now.
func (a *app) view(r model.Record) certificate.View {
	return certificate.NewView(r, a.statuses, a.calc)
}
