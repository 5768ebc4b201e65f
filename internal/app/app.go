package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/common"
	"github.com/ternarybob/sitescoop/internal/export"
	"github.com/ternarybob/sitescoop/internal/handlers"
	"github.com/ternarybob/sitescoop/internal/interfaces"
	"github.com/ternarybob/sitescoop/internal/services/cleaner"
	"github.com/ternarybob/sitescoop/internal/services/extractor"
	"github.com/ternarybob/sitescoop/internal/services/fetcher"
	"github.com/ternarybob/sitescoop/internal/services/kv"
	"github.com/ternarybob/sitescoop/internal/services/llm"
	"github.com/ternarybob/sitescoop/internal/services/scrape"
	"github.com/ternarybob/sitescoop/internal/services/suggest"
	"github.com/ternarybob/sitescoop/internal/services/summary"
	"github.com/ternarybob/sitescoop/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	BadgerDB  *badger.BadgerDB
	KVStorage interfaces.KeyValueStorage
	KVService *kv.Service

	// LLM access (Gemini and Claude behind one factory)
	ProviderFactory *llm.ProviderFactory

	// Pipeline services
	FetchService   *fetcher.Service
	ExtractService *extractor.Service
	SuggestService *suggest.Service
	CleanService   *cleaner.Service
	SummaryService *summary.Service
	ScrapeService  *scrape.Service

	// Export
	PDFRenderer *export.PDFRenderer
	Mailer      *export.Mailer

	// HTTP handlers
	ScrapeHandler  *handlers.ScrapeHandler
	SuggestHandler *handlers.SuggestHandler
	CleanHandler   *handlers.CleanHandler
	ExportHandler  *handlers.ExportHandler
	KVHandler      *handlers.KVHandler
	StatusHandler  *handlers.StatusHandler
	WSHandler      *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Storage. The KV store holds deployment settings (API keys, SMTP
	// credentials); scrape runs themselves are stateless.
	db, err := badger.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.BadgerDB = db
	app.KVStorage = badger.NewKVStorage(db, logger)
	app.KVService = kv.NewService(app.KVStorage, logger)

	// LLM provider factory. API keys resolve from the KV store first, then
	// config.
	app.ProviderFactory = llm.NewProviderFactory(
		&cfg.Gemini,
		&cfg.Claude,
		&cfg.LLM,
		app.KVStorage,
		logger,
	)

	// Pipeline services
	app.FetchService = fetcher.NewService(&cfg.Fetcher, logger)
	app.ExtractService = extractor.NewService(logger)
	app.SuggestService = suggest.NewService(app.ProviderFactory, logger)
	app.CleanService = cleaner.NewService(app.ProviderFactory, logger)
	app.SummaryService = summary.NewService(app.ProviderFactory, logger)
	app.ScrapeService = scrape.NewService(
		app.FetchService,
		app.SuggestService,
		app.ExtractService,
		app.CleanService,
		app.SummaryService,
		logger,
	)

	// Export
	app.PDFRenderer = export.NewPDFRenderer(logger)
	app.Mailer = export.NewMailer(app.KVStorage, logger)

	// HTTP handlers
	app.WSHandler = handlers.NewWebSocketHandler(logger)
	app.ScrapeHandler = handlers.NewScrapeHandler(app.ScrapeService, app.WSHandler, logger)
	app.SuggestHandler = handlers.NewSuggestHandler(app.FetchService, app.SuggestService, logger)
	app.CleanHandler = handlers.NewCleanHandler(app.CleanService, logger)
	app.ExportHandler = handlers.NewExportHandler(&cfg.Export, app.PDFRenderer, app.Mailer, logger)
	app.KVHandler = handlers.NewKVHandler(app.KVService, logger)
	app.StatusHandler = handlers.NewStatusHandler(cfg, logger)

	logger.Info().
		Str("environment", cfg.Environment).
		Str("llm_provider", cfg.LLM.DefaultProvider).
		Msg("Application initialized")

	return app, nil
}

// Close releases application resources in reverse initialization order.
func (a *App) Close() error {
	var firstErr error

	if a.ProviderFactory != nil {
		if err := a.ProviderFactory.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM provider factory")
			firstErr = err
		}
	}

	if a.BadgerDB != nil {
		if err := a.BadgerDB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close database")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.Logger.Info().Msg("Application closed")
	return firstErr
}
