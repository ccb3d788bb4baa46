package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/finsent/newsradar/internal/adapters/ai"
	"github.com/finsent/newsradar/internal/adapters/config"
	"github.com/finsent/newsradar/internal/adapters/database"
	"github.com/finsent/newsradar/internal/adapters/scrapers"
	"github.com/finsent/newsradar/internal/adapters/telegram"
	"github.com/finsent/newsradar/internal/api"
	"github.com/finsent/newsradar/internal/pipeline"
	"github.com/finsent/newsradar/internal/scheduler"
	"github.com/finsent/newsradar/internal/store"
	"github.com/finsent/newsradar/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting newsradar",
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	st := store.New(db.DB())

	registry := buildRegistry(&cfg.Scrapers)
	if len(registry.All()) == 0 {
		return fmt.Errorf("no scrapers enabled")
	}

	var notifier pipeline.Notifier
	tg, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return fmt.Errorf("init telegram notifier: %w", err)
	}
	if tg != nil {
		notifier = tg
		logger.Info("telegram notifications enabled")
	}

	controller := pipeline.NewController(st, registryAdapter{registry}, extractorFactory(&cfg.AI), notifier)

	scheduleTime, err := st.GetConfigValue(context.Background(), "schedule_time", "01:00")
	if err != nil {
		return fmt.Errorf("load schedule time: %w", err)
	}
	sched, err := scheduler.New(controller, scheduleTime)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	summarizer := ai.NewSummarizer(cfg.AI.OpenAIAPIKey, cfg.AI.SummaryModel)

	server := api.NewServer(cfg.Server.Port, controller, st, registry, sched, summarizer, db.Health)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

// buildRegistry wires the scrapers enabled in configuration.
func buildRegistry(cfg *config.ScrapersConfig) *scrapers.Registry {
	var enabled []scrapers.Scraper
	if cfg.ZawyaEnabled {
		enabled = append(enabled, scrapers.NewZawyaScraper(nil, cfg.ZawyaBaseURL))
	}
	if cfg.MenabytesEnabled {
		enabled = append(enabled, scrapers.NewMenabytesScraper(cfg.MenabytesFeedURL))
	}
	return scrapers.NewRegistry(enabled...)
}

// registryAdapter exposes the scraper registry through the pipeline's
// collaborator contract.
type registryAdapter struct {
	registry *scrapers.Registry
}

func (a registryAdapter) Select(names []string) []pipeline.Scraper {
	selected := a.registry.Select(names)
	out := make([]pipeline.Scraper, len(selected))
	for i, s := range selected {
		out[i] = s
	}
	return out
}

// extractorFactory builds the per-run extractor: request options override
// configured defaults field by field.
func extractorFactory(cfg *config.AIConfig) pipeline.ExtractorFactory {
	return func(opts pipeline.RunOptions) (pipeline.Extractor, error) {
		providerName := opts.Provider
		if providerName == "" {
			providerName = cfg.Provider
		}

		model := opts.ModelName
		apiKey := opts.APIKey
		if apiKey == "" {
			switch providerName {
			case "openai":
				apiKey = cfg.OpenAIAPIKey
				if model == "" {
					model = cfg.OpenAIModel
				}
			case "groq":
				apiKey = cfg.GroqAPIKey
				if model == "" {
					model = cfg.GroqModel
				}
			}
		}

		provider, err := ai.NewProvider(ai.Options{
			Provider: providerName,
			Model:    model,
			APIKey:   apiKey,
		})
		if err != nil {
			return nil, err
		}

		if t, ok := provider.(interface{ SetTimeout(time.Duration) }); ok {
			t.SetTimeout(cfg.RequestTimeout)
		}

		return ai.NewAnalyzer(provider), nil
	}
}
