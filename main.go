package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"couponworker/config"
	"couponworker/helpers"
	"couponworker/internal/scraper"
	"couponworker/logger"
	"couponworker/services/cache"
	"couponworker/services/dedupe"
	"couponworker/services/notifier"
	"couponworker/services/renderer"
	"couponworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables (.env holds the destination handles)
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid category rules")
	}
	rules = config.ResolveDestinations(rules)

	configured := 0
	for _, rule := range rules {
		if rule.Destination != "" {
			configured++
		}
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("listing_url", cfg.ListingURL).
		Dur("scrape_interval", cfg.ScrapeInterval).
		Int("categories", len(rules)).
		Int("destinations", configured).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	source := scraper.NewSiteScraper(cfg, services.Renderer, rules)

	// Create and start worker
	w := worker.NewWorker(
		ctx,
		source,
		services.Store,
		services.Notifier,
		rules,
		helpers.NewZerologAdapter(),
		cfg.ScrapeInterval,
		cfg.SendDelay,
	)

	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting coupon worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Renderer renderer.PageRenderer
	Store    dedupe.Store
	Notifier notifier.Notifier
}

// Cleanup releases the rendering session and the notifier connection
func (s *Services) Cleanup() {
	if s.Renderer != nil {
		s.Renderer.Close()
	}
	if s.Notifier != nil {
		s.Notifier.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg config.Config) *Services {
	log := logger.Default

	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	r := renderer.NewChromeDBRenderer(
		cfg.ChromeDBAddr,
		cacheService,
		cfg.ScrollPause,
		cfg.MaxScrolls,
		cfg.RenderBlock,
	)
	logger.Info("Using ChromeDB renderer at %s", cfg.ChromeDBAddr)

	store := dedupe.NewFileStore(cfg.CacheFile)
	if err := store.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load dedupe store")
	}
	logger.Info("Loaded dedupe store from %s (%d courses seen)", cfg.CacheFile, store.Size())

	n := notifier.NewRedisNotifier(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStreamPrefix,
		cfg.RedisStreamMaxLength,
	)
	logger.Info("Connected to Redis at %s (DB: %d, Stream prefix: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStreamPrefix)

	return &Services{
		Renderer: r,
		Store:    store,
		Notifier: n,
	}
}
