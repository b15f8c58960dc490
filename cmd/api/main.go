package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/notify"
	"shareit/internal/repository"
	"shareit/internal/service"
	"shareit/internal/worker"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	cache := buildProjectionCache(cfg, &logger)

	// Счётчики и аудит-лог доменных событий живут на шине, а не в хендлерах.
	eventBus := events.NewEventBus()
	events.SubscribeMetricsHandlers(eventBus, baseLogger)

	userService := service.NewUserService(db, &logger)
	itemService := service.NewItemService(db, cache, eventBus, &logger)
	bookingService := service.NewBookingService(db, cache, eventBus, &logger)
	requestService := service.NewRequestService(db, &logger)

	if cfg.Notifications.Enabled {
		notifier, err := notify.NewTelegramNotifier(cfg.Notifications.BotToken, cfg.Notifications.AdminChatID, &logger)
		if err != nil {
			return err
		}
		retryPolicy := worker.RetryPolicy{
			MaxRetries:    cfg.Notifications.MaxRetries,
			InitialDelay:  2 * time.Second,
			MaxDelay:      time.Minute,
			BackoffFactor: 2,
		}
		notifyWorker := worker.NewNotifyWorker(db, notifier, retryPolicy,
			time.Duration(cfg.Notifications.PollInterval)*time.Second, &logger)
		go notifyWorker.Run(ctx)
	}

	server := api.NewHTTPServer(cfg.HTTP, cfg.Monitoring, userService, itemService, bookingService, requestService, &logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildProjectionCache собирает кэш проекций: Redis с памятью как резервом,
// либо только память, если Redis выключен.
func buildProjectionCache(cfg *config.Config, logger *zerolog.Logger) domain.ProjectionCache {
	ttl := time.Duration(cfg.Redis.CacheTTL) * time.Second
	memory := repository.NewMemoryProjectionCache(ttl)

	if !cfg.Redis.Enabled {
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	primary := repository.NewRedisProjectionCache(client, ttl)
	return repository.NewFailoverProjectionCache(primary, memory, logger)
}
