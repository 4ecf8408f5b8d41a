package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/repairdesk-service/internal/api/http"
	"github.com/spec-kit/repairdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/repairdesk-service/internal/auth"
	"github.com/spec-kit/repairdesk-service/internal/config"
	"github.com/spec-kit/repairdesk-service/internal/events"
	"github.com/spec-kit/repairdesk-service/internal/observability"
	"github.com/spec-kit/repairdesk-service/internal/persistence"
	"github.com/spec-kit/repairdesk-service/internal/repository"
	"github.com/spec-kit/repairdesk-service/internal/repository/memory"
	"github.com/spec-kit/repairdesk-service/internal/service"
	"github.com/spec-kit/repairdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()

	deps := service.TicketDependencies{
		TxManager:  repository.NewPgxTxManager(pool),
		Cache:      redis,
		CacheTTL:   cfg.Redis.BarcodeTTL(),
		Dispatcher: dispatcher,
	}
	if pool != nil {
		deps.TicketRepo = repository.NewTicketRepository(pool)
		deps.HistoryRepo = repository.NewTicketHistoryRepository(pool)
		deps.NoteRepo = repository.NewTicketNoteRepository(pool)
		deps.TimeEntryRepo = repository.NewTimeEntryRepository(pool)
		deps.AttachmentRepo = repository.NewAttachmentRepository(pool)
		deps.SequenceRepo = repository.NewSequenceRepository(pool)
		deps.Storage = service.NewStorageAllocator(repository.NewStorageLocationRepository(pool))
	} else {
		store := memory.NewStore()
		deps.TxManager = store
		deps.TicketRepo = store
		deps.HistoryRepo = store.History()
		deps.NoteRepo = store.Notes()
		deps.TimeEntryRepo = store.TimeEntries()
		deps.AttachmentRepo = store.Attachments()
		deps.SequenceRepo = store
		deps.Storage = service.NewStorageAllocator(store.Locations())
	}

	ticketService := service.NewTicketService(deps)

	notificationService := service.NewNotificationService(cfg.Notification, dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(auth.NewTokenVerifier(cfg.Auth.JWTSecret))
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var healthPG *persistence.Postgres
	if pool != nil {
		healthPG = pg
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(healthPG, redis, metrics),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Board:          handlers.NewBoardHandler(ticketService),
		Storage:        handlers.NewStorageHandler(deps.Storage),
		Portal:         handlers.NewPortalHandler(ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
