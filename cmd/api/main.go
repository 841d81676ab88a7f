package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/soportia/helpdesk/internal/api/http"
	"github.com/soportia/helpdesk/internal/api/http/handlers"
	"github.com/soportia/helpdesk/internal/config"
	"github.com/soportia/helpdesk/internal/events"
	"github.com/soportia/helpdesk/internal/ingest"
	"github.com/soportia/helpdesk/internal/messaging"
	"github.com/soportia/helpdesk/internal/observability"
	"github.com/soportia/helpdesk/internal/persistence"
	"github.com/soportia/helpdesk/internal/repository"
	"github.com/soportia/helpdesk/internal/service"
	"github.com/soportia/helpdesk/internal/storage"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	customerRepo := repository.NewCustomerRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	eventRepo := repository.NewTicketEventRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	replayCache := repository.NewReplayCache(redis.Client)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifications.RegisterHandlers()

	blobClient := storage.NewBlobClient(cfg.Storage, logger)
	resolver := ingest.NewAttachmentResolver(blobClient, logger)

	var sender messaging.Sender
	if cfg.Messaging.APIURL != "" {
		sender = messaging.NewBuilderBotClient(cfg.Messaging, logger)
	}

	pipeline := ingest.NewPipeline(cfg.Pipeline, ingest.Dependencies{
		Customers:   customerRepo,
		Tickets:     ticketRepo,
		Messages:    messageRepo,
		Events:      eventRepo,
		Replay:      replayCache,
		Attachments: resolver,
		Sender:      sender,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
	}, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CustomerRepo: customerRepo,
		MessageRepo:  messageRepo,
		EventRepo:    eventRepo,
	})
	statsService := service.NewStatsService(statsRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg, pg, redis),
		Webhooks:  handlers.NewWebhookHandler(pipeline),
		Tickets:   handlers.NewTicketsHandler(ticketService),
		Dashboard: handlers.NewDashboardHandler(statsService),
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
