package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/guild-tickets/internal/api/http"
	"github.com/spec-kit/guild-tickets/internal/api/http/handlers"
	"github.com/spec-kit/guild-tickets/internal/auth"
	"github.com/spec-kit/guild-tickets/internal/config"
	"github.com/spec-kit/guild-tickets/internal/events"
	"github.com/spec-kit/guild-tickets/internal/index"
	"github.com/spec-kit/guild-tickets/internal/observability"
	"github.com/spec-kit/guild-tickets/internal/platform"
	"github.com/spec-kit/guild-tickets/internal/sequence"
	"github.com/spec-kit/guild-tickets/internal/service"
	"github.com/spec-kit/guild-tickets/internal/worker"
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

	metrics := observability.NewMetrics()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = index.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		defer redisClient.Close() //nolint:errcheck
	}

	gateway := platform.NewREST(platform.RESTConfig{
		Token:     cfg.Bot.Token,
		BotUserID: cfg.Bot.ClientID,
		Timeout:   cfg.App.RequestTimeout(),
	}, logger)

	seqStore := sequence.NewStore(cfg.Tickets.PersistFile)
	openIndex := index.New(redisClient, logger)
	dispatcher := events.NewInMemoryDispatcher()

	resolver := service.NewRoleResolver(cfg.Tickets.RoleMap, gateway)
	guard := service.NewDuplicateGuard(gateway, openIndex, cfg.Tickets.AllowMultiplePerDomain)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Gateway:    gateway,
		Sequence:   seqStore,
		Resolver:   resolver,
		Guard:      guard,
		Index:      openIndex,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		Brand:      cfg.Brand,
		Tickets:    cfg.Tickets,
	})
	panelService := service.NewPanelService(gateway, dispatcher, logger, cfg.Brand, cfg.Tickets.HelpChannelName)
	notificationService := service.NewNotificationService(gateway, dispatcher, logger, cfg.Tickets.LogChannelID)
	worker.StartNotificationWorker(notificationService)

	tokens := auth.NewTokenManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTLMinutes)
	adminMiddleware := auth.NewAdminMiddleware(tokens)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redisClient),
		Interactions:    handlers.NewInteractionsHandler(ticketService, panelService, logger),
		Admin:           handlers.NewAdminHandler(panelService, cfg.Bot.GuildID),
		AdminMiddleware: adminMiddleware,
		VerifySignature: httptransport.VerifyInteractionSignature(cfg.Bot.PublicKey, logger),
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
