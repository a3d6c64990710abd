// Package main provides the Flowsight API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowsight/flowsight/pkg/eventbus"
	"github.com/flowsight/flowsight/pkg/persistence"
	"github.com/flowsight/flowsight/pkg/queue"
	"github.com/flowsight/flowsight/pkg/registry"
	"github.com/flowsight/flowsight/pkg/services"
	flowsync "github.com/flowsight/flowsight/pkg/sync"
	"github.com/flowsight/flowsight/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	producer    *queue.Producer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	producer *queue.Producer,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
		tracer:      tracer,
		producer:    producer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	workflowService := services.NewWorkflows(a.persistence)
	connectionService := services.NewConnections(a.persistence)
	insightService := services.NewInsights(a.persistence)
	engine := flowsync.NewEngine(a.persistence, a.registry, a.eventBus, a.tracer, a.logger)

	handlers := web.NewAPIHandlers(
		workflowService,
		connectionService,
		insightService,
		engine,
		a.producer,
		a.validate,
		a.registry,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowsight API")
	})

	conns := app.Group("/connections")
	conns.Get("/", handlers.GetConnections)
	conns.Post("/", handlers.CreateConnection)
	conns.Get("/:id", handlers.GetConnection)
	conns.Patch("/:id", handlers.UpdateConnection)
	conns.Post("/:id/sync", handlers.SyncConnection)
	conns.Get("/:id/workflows", handlers.GetConnectionWorkflows)
	conns.Get("/:id/sync-logs", handlers.GetConnectionSyncLogs)
	conns.Get("/:id/insights", handlers.GetConnectionInsights)

	app.Get("/insights", handlers.GetGlobalInsights)
	app.Get("/providers", handlers.GetProviders)
	app.Get("/workflows/:provider/:externalId", handlers.GetWorkflow)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
