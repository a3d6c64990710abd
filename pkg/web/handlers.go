// Package web provides HTTP handlers and REST API endpoints for connection
// and workflow management.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/queue"
	"github.com/flowsight/flowsight/pkg/registry"
	"github.com/flowsight/flowsight/pkg/services"
	flowsync "github.com/flowsight/flowsight/pkg/sync"
)

type APIHandlers struct {
	workflowService   *services.Workflows
	connectionService *services.Connections
	insightService    *services.Insights
	engine            *flowsync.Engine
	producer          *queue.Producer
	validator         *validator.Validate
	registry          *registry.Registry
}

// NewAPIHandlers wires the API surface. The producer is optional: when set,
// sync requests are queued for the worker; when nil, syncs run inline.
func NewAPIHandlers(
	workflowService *services.Workflows,
	connectionService *services.Connections,
	insightService *services.Insights,
	engine *flowsync.Engine,
	producer *queue.Producer,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		workflowService:   workflowService,
		connectionService: connectionService,
		insightService:    insightService,
		engine:            engine,
		producer:          producer,
		validator:         validator,
		registry:          registry,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowsight API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "Flowsight API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetProviders(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"providers": h.registry.Providers(),
	})
}

func (h *APIHandlers) GetConnections(c fiber.Ctx) error {
	conns, err := h.connectionService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"connections": conns,
	})
}

func (h *APIHandlers) GetConnection(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	conn, err := h.connectionService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(conn)
}

func (h *APIHandlers) CreateConnection(c fiber.Ctx) error {
	var req CreateConnectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if _, err := h.registry.Resolve(req.Provider); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.connectionService.Create(c.Context(), &models.Connection{
		UserID:   req.UserID,
		Provider: req.Provider,
		Name:     req.Name,
		Config:   req.Config,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateConnection(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	var req UpdateConnectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	existing, err := h.connectionService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Config != nil {
		existing.Config = req.Config
	}

	updated, err := h.connectionService.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

// SyncConnection triggers a sync for one connection. With a queue producer
// configured the request is handed to the worker and answered 202; otherwise
// the sync runs inline and the result is returned directly.
func (h *APIHandlers) SyncConnection(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	conn, err := h.connectionService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if h.producer != nil {
		err = h.producer.Enqueue(c.Context(), conn.ID)
		if err != nil {
			return internalError(c, err)
		}

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status":        "queued",
			"connection_id": conn.ID,
		})
	}

	result, err := h.engine.SyncConnection(c.Context(), conn)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}

	return c.JSON(result)
}

func (h *APIHandlers) GetConnectionWorkflows(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	workflows, err := h.workflowService.ListByConnection(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows": workflows,
	})
}

func (h *APIHandlers) GetConnectionSyncLogs(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	logs, err := h.workflowService.SyncHistory(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"sync_logs": logs,
	})
}

func (h *APIHandlers) GetConnectionInsights(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	report, err := h.insightService.ForConnection(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(report)
}

func (h *APIHandlers) GetGlobalInsights(c fiber.Ctx) error {
	report, err := h.insightService.Global(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(report)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	provider := c.Params("provider")
	externalID := c.Params("externalId")

	if provider == "" || externalID == "" {
		return badRequest(c, "Provider and external ID are required")
	}

	workflow, err := h.workflowService.FetchByProviderKey(c.Context(), provider, externalID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}
