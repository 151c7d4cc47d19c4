package fiber

import (
	"context"
	"errors"
	"net/http"

	"activation-metrics-service/internal/events/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type StoreEventUseCase interface {
	Execute(ctx context.Context, in usecase.StoreEventInput) (usecase.StoreEventResult, error)
	BulkCreateEvents(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error)
}

type EventHandler struct {
	storeUC StoreEventUseCase
}

func NewEventHandler(storeUC StoreEventUseCase) *EventHandler {
	return &EventHandler{storeUC: storeUC}
}

// CreateEvent godoc
// @Summary Record a raw fact event
// @Description Stores a single dated fact for an entity. Re-sending the same event_id is a no-op.
// @Tags Events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event payload"
// @Success 201 {object} CreateEventResponse
// @Success 200 {object} CreateEventResponse "Duplicate event"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_json",
			Message: err.Error(),
		})
	}

	result, err := h.storeUC.Execute(c.UserContext(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}

	if !result.Created {
		return c.Status(http.StatusOK).JSON(CreateEventResponse{
			Status:  "duplicate",
			EventID: result.EventID,
		})
	}

	return c.Status(http.StatusCreated).JSON(CreateEventResponse{
		Status:  "created",
		EventID: result.EventID,
	})
}

// BulkCreateEvents godoc
// @Summary Bulk record raw fact events
// @Description Validates the whole batch first, then stores each event idempotently
// @Tags Events
// @Accept json
// @Produce json
// @Param request body BulkCreateEventsRequest true "Bulk event payload"
// @Success 201 {object} BulkCreateEventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events/bulk [post]
func (h *EventHandler) BulkCreateEvents(c *fiber.Ctx) error {
	var req BulkCreateEventsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_json",
			Message: err.Error(),
		})
	}

	if len(req.Events) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "events_list_required",
			Message: "events must contain at least one item",
		})
	}

	inputs := make([]usecase.StoreEventInput, len(req.Events))
	for i, e := range req.Events {
		inputs[i] = e.toInput()
	}

	result, err := h.storeUC.BulkCreateEvents(
		c.UserContext(),
		usecase.BulkCreateEventsInput{Events: inputs},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(BulkCreateEventsResponse{
		Created:    result.Created,
		Duplicates: result.Duplicates,
	})
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidEvent),
		errors.Is(err, usecase.ErrFutureDate):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_event",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
