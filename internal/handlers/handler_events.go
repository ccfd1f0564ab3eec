package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
	"github.com/aquaerp/aqua-accounting/internal/dto"
	"github.com/aquaerp/aqua-accounting/internal/middleware"
)

// eventsHandler accepts operational events from the owning modules and hands
// them to the dispatcher. The response is always 202 once the payload is
// well-formed: bookkeeping failures are logged and reconciled later, they
// never bounce the operational record.
type eventsHandler struct {
	dispatcher portssvc.EventDispatcherSvc
}

// newEventsHandler creates a new eventsHandler.
func newEventsHandler(dispatcher portssvc.EventDispatcherSvc) *eventsHandler {
	return &eventsHandler{dispatcher: dispatcher}
}

// registerEventRoutes wires the event ingestion endpoints into the router group.
func registerEventRoutes(rg *gin.RouterGroup, dispatcher portssvc.EventDispatcherSvc) {
	h := newEventsHandler(dispatcher)
	events := rg.Group("/events")
	{
		events.POST("/feeding", h.feedingRecorded)
		events.POST("/mortality", h.mortalityRecorded)
		events.POST("/harvest", h.harvestCompleted)
		events.POST("/invoice", h.invoiceIssued)
	}
}

// dispatch runs the event through the dispatcher and acknowledges receipt.
func (h *eventsHandler) dispatch(c *gin.Context, event domain.Event) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.dispatcher.Dispatch(c.Request.Context(), event); err != nil {
		refType, refID := event.Source()
		logger.Warn("Event accepted but posting failed",
			slog.String("event_type", event.EventType()),
			slog.String("reference_type", refType),
			slog.String("reference_id", refID),
			slog.String("error", err.Error()))
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *eventsHandler) feedingRecorded(c *gin.Context) {
	var req dto.FeedingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	h.dispatch(c, req.ToDomain(middleware.GetActorFromContext(c)))
}

func (h *eventsHandler) mortalityRecorded(c *gin.Context) {
	var req dto.MortalityEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	h.dispatch(c, req.ToDomain(middleware.GetActorFromContext(c)))
}

func (h *eventsHandler) harvestCompleted(c *gin.Context) {
	var req dto.HarvestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	h.dispatch(c, req.ToDomain(middleware.GetActorFromContext(c)))
}

func (h *eventsHandler) invoiceIssued(c *gin.Context) {
	var req dto.InvoiceEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	h.dispatch(c, req.ToDomain(middleware.GetActorFromContext(c)))
}
