package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquaerp/aqua-accounting/internal/apperrors"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
	"github.com/aquaerp/aqua-accounting/internal/core/services"
	"github.com/aquaerp/aqua-accounting/internal/dto"
	"github.com/aquaerp/aqua-accounting/internal/middleware"
)

// revaluationHandler handles HTTP requests for biological asset revaluations.
type revaluationHandler struct {
	revaluationService portssvc.RevaluationSvc
}

// newRevaluationHandler creates a new revaluationHandler.
func newRevaluationHandler(revaluationService portssvc.RevaluationSvc) *revaluationHandler {
	return &revaluationHandler{revaluationService: revaluationService}
}

// registerRevaluationRoutes wires the revaluation endpoints into the router group.
func registerRevaluationRoutes(rg *gin.RouterGroup, revaluationService portssvc.RevaluationSvc) {
	h := newRevaluationHandler(revaluationService)
	revaluations := rg.Group("/revaluations")
	{
		revaluations.POST("/run", h.runRevaluation)
		revaluations.GET("", h.listRevaluations)
		revaluations.GET("/:batchID/:date", h.getRevaluation)
	}
}

func (h *revaluationHandler) runRevaluation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunRevaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for runRevaluation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID := middleware.GetActorFromContext(c)
	result, err := h.revaluationService.Run(c.Request.Context(), req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMarketPriceNotPositive),
			errors.Is(err, services.ErrBatchNotActive),
			errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Revaluation run failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Revaluation run failed"})
		}
		return
	}

	revaluations := make([]dto.RevaluationResponse, len(result.Revaluations))
	for i := range result.Revaluations {
		revaluations[i] = dto.ToRevaluationResponse(&result.Revaluations[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"dryRun":         result.DryRun,
		"revaluations":   revaluations,
		"skippedBatches": result.SkippedBatches,
	})
}

func (h *revaluationHandler) getRevaluation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")
	date := c.Param("date")

	rev, err := h.revaluationService.GetRevaluation(c.Request.Context(), batchID, date)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Revaluation not found"})
		default:
			logger.Error("Failed to get revaluation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get revaluation"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRevaluationResponse(rev))
}

func (h *revaluationHandler) listRevaluations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListRevaluationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	revs, err := h.revaluationService.ListRevaluations(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list revaluations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list revaluations"})
		return
	}

	resp := make([]dto.RevaluationResponse, len(revs))
	for i := range revs {
		resp[i] = dto.ToRevaluationResponse(&revs[i])
	}
	c.JSON(http.StatusOK, gin.H{"revaluations": resp})
}
