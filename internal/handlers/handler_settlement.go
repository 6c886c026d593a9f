package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/splitkaro/splitkaro/internal/apperrors"
	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/dto"
	"github.com/splitkaro/splitkaro/internal/middleware"
)

// settlementHandler handles HTTP requests related to settlements.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// newSettlementHandler creates a new settlementHandler.
func newSettlementHandler(settlementService portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{
		settlementService: settlementService,
	}
}

// registerSettlementRoutes wires settlement endpoints into the given group.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	settlements := rg.Group("/settlements")
	{
		settlements.POST("", h.createSettlement)
		settlements.GET("/:settlementID", h.getSettlement)
		settlements.POST("/:settlementID/reverse", h.reverseSettlement)
	}
	rg.GET("/users/:userID/settlements", h.listSettlementsForUser)
}

// createSettlement records a manual repayment between two users.
func (h *settlementHandler) createSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateSettlementRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createSettlement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID := actingUserID(c, createReq.FromUserID)
	logger = logger.With(slog.String("creator_user_id", creatorUserID))

	settlement, err := h.settlementService.CreateSettlement(c.Request.Context(), createReq, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating settlement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create settlement in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create settlement"})
		return
	}

	logger.Info("Settlement created successfully", slog.String("settlement_id", settlement.SettlementID))
	c.JSON(http.StatusCreated, dto.ToSettlementResponse(*settlement))
}

// getSettlement retrieves one settlement by id.
func (h *settlementHandler) getSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	settlementID := c.Param("settlementID")

	settlement, err := h.settlementService.GetSettlementByID(c.Request.Context(), settlementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Settlement not found", slog.String("settlement_id", settlementID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Settlement not found"})
			return
		}
		logger.Error("Failed to get settlement from service", slog.String("error", err.Error()), slog.String("settlement_id", settlementID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settlement"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(*settlement))
}

// reverseSettlement undoes a posted settlement by appending offsetting
// ledger entries.
func (h *settlementHandler) reverseSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	settlementID := c.Param("settlementID")
	actor := actingUserID(c, "")

	settlement, err := h.settlementService.ReverseSettlement(c.Request.Context(), settlementID, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Settlement not found for reversal", slog.String("settlement_id", settlementID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Settlement not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Settlement already reversed", slog.String("settlement_id", settlementID))
			c.JSON(http.StatusConflict, gin.H{"error": "Settlement is already reversed"})
		default:
			logger.Error("Failed to reverse settlement in service", slog.String("error", err.Error()), slog.String("settlement_id", settlementID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse settlement"})
		}
		return
	}

	logger.Info("Settlement reversed successfully", slog.String("settlement_id", settlementID))
	c.JSON(http.StatusOK, dto.ToSettlementResponse(*settlement))
}

// listSettlementsForUser retrieves settlements where the user is either side.
func (h *settlementHandler) listSettlementsForUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	limit, _ := strconv.Atoi(c.Query("limit"))

	settlements, err := h.settlementService.ListSettlementsForUser(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to list settlements from service", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list settlements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settlements": dto.ToSettlementResponses(settlements)})
}
