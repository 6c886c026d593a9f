package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/dto"
	"github.com/splitkaro/splitkaro/internal/middleware"
)

// reconcileHandler exposes debt simplification over the current ledger.
type reconcileHandler struct {
	reconcilerService portssvc.ReconcilerSvc
}

// newReconcileHandler creates a new reconcileHandler.
func newReconcileHandler(reconcilerService portssvc.ReconcilerSvc) *reconcileHandler {
	return &reconcileHandler{
		reconcilerService: reconcilerService,
	}
}

// registerReconcileRoutes wires reconciliation endpoints into the group.
func registerReconcileRoutes(rg *gin.RouterGroup, reconcilerService portssvc.ReconcilerSvc) {
	h := newReconcileHandler(reconcilerService)

	reconcile := rg.Group("/reconcile")
	{
		reconcile.GET("/plan", h.getSettlementPlan)
		reconcile.GET("/suggest", h.suggestSettlement)
	}
}

// getSettlementPlan computes a minimal transfer plan over a snapshot of the
// whole ledger. The plan is advisory: balances may move after it is taken.
func (h *reconcileHandler) getSettlementPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	transfers, err := h.reconcilerService.SimplifyAll(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute settlement plan", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute settlement plan"})
		return
	}

	logger.Debug("Settlement plan computed", slog.Int("transfer_count", len(transfers)))
	c.JSON(http.StatusOK, dto.ToSettlementPlanResponse(transfers))
}

// suggestSettlement returns the direct transfer that would clear the debt
// from one user to another, or an empty plan if nothing is owed.
func (h *reconcileHandler) suggestSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fromUserID := c.Query("from")
	toUserID := c.Query("to")
	if fromUserID == "" || toUserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both from and to query parameters are required"})
		return
	}

	transfers, err := h.reconcilerService.SuggestSettlement(c.Request.Context(), fromUserID, toUserID)
	if err != nil {
		logger.Error("Failed to suggest settlement", slog.String("error", err.Error()), slog.String("from_user_id", fromUserID), slog.String("to_user_id", toUserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suggest settlement"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementPlanResponse(transfers))
}
