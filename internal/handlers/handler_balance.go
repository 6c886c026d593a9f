package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/dto"
	"github.com/splitkaro/splitkaro/internal/middleware"
)

// balanceHandler handles HTTP requests over committed ledger state.
type balanceHandler struct {
	ledgerService portssvc.LedgerReaderSvc
}

// newBalanceHandler creates a new balanceHandler.
func newBalanceHandler(ledgerService portssvc.LedgerReaderSvc) *balanceHandler {
	return &balanceHandler{
		ledgerService: ledgerService,
	}
}

// registerBalanceRoutes wires balance and history endpoints into the group.
func registerBalanceRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerReaderSvc) {
	h := newBalanceHandler(ledgerService)

	users := rg.Group("/users/:userID")
	{
		users.GET("/balances", h.listBalances)
		users.GET("/balances/:counterpartyID", h.getBalanceBetween)
		users.GET("/summary", h.getSummary)
		users.GET("/ledger", h.getHistory)
	}
}

// listBalances returns the user's non-zero balances keyed by counterparty.
func (h *balanceHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	balances, err := h.ledgerService.AllBalancesFor(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to get balances from service", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balances"})
		return
	}

	counterparties := make([]string, 0, len(balances))
	for counterpartyID := range balances {
		counterparties = append(counterparties, counterpartyID)
	}
	sort.Strings(counterparties)

	responses := make([]dto.CounterpartyAmountResponse, 0, len(balances))
	for _, counterpartyID := range counterparties {
		responses = append(responses, dto.CounterpartyAmountResponse{
			UserID: counterpartyID,
			Amount: balances[counterpartyID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"userID": userID, "balances": responses})
}

// getBalanceBetween returns the signed pairwise balance from the user's
// perspective; positive means the counterparty owes the user.
func (h *balanceHandler) getBalanceBetween(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	counterpartyID := c.Param("counterpartyID")

	balance, err := h.ledgerService.BalanceBetween(c.Request.Context(), userID, counterpartyID)
	if err != nil {
		logger.Error("Failed to get pairwise balance from service", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("counterparty_id", counterpartyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceBetweenResponse{
		UserID:         userID,
		CounterpartyID: counterpartyID,
		Balance:        balance,
	})
}

// getSummary returns the user's full financial position.
func (h *balanceHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	summary, err := h.ledgerService.SummaryFor(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to get summary from service", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSummaryResponse(*summary))
}

// getHistory returns the user's most recent ledger entries, newest first.
func (h *balanceHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.ledgerService.History(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to get ledger history from service", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ledger history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"userID": userID, "entries": dto.ToLedgerEntryResponses(entries)})
}
