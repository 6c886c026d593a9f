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

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// newExpenseHandler creates a new expenseHandler.
func newExpenseHandler(expenseService portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{
		expenseService: expenseService,
	}
}

// registerExpenseRoutes wires expense endpoints into the given group.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("/:expenseID", h.getExpense)
		expenses.POST("/:expenseID/reverse", h.reverseExpense)
	}
	rg.GET("/users/:userID/expenses", h.listExpensesForUser)
}

// createExpense records a shared expense, computing each participant's share
// under the requested split policy.
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateExpenseRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID := actingUserID(c, createReq.PayerID)
	logger = logger.With(slog.String("creator_user_id", creatorUserID))

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), createReq, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnknownPolicy):
			logger.Warn("Validation error creating expense", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrAmountMismatch):
			logger.Warn("Amount mismatch creating expense", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create expense in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		}
		return
	}

	logger.Info("Expense created successfully", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(*expense))
}

// getExpense retrieves one expense with its split shares.
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Expense not found", slog.String("expense_id", expenseID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		logger.Error("Failed to get expense from service", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve expense"})
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(*expense))
}

// reverseExpense undoes a posted expense by appending offsetting ledger
// entries. The original expense row and entries are preserved.
func (h *expenseHandler) reverseExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")
	actor := actingUserID(c, "")

	expense, err := h.expenseService.ReverseExpense(c.Request.Context(), expenseID, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Expense not found for reversal", slog.String("expense_id", expenseID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Expense already reversed", slog.String("expense_id", expenseID))
			c.JSON(http.StatusConflict, gin.H{"error": "Expense is already reversed"})
		default:
			logger.Error("Failed to reverse expense in service", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse expense"})
		}
		return
	}

	logger.Info("Expense reversed successfully", slog.String("expense_id", expenseID))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(*expense))
}

// listExpensesForUser retrieves a user's recent expenses, newest first.
func (h *expenseHandler) listExpensesForUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	limit, _ := strconv.Atoi(c.Query("limit"))

	expenses, err := h.expenseService.ListExpensesForUser(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to list expenses from service", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expenses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": dto.ToExpenseResponses(expenses)})
}
