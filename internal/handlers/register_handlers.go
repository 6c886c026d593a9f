package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerExpenseRoutes(v1, services.Expense)
	registerSettlementRoutes(v1, services.Settlement)
	registerBalanceRoutes(v1, services.Ledger)
	registerReconcileRoutes(v1, services.Reconciler)
}

// actingUserID resolves the user performing the request from the
// X-Acting-User header, falling back to the given default when absent.
func actingUserID(c *gin.Context, fallback string) string {
	if actor := c.GetHeader("X-Acting-User"); actor != "" {
		return actor
	}
	return fallback
}
