package services

import (
	portsrepo "github.com/splitkaro/splitkaro/internal/core/ports/repositories"
	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Splitter and ledger first since the other services depend on them
	container.Splitter = NewSplitCalculator()
	container.Ledger = NewLedgerService(repos.LedgerRepo)

	container.Reconciler = NewDebtReconciler(container.Ledger)
	container.Expense = NewExpenseService(repos.ExpenseRepo, container.Splitter, container.Ledger, cfg.DefaultCurrencyCode)
	container.Settlement = NewSettlementService(repos.SettlementRepo, container.Ledger, cfg.DefaultCurrencyCode)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.SplitCalculatorSvc  = (*splitCalculator)(nil)
	_ portssvc.LedgerSvcFacade     = (*ledgerService)(nil)
	_ portssvc.ReconcilerSvc       = (*reconcilerService)(nil)
	_ portssvc.ExpenseSvcFacade    = (*expenseService)(nil)
	_ portssvc.SettlementSvcFacade = (*settlementService)(nil)
)
