package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitkaro/splitkaro/internal/apperrors"
	"github.com/splitkaro/splitkaro/internal/core/domain"
	portsrepo "github.com/splitkaro/splitkaro/internal/core/ports/repositories"
	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/dto"
	"github.com/splitkaro/splitkaro/internal/utils/accounting"
)

// settlementService orchestrates manual transfers: a settlement row plus
// its mirrored ledger pair, persisted as one unit.
type settlementService struct {
	BaseService
	settlementRepo  portsrepo.SettlementRepositoryFacade
	ledger          portssvc.LedgerReaderSvc
	defaultCurrency string
}

// NewSettlementService creates a new SettlementSvcFacade.
func NewSettlementService(settlementRepo portsrepo.SettlementRepositoryFacade, ledger portssvc.LedgerReaderSvc, defaultCurrency string) portssvc.SettlementSvcFacade {
	return &settlementService{
		settlementRepo:  settlementRepo,
		ledger:          ledger,
		defaultCurrency: defaultCurrency,
	}
}

// Ensure settlementService implements the SettlementSvcFacade interface
var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// CreateSettlement records a transfer from one user to another. Overpaying
// is allowed; it flips the pairwise balance rather than being rejected.
func (s *settlementService) CreateSettlement(ctx context.Context, req dto.CreateSettlementRequest, creatorUserID string) (*domain.Settlement, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: settlement amount must be positive", apperrors.ErrValidation)
	}
	if req.FromUserID == req.ToUserID {
		return nil, fmt.Errorf("%w: cannot settle with oneself", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	settledAt := now
	if req.SettledAt != nil {
		settledAt = req.SettledAt.UTC()
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = s.defaultCurrency
	}

	settlement := domain.Settlement{
		SettlementID: uuid.NewString(),
		FromUserID:   req.FromUserID,
		ToUserID:     req.ToUserID,
		Amount:       req.Amount.Round(domain.MinorUnitPlaces),
		CurrencyCode: currency,
		Note:         req.Note,
		Status:       domain.Posted,
		SettledAt:    settledAt,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: creatorUserID,
		},
	}

	entries, err := accounting.BuildSettlementEntries(settlement, now)
	if err != nil {
		return nil, fmt.Errorf("internal ledger invariant violated: %w", err)
	}

	if err := s.settlementRepo.SaveSettlement(ctx, settlement, entries); err != nil {
		s.LogError(ctx, err, "Failed to save settlement", slog.String("settlement_id", settlement.SettlementID))
		return nil, fmt.Errorf("failed to save settlement: %w", err)
	}

	s.LogInfo(ctx, "Settlement recorded",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("from_user_id", settlement.FromUserID),
		slog.String("to_user_id", settlement.ToUserID))
	return &settlement, nil
}

// GetSettlementByID retrieves a settlement by id.
func (s *settlementService) GetSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	settlement, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settlement %s: %w", settlementID, err)
	}
	return settlement, nil
}

// ListSettlementsForUser retrieves settlements where the user is either side.
func (s *settlementService) ListSettlementsForUser(ctx context.Context, userID string, limit int) ([]domain.Settlement, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	settlements, err := s.settlementRepo.ListSettlementsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements for user %s: %w", userID, err)
	}
	return settlements, nil
}

// ReverseSettlement undoes a posted settlement by appending offsetting
// entries; the original pair and the settlement row remain.
func (s *settlementService) ReverseSettlement(ctx context.Context, settlementID string, userID string) (*domain.Settlement, error) {
	settlement, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settlement %s: %w", settlementID, err)
	}
	if settlement.Status != domain.Posted {
		return nil, fmt.Errorf("%w: settlement status is %s, expected POSTED", apperrors.ErrConflict, settlement.Status)
	}

	original, err := s.ledger.EntriesForEvent(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversals := accounting.BuildReversalEntries(original, now)
	if verr := accounting.ValidateZeroSum(reversals); verr != nil {
		return nil, fmt.Errorf("internal ledger invariant violated: %w", verr)
	}

	if err := s.settlementRepo.UpdateSettlementStatus(ctx, settlementID, domain.Reversed, reversals, now); err != nil {
		s.LogError(ctx, err, "Failed to reverse settlement", slog.String("settlement_id", settlementID))
		return nil, fmt.Errorf("failed to reverse settlement: %w", err)
	}

	s.LogInfo(ctx, "Settlement reversed",
		slog.String("settlement_id", settlementID),
		slog.String("requested_by", userID))

	settlement.Status = domain.Reversed
	return settlement, nil
}
