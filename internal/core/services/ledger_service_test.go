package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/splitkaro/splitkaro/internal/apperrors"
	"github.com/splitkaro/splitkaro/internal/core/domain"
	portsrepo "github.com/splitkaro/splitkaro/internal/core/ports/repositories"
	portssvc "github.com/splitkaro/splitkaro/internal/core/ports/services"
	"github.com/splitkaro/splitkaro/internal/core/services"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

// Ensure MockLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) AppendEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntriesByEventID(ctx context.Context, eventID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumBetween(ctx context.Context, ownerID, counterpartyID string) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, counterpartyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) SumByCounterparty(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByOwner(ctx context.Context, ownerID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumAllPairs(ctx context.Context) (map[string]map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]map[string]decimal.Decimal), args.Error(1)
}

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockLedgerRepository
	service  portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(suite.mockRepo)
}

func (suite *LedgerServiceTestSuite) newExpense(payerID string, amount int64) domain.Expense {
	return domain.Expense{
		ExpenseID:    uuid.NewString(),
		Description:  "Dinner",
		Amount:       decimal.NewFromInt(amount),
		CurrencyCode: "INR",
		PayerID:      payerID,
		Policy:       domain.SplitEqual,
		Status:       domain.Posted,
		ExpenseDate:  time.Now().UTC(),
	}
}

// --- RecordExpense ---

func (suite *LedgerServiceTestSuite) TestRecordExpense_PostsMirroredPairs() {
	ctx := context.Background()
	expense := suite.newExpense("alice", 900)
	shares := []domain.SplitShare{
		{UserID: "alice", Amount: decimal.NewFromInt(300)},
		{UserID: "bob", Amount: decimal.NewFromInt(300)},
		{UserID: "carol", Amount: decimal.NewFromInt(300)},
	}

	var captured []domain.LedgerEntry
	suite.mockRepo.On("AppendEntries", ctx, mock.AnythingOfType("[]domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]domain.LedgerEntry)
		}).Return(nil).Once()

	entries, err := suite.service.RecordExpense(ctx, expense, shares)

	suite.Require().NoError(err)
	// Two non-payer shares, one mirrored pair each.
	suite.Require().Len(entries, 4)
	suite.Equal(entries, captured)

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
		suite.Equal(expense.ExpenseID, e.EventID)
		suite.NotEqual(e.OwnerID, e.CounterpartyID)
	}
	suite.True(sum.IsZero(), "entries summed to %s", sum)

	// The payer holds the positive side of each pair.
	suite.Equal("alice", entries[0].OwnerID)
	suite.Equal("bob", entries[0].CounterpartyID)
	suite.True(entries[0].Amount.Equal(decimal.NewFromInt(300)))
	suite.Equal("bob", entries[1].OwnerID)
	suite.Equal("alice", entries[1].CounterpartyID)
	suite.True(entries[1].Amount.Equal(decimal.NewFromInt(-300)))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_PayerOnlyProducesNoEntries() {
	ctx := context.Background()
	expense := suite.newExpense("alice", 100)
	shares := []domain.SplitShare{
		{UserID: "alice", Amount: decimal.NewFromInt(100)},
	}

	entries, err := suite.service.RecordExpense(ctx, expense, shares)

	suite.Require().NoError(err)
	suite.Nil(entries)
	suite.mockRepo.AssertNotCalled(suite.T(), "AppendEntries", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_NoSharesRejected() {
	ctx := context.Background()
	expense := suite.newExpense("alice", 100)

	_, err := suite.service.RecordExpense(ctx, expense, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_NonPositiveAmountRejected() {
	ctx := context.Background()
	expense := suite.newExpense("alice", 0)
	shares := []domain.SplitShare{
		{UserID: "bob", Amount: decimal.Zero},
	}

	_, err := suite.service.RecordExpense(ctx, expense, shares)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_RepositoryErrorPropagates() {
	ctx := context.Background()
	expense := suite.newExpense("alice", 100)
	shares := []domain.SplitShare{
		{UserID: "bob", Amount: decimal.NewFromInt(100)},
	}
	repoErr := errors.New("deadlock detected")
	suite.mockRepo.On("AppendEntries", ctx, mock.AnythingOfType("[]domain.LedgerEntry")).Return(repoErr).Once()

	_, err := suite.service.RecordExpense(ctx, expense, shares)

	suite.Require().Error(err)
	suite.ErrorIs(err, repoErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- RecordSettlement ---

func (suite *LedgerServiceTestSuite) TestRecordSettlement_PostsMirroredPair() {
	ctx := context.Background()
	settlement := domain.Settlement{
		SettlementID: uuid.NewString(),
		FromUserID:   "bob",
		ToUserID:     "alice",
		Amount:       decimal.NewFromFloat(250.50),
		CurrencyCode: "INR",
		Status:       domain.Posted,
		SettledAt:    time.Now().UTC(),
	}
	suite.mockRepo.On("AppendEntries", ctx, mock.AnythingOfType("[]domain.LedgerEntry")).Return(nil).Once()

	entries, err := suite.service.RecordSettlement(ctx, settlement)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal("bob", entries[0].OwnerID)
	suite.True(entries[0].Amount.Equal(decimal.NewFromFloat(250.50)))
	suite.Equal("alice", entries[1].OwnerID)
	suite.True(entries[1].Amount.Equal(decimal.NewFromFloat(-250.50)))
	suite.Equal(settlement.SettlementID, entries[0].EventID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordSettlement_SelfSettlementRejected() {
	ctx := context.Background()
	settlement := domain.Settlement{
		SettlementID: uuid.NewString(),
		FromUserID:   "alice",
		ToUserID:     "alice",
		Amount:       decimal.NewFromInt(10),
	}

	_, err := suite.service.RecordSettlement(ctx, settlement)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "AppendEntries", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordSettlement_NonPositiveAmountRejected() {
	ctx := context.Background()
	settlement := domain.Settlement{
		SettlementID: uuid.NewString(),
		FromUserID:   "bob",
		ToUserID:     "alice",
		Amount:       decimal.NewFromInt(-5),
	}

	_, err := suite.service.RecordSettlement(ctx, settlement)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ReverseEvent ---

func (suite *LedgerServiceTestSuite) TestReverseEvent_AppendsSignInvertedSiblings() {
	ctx := context.Background()
	eventID := uuid.NewString()
	original := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), OwnerID: "alice", CounterpartyID: "bob", Amount: decimal.NewFromInt(300), EventID: eventID, Note: "Expense: Dinner"},
		{EntryID: uuid.NewString(), OwnerID: "bob", CounterpartyID: "alice", Amount: decimal.NewFromInt(-300), EventID: eventID, Note: "Expense: Dinner"},
	}
	suite.mockRepo.On("FindEntriesByEventID", ctx, eventID).Return(original, nil).Once()

	var captured []domain.LedgerEntry
	suite.mockRepo.On("AppendEntries", ctx, mock.AnythingOfType("[]domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]domain.LedgerEntry)
		}).Return(nil).Once()

	reversals, err := suite.service.ReverseEvent(ctx, eventID)

	suite.Require().NoError(err)
	suite.Require().Len(reversals, 2)
	suite.Equal(reversals, captured)
	for i, r := range reversals {
		suite.True(r.Amount.Equal(original[i].Amount.Neg()), "entry %d not inverted", i)
		suite.Equal(eventID, r.EventID)
		suite.NotEqual(original[i].EntryID, r.EntryID)
		suite.Equal("Reversal: Expense: Dinner", r.Note)
	}

	// Original plus reversal nets to zero for both parties.
	perUser := map[string]decimal.Decimal{}
	for _, e := range append(append([]domain.LedgerEntry{}, original...), reversals...) {
		perUser[e.OwnerID] = perUser[e.OwnerID].Add(e.Amount)
	}
	for userID, net := range perUser {
		suite.True(net.IsZero(), "user %s left with %s", userID, net)
	}
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverseEvent_NothingToReverse() {
	ctx := context.Background()
	eventID := uuid.NewString()
	suite.mockRepo.On("FindEntriesByEventID", ctx, eventID).Return([]domain.LedgerEntry{}, nil).Once()

	_, err := suite.service.ReverseEvent(ctx, eventID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNothingToReverse)
	suite.mockRepo.AssertNotCalled(suite.T(), "AppendEntries", mock.Anything, mock.Anything)
}

// --- Balance queries ---

func (suite *LedgerServiceTestSuite) TestBalanceBetween() {
	ctx := context.Background()
	suite.mockRepo.On("SumBetween", ctx, "alice", "bob").Return(decimal.NewFromFloat(120.50), nil).Once()

	balance, err := suite.service.BalanceBetween(ctx, "alice", "bob")

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromFloat(120.50)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestAllBalancesFor_FiltersSubMinorUnitBalances() {
	ctx := context.Background()
	sums := map[string]decimal.Decimal{
		"bob":   decimal.NewFromFloat(120.50),
		"carol": decimal.NewFromFloat(0.005),
		"dave":  decimal.Zero,
		"erin":  decimal.NewFromFloat(-42.42),
	}
	suite.mockRepo.On("SumByCounterparty", ctx, "alice").Return(sums, nil).Once()

	balances, err := suite.service.AllBalancesFor(ctx, "alice")

	suite.Require().NoError(err)
	suite.Len(balances, 2)
	suite.Contains(balances, "bob")
	suite.Contains(balances, "erin")
	suite.NotContains(balances, "carol")
	suite.NotContains(balances, "dave")
}

func (suite *LedgerServiceTestSuite) TestSummaryFor() {
	ctx := context.Background()
	sums := map[string]decimal.Decimal{
		"bob":   decimal.NewFromInt(100),
		"carol": decimal.NewFromInt(-40),
		"dave":  decimal.NewFromInt(25),
	}
	suite.mockRepo.On("SumByCounterparty", ctx, "alice").Return(sums, nil).Once()

	summary, err := suite.service.SummaryFor(ctx, "alice")

	suite.Require().NoError(err)
	suite.Equal("alice", summary.UserID)
	suite.True(summary.TotalOwedToUser.Equal(decimal.NewFromInt(125)))
	suite.True(summary.TotalUserOwes.Equal(decimal.NewFromInt(40)))
	suite.True(summary.NetBalance.Equal(decimal.NewFromInt(85)))

	suite.Require().Len(summary.OwedToUser, 2)
	suite.Equal("bob", summary.OwedToUser[0].UserID)
	suite.Equal("dave", summary.OwedToUser[1].UserID)
	suite.Require().Len(summary.UserOwes, 1)
	suite.Equal("carol", summary.UserOwes[0].UserID)
	suite.True(summary.UserOwes[0].Amount.Equal(decimal.NewFromInt(40)))
}

func (suite *LedgerServiceTestSuite) TestHistory_ClampsLimit() {
	ctx := context.Background()
	suite.mockRepo.On("ListEntriesByOwner", ctx, "alice", 50).Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockRepo.On("ListEntriesByOwner", ctx, "alice", 200).Return([]domain.LedgerEntry{}, nil).Once()

	_, err := suite.service.History(ctx, "alice", 0)
	suite.Require().NoError(err)
	_, err = suite.service.History(ctx, "alice", 5000)
	suite.Require().NoError(err)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestBalanceSnapshot_Passthrough() {
	ctx := context.Background()
	snapshot := map[string]map[string]decimal.Decimal{
		"alice": {"bob": decimal.NewFromInt(-10)},
		"bob":   {"alice": decimal.NewFromInt(10)},
	}
	suite.mockRepo.On("SumAllPairs", ctx).Return(snapshot, nil).Once()

	got, err := suite.service.BalanceSnapshot(ctx)

	suite.Require().NoError(err)
	suite.Equal(snapshot, got)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
