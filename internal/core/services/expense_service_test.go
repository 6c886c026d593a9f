package services_test

import (
	"context"
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
	"github.com/splitkaro/splitkaro/internal/dto"
)

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

// Ensure MockExpenseRepository implements portsrepo.ExpenseRepositoryFacade
var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense, shares []domain.SplitShare, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, expense, shares, entries)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByUser(ctx context.Context, userID string, limit int) ([]domain.Expense, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, entries []domain.LedgerEntry, updatedAt time.Time) error {
	args := m.Called(ctx, expenseID, status, entries, updatedAt)
	return args.Error(0)
}

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockExpenseRepository
	mockLedger *MockLedgerReader
	service    portssvc.ExpenseSvcFacade
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExpenseRepository)
	suite.mockLedger = new(MockLedgerReader)
	suite.service = services.NewExpenseService(suite.mockRepo, services.NewSplitCalculator(), suite.mockLedger, "INR")
}

// --- CreateExpense ---

func (suite *ExpenseServiceTestSuite) TestCreateExpense_EqualSplit() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description:  "Goa trip hotel",
		Amount:       decimal.NewFromInt(1000),
		PayerID:      "alice",
		Policy:       domain.SplitEqual,
		Participants: []string{"alice", "bob", "carol"},
	}

	var savedExpense domain.Expense
	var savedShares []domain.SplitShare
	var savedEntries []domain.LedgerEntry
	suite.mockRepo.On("SaveExpense", ctx, mock.AnythingOfType("domain.Expense"), mock.AnythingOfType("[]domain.SplitShare"), mock.AnythingOfType("[]domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			savedExpense = args.Get(1).(domain.Expense)
			savedShares = args.Get(2).([]domain.SplitShare)
			savedEntries = args.Get(3).([]domain.LedgerEntry)
		}).Return(nil).Once()

	expense, err := suite.service.CreateExpense(ctx, req, "alice")

	suite.Require().NoError(err)
	suite.Require().NotNil(expense)
	suite.NotEmpty(expense.ExpenseID)
	suite.Equal(domain.Posted, expense.Status)
	suite.Equal("alice", expense.CreatedBy)
	suite.Equal("INR", expense.CurrencyCode)

	suite.Require().Len(savedShares, 3)
	suite.Equal("333.34", savedShares[0].Amount.String())
	suite.Equal("333.33", savedShares[1].Amount.String())
	suite.Equal("333.33", savedShares[2].Amount.String())

	// One mirrored pair per non-payer participant.
	suite.Len(savedEntries, 4)
	suite.Equal(savedExpense.ExpenseID, savedEntries[0].EventID)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_ExplicitCurrencyKept() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description:  "Lunch",
		Amount:       decimal.NewFromInt(40),
		CurrencyCode: "EUR",
		PayerID:      "alice",
		Policy:       domain.SplitEqual,
		Participants: []string{"alice", "bob"},
	}
	suite.mockRepo.On("SaveExpense", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	expense, err := suite.service.CreateExpense(ctx, req, "alice")

	suite.Require().NoError(err)
	suite.Equal("EUR", expense.CurrencyCode)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NonPositiveAmountRejected() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description:  "Nothing",
		Amount:       decimal.Zero,
		PayerID:      "alice",
		Policy:       domain.SplitEqual,
		Participants: []string{"alice", "bob"},
	}

	_, err := suite.service.CreateExpense(ctx, req, "alice")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_SplitErrorPropagates() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Unbalanced",
		Amount:      decimal.NewFromInt(100),
		PayerID:     "alice",
		Policy:      domain.SplitUnequal,
		Amounts: []dto.ShareAmountRequest{
			{UserID: "alice", Amount: decimal.NewFromInt(60)},
			{UserID: "bob", Amount: decimal.NewFromInt(30)},
		},
	}

	_, err := suite.service.CreateExpense(ctx, req, "alice")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAmountMismatch)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_UnknownPolicyRejected() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description:  "Mystery",
		Amount:       decimal.NewFromInt(100),
		PayerID:      "alice",
		Policy:       domain.SplitPolicy("VIBES"),
		Participants: []string{"alice", "bob"},
	}

	_, err := suite.service.CreateExpense(ctx, req, "alice")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnknownPolicy)
}

// --- GetExpenseByID / ListExpensesForUser ---

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_NotFound() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	suite.mockRepo.On("FindExpenseByID", ctx, expenseID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetExpenseByID(ctx, expenseID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestListExpensesForUser_DefaultsLimit() {
	ctx := context.Background()
	suite.mockRepo.On("ListExpensesByUser", ctx, "alice", 50).Return([]domain.Expense{}, nil).Once()

	_, err := suite.service.ListExpensesForUser(ctx, "alice", 0)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- ReverseExpense ---

func (suite *ExpenseServiceTestSuite) TestReverseExpense_AppendsReversalsAndFlipsStatus() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	posted := &domain.Expense{
		ExpenseID: expenseID,
		PayerID:   "alice",
		Amount:    decimal.NewFromInt(900),
		Status:    domain.Posted,
	}
	original := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), OwnerID: "alice", CounterpartyID: "bob", Amount: decimal.NewFromInt(300), EventID: expenseID, Note: "Expense: Dinner"},
		{EntryID: uuid.NewString(), OwnerID: "bob", CounterpartyID: "alice", Amount: decimal.NewFromInt(-300), EventID: expenseID, Note: "Expense: Dinner"},
		{EntryID: uuid.NewString(), OwnerID: "alice", CounterpartyID: "carol", Amount: decimal.NewFromInt(300), EventID: expenseID, Note: "Expense: Dinner"},
		{EntryID: uuid.NewString(), OwnerID: "carol", CounterpartyID: "alice", Amount: decimal.NewFromInt(-300), EventID: expenseID, Note: "Expense: Dinner"},
	}

	suite.mockRepo.On("FindExpenseByID", ctx, expenseID).Return(posted, nil).Once()
	suite.mockLedger.On("EntriesForEvent", ctx, expenseID).Return(original, nil).Once()

	var reversals []domain.LedgerEntry
	suite.mockRepo.On("UpdateExpenseStatus", ctx, expenseID, domain.Reversed, mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			reversals = args.Get(3).([]domain.LedgerEntry)
		}).Return(nil).Once()

	reversed, err := suite.service.ReverseExpense(ctx, expenseID, "alice")

	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, reversed.Status)
	suite.Require().Len(reversals, len(original))
	for i, r := range reversals {
		suite.True(r.Amount.Equal(original[i].Amount.Neg()))
		suite.Equal(expenseID, r.EventID)
	}

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestReverseExpense_AlreadyReversedRejected() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	reversed := &domain.Expense{ExpenseID: expenseID, Status: domain.Reversed}
	suite.mockRepo.On("FindExpenseByID", ctx, expenseID).Return(reversed, nil).Once()

	_, err := suite.service.ReverseExpense(ctx, expenseID, "alice")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateExpenseStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestReverseExpense_PayerOnlyExpenseFlipsStatusOnly() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	posted := &domain.Expense{ExpenseID: expenseID, PayerID: "alice", Status: domain.Posted}

	suite.mockRepo.On("FindExpenseByID", ctx, expenseID).Return(posted, nil).Once()
	suite.mockLedger.On("EntriesForEvent", ctx, expenseID).Return(nil, apperrors.ErrNothingToReverse).Once()
	suite.mockRepo.On("UpdateExpenseStatus", ctx, expenseID, domain.Reversed, mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversed, err := suite.service.ReverseExpense(ctx, expenseID, "alice")

	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, reversed.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestReverseExpense_NotFound() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	suite.mockRepo.On("FindExpenseByID", ctx, expenseID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ReverseExpense(ctx, expenseID, "alice")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
