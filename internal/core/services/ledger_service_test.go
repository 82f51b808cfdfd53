package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/partsledger/internal/adapters/database/memory"
	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/SscSPs/partsledger/internal/core/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (s *LedgerSuite) TestEnsureSystemLedgersIsIdempotent() {
	s.Require().NoError(s.svc.Ledger.EnsureSystemLedgers(s.ctx))
	ledgers, err := s.svc.Ledger.ListLedgers(s.ctx, dto.ListLedgersParams{})
	s.Require().NoError(err)
	s.Len(ledgers, 5)

	s.Equal(domain.Asset, s.ledgerByName("Cash").Type)
	s.Equal(domain.Income, s.ledgerByName("Sales").Type)
	s.Equal(domain.Expense, s.ledgerByName("Purchases").Type)
	s.Equal(domain.Liability, s.ledgerByName("Output Tax").Type)
	s.Equal(domain.Asset, s.ledgerByName("Input Tax").Type)
	s.Equal(domain.SystemUser, s.ledgerByName("Cash").CreatedBy)
}

func (s *LedgerSuite) TestSystemLedgersCannotBeDeactivatedOrRenamed() {
	cash := s.ledgerByName("Cash")
	err := s.svc.Ledger.DeactivateLedger(s.ctx, cash.LedgerID, testOperator)
	s.True(errors.Is(err, apperrors.ErrConflict))

	_, err = s.svc.Ledger.UpdateLedger(s.ctx, cash.LedgerID, dto.UpdateLedgerRequest{Name: ptr("Petty Cash")}, testOperator)
	s.True(errors.Is(err, apperrors.ErrConflict))
}

func (s *LedgerSuite) TestCreateLedgerWithOpeningBalance() {
	bank, err := s.svc.Ledger.CreateLedger(s.ctx, dto.CreateLedgerRequest{
		Name:           "  Bank  ",
		Type:           domain.Asset,
		OpeningBalance: dec("500"),
		ParentGroup:    ptr("Bank Accounts"),
	}, testOperator)
	s.Require().NoError(err)
	s.Equal("Bank", bank.Name)
	s.True(bank.Balance.Equal(dec("500")))
	s.Equal(testOperator, bank.CreatedBy)

	_, err = s.svc.Ledger.CreateLedger(s.ctx, dto.CreateLedgerRequest{Name: "Bank", Type: domain.Asset}, testOperator)
	s.True(errors.Is(err, apperrors.ErrDuplicate), "duplicate name")

	_, err = s.svc.Ledger.CreateLedger(s.ctx, dto.CreateLedgerRequest{Name: "Odd", Type: "OTHER"}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "unknown type")

	s.postVoucher(*bank, s.ledgerByName("Cash"), "300", day(2))
	rec, err := s.svc.Ledger.ReconcileLedger(s.ctx, bank.LedgerID)
	s.Require().NoError(err)
	s.True(rec.Consistent)
	s.True(rec.ReplayedBalance.Equal(dec("800")))
	s.Equal(1, rec.VoucherCount)

	updated, err := s.svc.Ledger.UpdateLedger(s.ctx, bank.LedgerID, dto.UpdateLedgerRequest{Name: ptr("Main Bank")}, testOperator)
	s.Require().NoError(err)
	s.Equal("Main Bank", updated.Name)
	s.True(updated.Balance.Equal(dec("800")), "updates never touch the balance")

	entries, err := s.svc.Audit.ListAuditLogs(s.ctx, dto.ListAuditLogsParams{TableName: "ledgers", RecordID: bank.LedgerID})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(domain.AuditUpdate, entries[0].Action)
	s.Equal(domain.AuditCreate, entries[1].Action)
	s.Empty(entries[1].OldValue)
}

// MockUnitOfWork is a mock type for the UnitOfWork port.
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *MockUnitOfWork) View(ctx context.Context, fn portsrepo.TxFunc) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func TestLedgerServicePropagatesStoreErrors(t *testing.T) {
	uow := new(MockUnitOfWork)
	storeErr := apperrors.NewAppError(500, "connection reset", errors.New("eof"))
	uow.On("View", mock.Anything, mock.Anything).Return(storeErr).Once()
	uow.On("WithinTx", mock.Anything, mock.Anything).Return(apperrors.ErrInvariantViolation).Once()

	svc := services.NewLedgerService(uow, testSystemLedgers)

	_, err := svc.GetLedgerByID(context.Background(), "any")
	require.Error(t, err)
	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.Code)

	_, err = svc.CreateLedger(context.Background(), dto.CreateLedgerRequest{Name: "Bank", Type: domain.Asset}, testOperator)
	assert.True(t, errors.Is(err, apperrors.ErrInvariantViolation))

	uow.AssertExpectations(t)
}

func TestLedgerServiceValidatesBeforeTouchingStore(t *testing.T) {
	uow := new(MockUnitOfWork)
	svc := services.NewLedgerService(uow, testSystemLedgers)

	_, err := svc.CreateLedger(context.Background(), dto.CreateLedgerRequest{Type: domain.Asset}, testOperator)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	uow.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
}

// viewOnce routes exactly one View to store and fails the test on any other call.
func viewOnce(t *testing.T, store *memory.Store) *MockUnitOfWork {
	uow := new(MockUnitOfWork)
	uow.On("View", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		fn := args.Get(1).(portsrepo.TxFunc)
		require.NoError(t, store.View(args.Get(0).(context.Context), fn))
	}).Return(nil).Once()
	return uow
}

func TestReconcileReadsFromOneSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed := services.NewLedgerService(store, testSystemLedgers)
	require.NoError(t, seed.EnsureSystemLedgers(ctx))
	bank, err := seed.CreateLedger(ctx, dto.CreateLedgerRequest{Name: "Bank", Type: domain.Asset, OpeningBalance: dec("250")}, testOperator)
	require.NoError(t, err)
	item, err := services.NewStockService(store).CreateStockItem(ctx, dto.CreateStockItemRequest{
		Name:        "Clutch Plate",
		SKU:         "CLT-SNAP",
		OpeningQty:  dec("4"),
		OpeningRate: dec("300"),
		OpeningDate: ptr(day(1)),
	}, testOperator)
	require.NoError(t, err)

	uow := viewOnce(t, store)
	rec, err := services.NewLedgerService(uow, testSystemLedgers).ReconcileLedger(ctx, bank.LedgerID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)

	uow = viewOnce(t, store)
	stockRec, err := services.NewStockService(uow).ReconcileStockItem(ctx, item.ItemID)
	require.NoError(t, err)
	assert.True(t, stockRec.Consistent)
	assert.True(t, stockRec.ReplayedQty.Equal(dec("4")))
	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
}
