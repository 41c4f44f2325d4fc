package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func TestWalletUseCase_Credit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	stored := &domain.Transaction{
		ID:        1,
		Kind:      domain.KindCredit,
		Amount:    decimal.RequireFromString("100.25"),
		CreatedAt: time.Now().UTC(),
	}

	store.EXPECT().ListAll(gomock.Any()).Return(nil, nil).Times(1)
	store.EXPECT().Append(gomock.Any(), domain.KindCredit, decimalMatcher("100.25")).Return(stored, nil)

	uc := usecase.NewWalletUseCase(store, nil, nil, nil)

	tx, err := uc.Credit(context.Background(), decimal.RequireFromString("100.25"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID != 1 || tx.Kind != domain.KindCredit {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	// The balance is served from cache; ListAll must not run again.
	balance, err := uc.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("100.25")) {
		t.Fatalf("expected balance 100.25, got %s", balance)
	}
}

func TestWalletUseCase_Credit_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: the store must never be touched.
	store := mocks.NewMockLedgerStore(ctrl)
	uc := usecase.NewWalletUseCase(store, nil, nil, nil)

	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-10),
	} {
		if _, err := uc.Credit(context.Background(), amount); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %s, got %v", amount, err)
		}
	}

	if _, err := uc.Debit(context.Background(), decimal.Zero); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero debit, got %v", err)
	}
}

func TestWalletUseCase_Debit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	history := []*domain.Transaction{
		{ID: 1, Kind: domain.KindCredit, Amount: decimal.NewFromInt(60)},
		{ID: 2, Kind: domain.KindCredit, Amount: decimal.NewFromInt(40)},
	}
	stored := &domain.Transaction{ID: 3, Kind: domain.KindDebit, Amount: decimal.NewFromInt(30)}

	store.EXPECT().ListAll(gomock.Any()).Return(history, nil).Times(1)
	store.EXPECT().Append(gomock.Any(), domain.KindDebit, decimalMatcher("30")).Return(stored, nil)

	uc := usecase.NewWalletUseCase(store, nil, nil, nil)

	if _, err := uc.Debit(context.Background(), decimal.NewFromInt(30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balance, err := uc.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected balance 70, got %s", balance)
	}
}

func TestWalletUseCase_Debit_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	history := []*domain.Transaction{
		{ID: 1, Kind: domain.KindCredit, Amount: decimal.NewFromInt(50)},
	}

	// Append must never be called for a rejected debit.
	store.EXPECT().ListAll(gomock.Any()).Return(history, nil).Times(1)

	uc := usecase.NewWalletUseCase(store, nil, nil, nil)

	if _, err := uc.Debit(context.Background(), decimal.NewFromInt(80)); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, err := uc.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected balance unchanged at 50, got %s", balance)
	}
}

func TestWalletUseCase_Debit_ExactBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	history := []*domain.Transaction{
		{ID: 1, Kind: domain.KindCredit, Amount: decimal.RequireFromString("49.99")},
	}
	stored := &domain.Transaction{ID: 2, Kind: domain.KindDebit, Amount: decimal.RequireFromString("49.99")}

	store.EXPECT().ListAll(gomock.Any()).Return(history, nil).Times(1)
	store.EXPECT().Append(gomock.Any(), domain.KindDebit, decimalMatcher("49.99")).Return(stored, nil)

	uc := usecase.NewWalletUseCase(store, nil, nil, nil)

	if _, err := uc.Debit(context.Background(), decimal.RequireFromString("49.99")); err != nil {
		t.Fatalf("expected debit of entire balance to succeed, got %v", err)
	}

	balance, err := uc.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", balance)
	}
}

func TestWalletUseCase_AppendFailureDropsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	storeErr := domain.ErrStoreUnavailable

	gomock.InOrder(
		store.EXPECT().ListAll(gomock.Any()).Return(nil, nil),
		store.EXPECT().Append(gomock.Any(), domain.KindCredit, gomock.Any()).Return(nil, storeErr),
		// The failed append invalidates the cache, forcing a re-read.
		store.EXPECT().ListAll(gomock.Any()).Return(nil, nil),
	)

	uc := usecase.NewWalletUseCase(store, nil, nil, nil)

	if _, err := uc.Credit(context.Background(), decimal.NewFromInt(10)); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	balance, err := uc.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", balance)
	}
}

func TestWalletUseCase_GetBalance_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	gomock.InOrder(
		store.EXPECT().ListAll(gomock.Any()).Return(nil, domain.ErrStoreUnavailable),
		store.EXPECT().ListAll(gomock.Any()).Return(nil, nil),
	)

	uc := usecase.NewWalletUseCase(store, nil, nil, nil)

	if _, err := uc.GetBalance(context.Background()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	// The error is not cached; the next read hits the store again.
	balance, err := uc.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", balance)
	}
}

func TestWalletUseCase_GetHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	history := []*domain.Transaction{
		{ID: 1, Kind: domain.KindCredit, Amount: decimal.NewFromInt(100)},
		{ID: 2, Kind: domain.KindDebit, Amount: decimal.NewFromInt(25)},
	}
	store.EXPECT().ListAll(gomock.Any()).Return(history, nil)

	uc := usecase.NewWalletUseCase(store, nil, nil, nil)

	got, err := uc.GetHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected history: %+v", got)
	}
}

func TestWalletUseCase_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	events := mocks.NewMockEventPublisher(ctrl)

	stored := &domain.Transaction{
		ID:        1,
		Kind:      domain.KindDebit,
		Amount:    decimal.NewFromInt(30),
		CreatedAt: time.Now().UTC(),
	}

	store.EXPECT().ListAll(gomock.Any()).Return([]*domain.Transaction{
		{ID: 0, Kind: domain.KindCredit, Amount: decimal.NewFromInt(100)},
	}, nil)
	store.EXPECT().Append(gomock.Any(), domain.KindDebit, gomock.Any()).Return(stored, nil)
	idGen.EXPECT().Generate().Return("evt-1")

	var captured *domain.TransactionEvent
	events.EXPECT().Publish(gomock.Any()).Do(func(ev *domain.TransactionEvent) {
		captured = ev
	})

	uc := usecase.NewWalletUseCase(store, idGen, events, nil)

	if _, err := uc.Debit(context.Background(), decimal.NewFromInt(30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured == nil {
		t.Fatal("expected an event to be published")
	}
	if captured.EventID != "evt-1" {
		t.Fatalf("expected event id evt-1, got %s", captured.EventID)
	}
	if captured.EventType != domain.EventTypeWalletDebited {
		t.Fatalf("expected %s, got %s", domain.EventTypeWalletDebited, captured.EventType)
	}
	if captured.Amount != "30" || captured.Balance != "70" {
		t.Fatalf("expected amount 30 and balance 70, got %s and %s", captured.Amount, captured.Balance)
	}
}

// decimalMatcher matches a decimal.Decimal argument by numeric value.
func decimalMatcher(want string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		d, ok := x.(decimal.Decimal)
		return ok && d.Equal(decimal.RequireFromString(want))
	})
}
