package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	GetBalance(ctx context.Context) (decimal.Decimal, error)
	Credit(ctx context.Context, amount decimal.Decimal) (*domain.Transaction, error)
	Debit(ctx context.Context, amount decimal.Decimal) (*domain.Transaction, error)
	GetHistory(ctx context.Context) ([]*domain.Transaction, error)
}

// WalletHandler handles wallet-related HTTP requests.
type WalletHandler struct {
	walletUC WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Balance returns the current wallet balance.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.walletUC.GetBalance(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// Credit adds funds to the wallet.
func (h *WalletHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.walletUC.Credit(r.Context(), req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to credit wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Debit withdraws funds from the wallet.
func (h *WalletHandler) Debit(w http.ResponseWriter, r *http.Request) {
	var req dto.DebitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.walletUC.Debit(r.Context(), req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to debit wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// History lists transactions in insertion order. Pagination trims the
// response only; the underlying ledger read is always complete.
func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", domain.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)
	limit, offset = domain.ValidatePagination(limit, offset)

	transactions, err := h.walletUC.GetHistory(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryResponse{
		Transactions: dto.TransactionsFromDomain(paginate(transactions, limit, offset)),
		Total:        int64(len(transactions)),
	})
}

func paginate(transactions []*domain.Transaction, limit, offset int) []*domain.Transaction {
	if offset >= len(transactions) {
		return nil
	}

	end := offset + limit
	if end > len(transactions) {
		end = len(transactions)
	}

	return transactions[offset:end]
}
