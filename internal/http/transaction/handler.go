package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/reconciled", h.setReconciled)
}

type transactionResponse struct {
	ID            uuid.UUID        `json:"id"`
	BankAccountID uuid.UUID        `json:"bank_account_id"`
	Date          string           `json:"date"`
	Description   string           `json:"description"`
	Reference     string           `json:"reference,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	Type          transaction.Type `json:"type"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	Category      string           `json:"category,omitempty"`
	Merchant      string           `json:"merchant,omitempty"`
	IsReconciled  bool             `json:"is_reconciled"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.URL.Query().Get("bank_account_id"))
	if err != nil {
		http.Error(w, "bank_account_id query parameter must be a valid UUID", http.StatusBadRequest)
		return
	}

	filter := transaction.ListFilter{}

	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		filter.StartDate = &t
	}

	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		filter.EndDate = &t
	}

	txs, err := h.svc.ListByAccount(r.Context(), accountID, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toResponse(tx))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(responses); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type setReconciledRequest struct {
	IsReconciled bool `json:"is_reconciled"`
}

func (h *Handler) setReconciled(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	var req setReconciledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetReconciled(r.Context(), id, req.IsReconciled); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		BankAccountID: tx.BankAccountID,
		Date:          tx.Date.Format(time.DateOnly),
		Description:   tx.Description,
		Reference:     tx.Reference,
		Amount:        tx.Amount,
		Type:          tx.Type,
		Balance:       tx.Balance,
		Category:      tx.Category,
		Merchant:      tx.Merchant,
		IsReconciled:  tx.IsReconciled,
		Notes:         tx.Notes,
		CreatedAt:     tx.CreatedAt,
	}
}
