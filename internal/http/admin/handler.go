package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/usbankcorp/bankd/internal/account"
	"github.com/usbankcorp/bankd/internal/auth"
	"github.com/usbankcorp/bankd/internal/transaction"
)

var decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bankd",
	Name:      "admin_decisions_total",
	Help:      "Administrator approval decisions by outcome.",
}, []string{"decision"})

type Handler struct {
	svc      *transaction.Service
	accounts account.Repository
}

func NewHandler(svc *transaction.Service, accounts account.Repository) *Handler {
	return &Handler{svc: svc, accounts: accounts}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.listTransactions)
	r.Post("/transactions/{id}/approve", h.approve)
	r.Post("/transactions/{id}/reject", h.reject)
	r.Post("/transactions/bulk-approve", h.bulkApprove)
	r.Get("/users", h.listUsers)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type decisionRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "approve", h.svc.Approve)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "reject", h.svc.Reject)
}

func (h *Handler) decide(
	w http.ResponseWriter,
	r *http.Request,
	decision string,
	apply func(ctx context.Context, id, adminID, notes string) (*transaction.Transaction, error),
) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req decisionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	tx, err := apply(r.Context(), chi.URLParam(r, "id"), identity.ID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrNotFound):
			http.Error(w, "transaction not found", http.StatusNotFound)
		case errors.Is(err, transaction.ErrInvalidState):
			http.Error(w, "transaction is not awaiting approval", http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	decisionsTotal.WithLabelValues(decision).Inc()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type bulkApproveRequest struct {
	IDs   []string `json:"ids"`
	Notes string   `json:"notes"`
}

type bulkApproveResponse struct {
	Approved int `json:"approved"`
}

func (h *Handler) bulkApprove(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req bulkApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	approved, err := h.svc.BulkApprove(r.Context(), req.IDs, identity.ID, req.Notes)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	decisionsTotal.WithLabelValues("approve").Add(float64(approved))

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(bulkApproveResponse{Approved: approved}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]userResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = userResponse{
			ID:            a.ID,
			Email:         a.Email,
			Name:          a.Name,
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance,
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type codesResponse struct {
	OTP      string `json:"otp,omitempty"`
	COT      string `json:"cot,omitempty"`
	TokenKey string `json:"token_key,omitempty"`
	TwoFA    string `json:"two_fa,omitempty"`
}

// adminTransactionResponse includes the issued verification codes and the
// decision metadata: administrators relay codes to customers out-of-band.
type adminTransactionResponse struct {
	ID               string             `json:"id"`
	AccountID        string             `json:"account_id"`
	Type             transaction.Type   `json:"type"`
	Amount           int64              `json:"amount"`
	Description      string             `json:"description"`
	Status           transaction.Status `json:"status"`
	Stage            transaction.Stage  `json:"stage"`
	RecipientAccount string             `json:"recipient_account,omitempty"`
	RecipientName    string             `json:"recipient_name,omitempty"`
	RecipientBank    string             `json:"recipient_bank,omitempty"`
	SenderAccount    string             `json:"sender_account,omitempty"`
	Codes            codesResponse      `json:"verification_codes"`
	Attempts         int                `json:"attempts"`
	MaxAttempts      int                `json:"max_attempts"`
	ApprovedBy       string             `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time         `json:"approved_at,omitempty"`
	RejectedBy       string             `json:"rejected_by,omitempty"`
	RejectedAt       *time.Time         `json:"rejected_at,omitempty"`
	DecisionNotes    string             `json:"decision_notes,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func toResponse(tx *transaction.Transaction) adminTransactionResponse {
	return adminTransactionResponse{
		ID:               tx.ID,
		AccountID:        tx.AccountID,
		Type:             tx.Type,
		Amount:           tx.Amount,
		Description:      tx.Description,
		Status:           tx.Status,
		Stage:            tx.Stage,
		RecipientAccount: tx.RecipientAccount,
		RecipientName:    tx.RecipientName,
		RecipientBank:    tx.RecipientBank,
		SenderAccount:    tx.SenderAccount,
		Codes: codesResponse{
			OTP:      tx.Codes.OTP,
			COT:      tx.Codes.COT,
			TokenKey: tx.Codes.TokenKey,
			TwoFA:    tx.Codes.TwoFA,
		},
		Attempts:      tx.Attempts,
		MaxAttempts:   tx.MaxAttempts,
		ApprovedBy:    tx.ApprovedBy,
		ApprovedAt:    tx.ApprovedAt,
		RejectedBy:    tx.RejectedBy,
		RejectedAt:    tx.RejectedAt,
		DecisionNotes: tx.DecisionNotes,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []adminTransactionResponse {
	resp := make([]adminTransactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
