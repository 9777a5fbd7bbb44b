package transfer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/usbankcorp/bankd/internal/account"
	"github.com/usbankcorp/bankd/internal/auth"
	"github.com/usbankcorp/bankd/internal/transaction"
)

var (
	transfersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bankd",
		Name:      "transfers_created_total",
		Help:      "Total number of transfer requests created.",
	})

	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankd",
		Name:      "verification_submissions_total",
		Help:      "Verification code submissions by stage and result.",
	}, []string{"stage", "result"})
)

type Handler struct {
	svc       *transaction.Service
	directory *account.Directory
}

func NewHandler(svc *transaction.Service, directory *account.Directory) *Handler {
	return &Handler{svc: svc, directory: directory}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/awaiting-verification", h.awaitingVerification)
	r.Post("/{id}/verify", h.verify)
}

type createTransferRequest struct {
	Amount           int64  `json:"amount"`
	Description      string `json:"description"`
	RecipientAccount string `json:"recipient_account"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	beneficiary, err := h.directory.Resolve(r.Context(), req.RecipientAccount)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			http.Error(w, "recipient account could not be resolved", http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		AccountID:        identity.ID,
		Amount:           req.Amount,
		Description:      req.Description,
		RecipientAccount: beneficiary.AccountNumber,
		RecipientName:    beneficiary.AccountName,
		RecipientBank:    beneficiary.BankName,
		SenderAccount:    identity.AccountNumber,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	transfersCreatedTotal.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	filter := transaction.ListFilter{AccountID: &identity.ID}

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

func (h *Handler) awaitingVerification(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	txs, err := h.svc.ListAwaitingVerification(r.Context(), identity.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type verifyRequest struct {
	Stage transaction.Stage `json:"stage"`
	Code  string            `json:"code"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id := chi.URLParam(r, "id")

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	// Customers can only verify their own transfers.
	existing, err := h.svc.Get(r.Context(), id)
	if err != nil || existing.AccountID != identity.ID {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	tx, err := h.svc.SubmitCode(r.Context(), id, req.Stage, req.Code)
	if err != nil {
		verificationsTotal.WithLabelValues(string(req.Stage), "failure").Inc()

		switch {
		case errors.Is(err, transaction.ErrNotFound):
			http.Error(w, "transaction not found", http.StatusNotFound)
		case errors.Is(err, transaction.ErrInvalidState):
			http.Error(w, "transaction is not at this verification stage", http.StatusConflict)
		case errors.Is(err, transaction.ErrAttemptsExceeded):
			http.Error(w, "verification attempts exceeded", http.StatusLocked)
		case errors.Is(err, transaction.ErrCodeMismatch):
			http.Error(w, "verification code mismatch", http.StatusUnprocessableEntity)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	verificationsTotal.WithLabelValues(string(req.Stage), "success").Inc()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
