package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/usbankcorp/bankd/internal/account"
)

type Handler struct {
	directory *account.Directory
}

func NewHandler(directory *account.Directory) *Handler {
	return &Handler{directory: directory}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/lookup", h.lookup)
}

type lookupResponse struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	BankName      string `json:"bank_name"`
}

// lookup resolves a recipient account number so the transfer form can show
// the holder and bank before the customer submits.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("account_number")
	if number == "" {
		http.Error(w, "account_number is required", http.StatusBadRequest)
		return
	}

	beneficiary, err := h.directory.Resolve(r.Context(), number)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			http.Error(w, "account could not be resolved", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := lookupResponse{
		AccountNumber: beneficiary.AccountNumber,
		AccountName:   beneficiary.AccountName,
		BankName:      beneficiary.BankName,
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
