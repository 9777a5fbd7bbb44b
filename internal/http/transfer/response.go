package transfer

import (
	"time"

	"github.com/usbankcorp/bankd/internal/transaction"
)

// transferResponse is the customer-facing projection of a ledger record.
// Verification codes are never included here; they reach the customer
// out-of-band through an administrator.
type transferResponse struct {
	ID                string             `json:"id"`
	Type              transaction.Type   `json:"type"`
	Amount            int64              `json:"amount"`
	Description       string             `json:"description"`
	Status            transaction.Status `json:"status"`
	Stage             transaction.Stage  `json:"stage"`
	RecipientAccount  string             `json:"recipient_account,omitempty"`
	RecipientName     string             `json:"recipient_name,omitempty"`
	RecipientBank     string             `json:"recipient_bank,omitempty"`
	SenderAccount     string             `json:"sender_account,omitempty"`
	AttemptsRemaining int                `json:"attempts_remaining"`
	RequiresApproval  bool               `json:"requires_approval"`
	Date              time.Time          `json:"date"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func toResponse(tx *transaction.Transaction) transferResponse {
	return transferResponse{
		ID:                tx.ID,
		Type:              tx.Type,
		Amount:            tx.Amount,
		Description:       tx.Description,
		Status:            tx.Status,
		Stage:             tx.Stage,
		RecipientAccount:  tx.RecipientAccount,
		RecipientName:     tx.RecipientName,
		RecipientBank:     tx.RecipientBank,
		SenderAccount:     tx.SenderAccount,
		AttemptsRemaining: tx.AttemptsRemaining(),
		RequiresApproval:  tx.RequiresApproval,
		Date:              tx.Date,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transferResponse {
	resp := make([]transferResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
