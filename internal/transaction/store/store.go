package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/usbankcorp/bankd/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	id, account_id, type, amount, description, date, balance, status, stage,
	recipient_account, recipient_name, recipient_bank, sender_account,
	requires_approval, otp_code, cot_code, token_code, twofa_code,
	attempts, max_attempts,
	approved_by, approved_at, rejected_by, rejected_at, decision_notes,
	created_at, updated_at
`

// scanTransaction reads one ledger row in selectColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr, statusStr, stageStr string

	var recipientAccount, recipientName, recipientBank, senderAccount sql.NullString

	var otp, cot, token, twofa sql.NullString

	var approvedBy, rejectedBy, notes sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.AccountID, &typeStr, &tx.Amount, &tx.Description, &tx.Date, &tx.Balance,
		&statusStr, &stageStr,
		&recipientAccount, &recipientName, &recipientBank, &senderAccount,
		&tx.RequiresApproval, &otp, &cot, &token, &twofa,
		&tx.Attempts, &tx.MaxAttempts,
		&approvedBy, &tx.ApprovedAt, &rejectedBy, &tx.RejectedAt, &notes,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Status = transaction.Status(statusStr)
	tx.Stage = transaction.Stage(stageStr)
	tx.RecipientAccount = recipientAccount.String
	tx.RecipientName = recipientName.String
	tx.RecipientBank = recipientBank.String
	tx.SenderAccount = senderAccount.String
	tx.Codes = transaction.Codes{
		OTP:      otp.String,
		COT:      cot.String,
		TokenKey: token.String,
		TwoFA:    twofa.String,
	}
	tx.ApprovedBy = approvedBy.String
	tx.RejectedBy = rejectedBy.String
	tx.DecisionNotes = notes.String

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, account_id, type, amount, description, date, balance, status, stage,
			recipient_account, recipient_name, recipient_bank, sender_account,
			requires_approval, otp_code, cot_code, token_code, twofa_code,
			attempts, max_attempts, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			NULLIF($15, ''), NULLIF($16, ''), NULLIF($17, ''), NULLIF($18, ''),
			$19, $20, $21, $22)
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID, tx.AccountID, tx.Type, tx.Amount, tx.Description, tx.Date, tx.Balance,
		tx.Status, tx.Stage,
		tx.RecipientAccount, tx.RecipientName, tx.RecipientBank, tx.SenderAccount,
		tx.RequiresApproval,
		tx.Codes.OTP, tx.Codes.COT, tx.Codes.TokenKey, tx.Codes.TwoFA,
		tx.Attempts, tx.MaxAttempts, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET status = $1, stage = $2,
			otp_code = NULLIF($3, ''), cot_code = NULLIF($4, ''),
			token_code = NULLIF($5, ''), twofa_code = NULLIF($6, ''),
			attempts = $7,
			approved_by = NULLIF($8, ''), approved_at = $9,
			rejected_by = NULLIF($10, ''), rejected_at = $11,
			decision_notes = NULLIF($12, ''),
			updated_at = $13
		WHERE id = $14
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Status, tx.Stage,
		tx.Codes.OTP, tx.Codes.COT, tx.Codes.TokenKey, tx.Codes.TwoFA,
		tx.Attempts,
		tx.ApprovedBy, tx.ApprovedAt, tx.RejectedBy, tx.RejectedAt,
		tx.DecisionNotes,
		tx.UpdatedAt,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if affected == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}
