package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error

	// ListTransactions returns matching records ordered by creation time
	// descending.
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
}

const (
	defaultMaxAttempts = 3

	// idRetries bounds the collision-check loop when generating identifiers.
	idRetries = 10
)

type Service struct {
	repo Repository

	maxAttempts    int
	enforceLockout bool
}

type Option func(*Service)

// WithMaxAttempts overrides the attempt ceiling stamped onto new records.
func WithMaxAttempts(n int) Option {
	return func(s *Service) { s.maxAttempts = n }
}

// WithLockout makes the attempt ceiling a hard stop: submissions after the
// ceiling return ErrAttemptsExceeded instead of counting another attempt.
func WithLockout() Option {
	return func(s *Service) { s.enforceLockout = true }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, maxAttempts: defaultMaxAttempts}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	AccountID        string
	Amount           int64
	Description      string
	RecipientAccount string
	RecipientName    string
	RecipientBank    string
	SenderAccount    string
}

type ListFilter struct {
	Status    *Status
	AccountID *string
}

// Create appends a new transfer to the ledger: status pending, stage otp,
// the initial OTP issued, attempt counter zero. Amount validation against the
// customer's balance is the caller's concern.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	id, err := s.uniqueID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx := &Transaction{
		ID:               id,
		AccountID:        params.AccountID,
		Type:             TypeTransfer,
		Amount:           params.Amount,
		Description:      params.Description,
		Date:             now,
		Status:           StatusPending,
		Stage:            StageOTP,
		RecipientAccount: params.RecipientAccount,
		RecipientName:    params.RecipientName,
		RecipientBank:    params.RecipientBank,
		SenderAccount:    params.SenderAccount,
		RequiresApproval: true,
		Codes:            Codes{OTP: newCode(StageOTP)},
		MaxAttempts:      s.maxAttempts,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return tx, nil
}

// uniqueID draws random identifiers until one misses the ledger.
func (s *Service) uniqueID(ctx context.Context) (string, error) {
	for range idRetries {
		id := newID()

		_, err := s.repo.GetTransaction(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return id, nil
		}

		if err != nil {
			return "", fmt.Errorf("checking id collision: %w", err)
		}
	}

	return "", errors.New("exhausted attempts to generate a unique transaction id")
}

// SubmitCode checks the entered code against the code issued for the given
// stage. On a match the record advances one step through the pipeline and the
// next stage's code is issued. On a mismatch only the attempt counter moves.
// The record must currently sit at the submitted stage.
func (s *Service) SubmitCode(ctx context.Context, id string, stage Stage, entered string) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Terminal() || tx.Stage != stage {
		return nil, ErrInvalidState
	}

	expected := tx.Codes.ForStage(stage)
	if expected == "" {
		return nil, ErrInvalidState
	}

	if s.enforceLockout && tx.Attempts >= tx.MaxAttempts {
		return nil, ErrAttemptsExceeded
	}

	now := time.Now().UTC()

	if entered != expected {
		tx.Attempts++
		tx.UpdatedAt = now

		if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("recording failed attempt: %w", err)
		}

		return nil, ErrCodeMismatch
	}

	next := transitions[stage]
	if next.status != "" {
		tx.Status = next.status
	}

	tx.Stage = next.stage
	if next.issue != "" {
		tx.Codes.set(next.issue, newCode(next.issue))
	}

	tx.UpdatedAt = now

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("advancing transaction: %w", err)
	}

	return tx, nil
}

// Approve finalizes a record awaiting the administrator's decision.
func (s *Service) Approve(ctx context.Context, id, adminID, notes string) (*Transaction, error) {
	return s.decide(ctx, id, func(tx *Transaction, now time.Time) {
		tx.Status = StatusCompleted
		tx.Stage = StageCompleted
		tx.ApprovedBy = adminID
		tx.ApprovedAt = &now
		tx.DecisionNotes = notes
	})
}

// Reject fails a record awaiting the administrator's decision. The stage is
// marked terminal as well, keeping it consistent with the status.
func (s *Service) Reject(ctx context.Context, id, adminID, notes string) (*Transaction, error) {
	return s.decide(ctx, id, func(tx *Transaction, now time.Time) {
		tx.Status = StatusFailed
		tx.Stage = StageCompleted
		tx.RejectedBy = adminID
		tx.RejectedAt = &now
		tx.DecisionNotes = notes
	})
}

func (s *Service) decide(ctx context.Context, id string, apply func(*Transaction, time.Time)) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Status != StatusWaitingAdminApproval {
		return nil, ErrInvalidState
	}

	now := time.Now().UTC()
	apply(tx, now)
	tx.UpdatedAt = now

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("recording decision: %w", err)
	}

	return tx, nil
}

// BulkApprove applies Approve independently to each id and returns the count
// of successful approvals. Records that are missing or not awaiting approval
// are skipped; storage failures abort the run.
func (s *Service) BulkApprove(ctx context.Context, ids []string, adminID, notes string) (int, error) {
	approved := 0

	for _, id := range ids {
		_, err := s.Approve(ctx, id, adminID, notes)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidState) {
				continue
			}

			return approved, err
		}

		approved++
	}

	return approved, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ListAwaitingVerification returns the account's records still waiting on a
// customer code entry: a stage is set and it is neither completed nor parked
// at the admin step.
func (s *Service) ListAwaitingVerification(ctx context.Context, accountID string) ([]*Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx, ListFilter{AccountID: &accountID})
	if err != nil {
		return nil, err
	}

	var awaiting []*Transaction

	for _, tx := range txs {
		if tx.Stage == "" || tx.Stage == StageCompleted || tx.Stage == StageAdmin {
			continue
		}

		awaiting = append(awaiting, tx)
	}

	return awaiting, nil
}
