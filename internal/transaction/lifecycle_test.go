package transaction_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usbankcorp/bankd/internal/transaction"
	"github.com/usbankcorp/bankd/internal/transaction/inmem"
)

func newLedgerService(t *testing.T, opts ...transaction.Option) *transaction.Service {
	t.Helper()

	return transaction.NewService(inmem.New(), opts...)
}

func createTransfer(t *testing.T, svc *transaction.Service, amount int64) *transaction.Transaction {
	t.Helper()

	tx, err := svc.Create(context.Background(), transaction.CreateParams{
		AccountID:        "1",
		Amount:           amount,
		Description:      "Transfer to Michael Johnson",
		RecipientAccount: "1111222233",
		RecipientName:    "Michael Johnson",
		RecipientBank:    "JPMorgan Chase Bank",
		SenderAccount:    "1234567890",
	})
	require.NoError(t, err)

	return tx
}

// submitCurrent reads the code issued for the record's current stage and
// submits it, advancing the record one step.
func submitCurrent(t *testing.T, svc *transaction.Service, id string) *transaction.Transaction {
	t.Helper()

	ctx := context.Background()

	tx, err := svc.Get(ctx, id)
	require.NoError(t, err)

	code := tx.Codes.ForStage(tx.Stage)
	require.NotEmpty(t, code)

	tx, err = svc.SubmitCode(ctx, id, tx.Stage, code)
	require.NoError(t, err)

	return tx
}

// advanceToAdmin walks a fresh record through all four code stages.
func advanceToAdmin(t *testing.T, svc *transaction.Service, id string) *transaction.Transaction {
	t.Helper()

	var tx *transaction.Transaction
	for range 4 {
		tx = submitCurrent(t, svc, id)
	}

	require.Equal(t, transaction.StageAdmin, tx.Stage)

	return tx
}

func TestService_FullVerificationFlow(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService(t)

	tx := createTransfer(t, svc, 50000)
	assert.Equal(t, transaction.StatusPending, tx.Status)
	assert.Equal(t, transaction.StageOTP, tx.Stage)
	assert.NotEmpty(t, tx.Codes.OTP)

	// Correct OTP moves the record on and issues the COT code.
	tx = submitCurrent(t, svc, tx.ID)
	assert.Equal(t, transaction.StatusProcessing, tx.Status)
	assert.Equal(t, transaction.StageCOT, tx.Stage)
	assert.NotEmpty(t, tx.Codes.COT)

	// One wrong COT: counter moves, state does not.
	_, err := svc.SubmitCode(ctx, tx.ID, transaction.StageCOT, "COT000000")
	assert.ErrorIs(t, err, transaction.ErrCodeMismatch)

	tx, err = svc.Get(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tx.Attempts)
	assert.Equal(t, transaction.StatusProcessing, tx.Status)
	assert.Equal(t, transaction.StageCOT, tx.Stage)

	// Correct COT.
	tx = submitCurrent(t, svc, tx.ID)
	assert.Equal(t, transaction.StatusProcessed, tx.Status)
	assert.Equal(t, transaction.StageToken, tx.Stage)
	assert.NotEmpty(t, tx.Codes.TokenKey)

	// Correct token key parks the record for the administrator and issues
	// the final 2FA code.
	tx = submitCurrent(t, svc, tx.ID)
	assert.Equal(t, transaction.StatusWaitingAdminApproval, tx.Status)
	assert.Equal(t, transaction.Stage2FA, tx.Stage)
	assert.NotEmpty(t, tx.Codes.TwoFA)

	// Correct 2FA advances the stage only. The status stays put until the
	// administrator decides.
	tx = submitCurrent(t, svc, tx.ID)
	assert.Equal(t, transaction.StatusWaitingAdminApproval, tx.Status)
	assert.Equal(t, transaction.StageAdmin, tx.Stage)

	// Approval completes the record.
	tx, err = svc.Approve(ctx, tx.ID, "admin1", "ok")
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusCompleted, tx.Status)
	assert.Equal(t, transaction.StageCompleted, tx.Stage)
	assert.Equal(t, "admin1", tx.ApprovedBy)
	assert.NotNil(t, tx.ApprovedAt)
	assert.Equal(t, "ok", tx.DecisionNotes)
	assert.True(t, tx.Terminal())
}

func TestService_WrongCodeNeverAdvances(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService(t)

	tx := createTransfer(t, svc, 1000)

	for i := 1; i <= 5; i++ {
		_, err := svc.SubmitCode(ctx, tx.ID, transaction.StageOTP, "000000")
		assert.ErrorIs(t, err, transaction.ErrCodeMismatch)

		got, err := svc.Get(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, i, got.Attempts)
		assert.Equal(t, transaction.StatusPending, got.Status)
		assert.Equal(t, transaction.StageOTP, got.Stage)
	}

	// Without lockout the counter passing the ceiling is advisory only. The
	// correct code still goes through.
	got := submitCurrent(t, svc, tx.ID)
	assert.Equal(t, transaction.StageCOT, got.Stage)
}

func TestService_LockoutEnforced(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService(t, transaction.WithLockout())

	tx := createTransfer(t, svc, 1000)

	for range 3 {
		_, err := svc.SubmitCode(ctx, tx.ID, transaction.StageOTP, "000000")
		assert.ErrorIs(t, err, transaction.ErrCodeMismatch)
	}

	// Ceiling hit. Even the correct code is refused now.
	got, err := svc.Get(ctx, tx.ID)
	require.NoError(t, err)

	_, err = svc.SubmitCode(ctx, tx.ID, transaction.StageOTP, got.Codes.OTP)
	assert.ErrorIs(t, err, transaction.ErrAttemptsExceeded)

	got, err = svc.Get(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Attempts)
}

func TestService_RejectMarksTerminal(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService(t)

	tx := createTransfer(t, svc, 2500)
	advanceToAdmin(t, svc, tx.ID)

	tx, err := svc.Reject(ctx, tx.ID, "admin1", "suspicious recipient")
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusFailed, tx.Status)
	assert.Equal(t, transaction.StageCompleted, tx.Stage)
	assert.Equal(t, "admin1", tx.RejectedBy)
	assert.NotNil(t, tx.RejectedAt)
	assert.True(t, tx.Terminal())
}

func TestService_TerminalRecordsAreSinks(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService(t)

	tx := createTransfer(t, svc, 2500)
	advanceToAdmin(t, svc, tx.ID)

	_, err := svc.Approve(ctx, tx.ID, "admin1", "")
	require.NoError(t, err)

	_, err = svc.SubmitCode(ctx, tx.ID, transaction.StageOTP, "123456")
	assert.ErrorIs(t, err, transaction.ErrInvalidState)

	_, err = svc.Approve(ctx, tx.ID, "admin1", "")
	assert.ErrorIs(t, err, transaction.ErrInvalidState)

	_, err = svc.Reject(ctx, tx.ID, "admin1", "")
	assert.ErrorIs(t, err, transaction.ErrInvalidState)
}

func TestService_ApprovalRequiresAllStages(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService(t)

	tx := createTransfer(t, svc, 2500)

	// Fresh record, still at otp: not the administrator's yet.
	_, err := svc.Approve(ctx, tx.ID, "admin1", "")
	assert.ErrorIs(t, err, transaction.ErrInvalidState)

	submitCurrent(t, svc, tx.ID)
	_, err = svc.Reject(ctx, tx.ID, "admin1", "")
	assert.ErrorIs(t, err, transaction.ErrInvalidState)
}

func TestService_BulkApprove(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService(t)

	ready1 := createTransfer(t, svc, 1000)
	advanceToAdmin(t, svc, ready1.ID)

	ready2 := createTransfer(t, svc, 2000)
	advanceToAdmin(t, svc, ready2.ID)

	fresh := createTransfer(t, svc, 3000)

	count, err := svc.BulkApprove(ctx, []string{ready1.ID, "999999999999", fresh.ID, ready2.ID}, "admin1", "batch")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, id := range []string{ready1.ID, ready2.ID} {
		got, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusCompleted, got.Status)
		assert.Equal(t, "admin1", got.ApprovedBy)
	}

	got, err := svc.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusPending, got.Status)
}

func TestService_ListAwaitingVerification(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService(t)

	waiting := createTransfer(t, svc, 1000)

	parked := createTransfer(t, svc, 2000)
	advanceToAdmin(t, svc, parked.ID)

	done := createTransfer(t, svc, 3000)
	advanceToAdmin(t, svc, done.ID)
	_, err := svc.Approve(ctx, done.ID, "admin1", "")
	require.NoError(t, err)

	got, err := svc.ListAwaitingVerification(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, waiting.ID, got[0].ID)

	got, err = svc.ListAwaitingVerification(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, got)
}
