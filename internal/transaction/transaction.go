package transaction

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no transaction exists for the given id.
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalidState is returned when an operation is attempted outside the
	// status or stage it requires, including any mutation of a terminal record.
	ErrInvalidState = errors.New("transaction not in required state")
	// ErrCodeMismatch is returned when a submitted verification code does not
	// equal the issued code for the current stage.
	ErrCodeMismatch = errors.New("verification code mismatch")
	// ErrAttemptsExceeded is returned on submission after the attempt ceiling
	// is reached, when lockout enforcement is enabled.
	ErrAttemptsExceeded = errors.New("verification attempts exceeded")
)

// Type represents the kind of ledger entry.
type Type string

const (
	TypeCredit   Type = "credit"
	TypeDebit    Type = "debit"
	TypeTransfer Type = "transfer"
)

// Status is the coarse lifecycle state shown to the customer.
type Status string

const (
	StatusPending              Status = "pending"
	StatusProcessing           Status = "processing"
	StatusProcessed            Status = "processed"
	StatusWaitingAdminApproval Status = "waiting_admin_approval"
	StatusCompleted            Status = "completed"
	StatusFailed               Status = "failed"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Stage is the verification cursor driving which code-entry step comes next.
type Stage string

const (
	StageOTP       Stage = "otp"
	StageCOT       Stage = "cot"
	StageToken     Stage = "token"
	Stage2FA       Stage = "2fa"
	StageAdmin     Stage = "admin"
	StageCompleted Stage = "completed"
)

// Codes holds the verification codes issued so far, at most one per stage.
// A code for a stage exists iff the record has reached that stage.
type Codes struct {
	OTP      string
	COT      string
	TokenKey string
	TwoFA    string
}

// ForStage returns the issued code for the given stage, or "" if none exists.
func (c Codes) ForStage(stage Stage) string {
	switch stage {
	case StageOTP:
		return c.OTP
	case StageCOT:
		return c.COT
	case StageToken:
		return c.TokenKey
	case Stage2FA:
		return c.TwoFA
	}

	return ""
}

func (c *Codes) set(stage Stage, code string) {
	switch stage {
	case StageOTP:
		c.OTP = code
	case StageCOT:
		c.COT = code
	case StageToken:
		c.TokenKey = code
	case Stage2FA:
		c.TwoFA = code
	}
}

// Transaction represents one funds-transfer request in the ledger.
type Transaction struct {
	ID          string // 12-digit decimal string
	AccountID   string
	Type        Type
	Amount      int64 // Amount in cents
	Description string
	Date        time.Time
	Balance     int64 // Display artifact, not a real deduction

	Status Status
	Stage  Stage

	RecipientAccount string
	RecipientName    string
	RecipientBank    string
	SenderAccount    string

	RequiresApproval bool
	Codes            Codes
	Attempts         int
	MaxAttempts      int

	ApprovedBy    string
	ApprovedAt    *time.Time
	RejectedBy    string
	RejectedAt    *time.Time
	DecisionNotes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the record reached completed or failed.
func (t *Transaction) Terminal() bool {
	return t.Status.Terminal()
}

// AttemptsRemaining is a display projection; it goes negative only when
// lockout enforcement is disabled.
func (t *Transaction) AttemptsRemaining() int {
	return t.MaxAttempts - t.Attempts
}

// advance describes the effect of a correct code submission at a stage.
// A zero status leaves the status untouched; a zero issue stage means the
// step issues no further code.
type advance struct {
	status Status
	stage  Stage
	issue  Stage
}

// transitions is the single source of truth for the verification pipeline.
// Status and stage always move together through this table, so the two
// fields never disagree.
var transitions = map[Stage]advance{
	StageOTP:   {status: StatusProcessing, stage: StageCOT, issue: StageCOT},
	StageCOT:   {status: StatusProcessed, stage: StageToken, issue: StageToken},
	StageToken: {status: StatusWaitingAdminApproval, stage: Stage2FA, issue: Stage2FA},
	Stage2FA:   {stage: StageAdmin},
}
