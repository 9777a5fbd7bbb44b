package transaction_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/usbankcorp/bankd/internal/transaction"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m *transaction.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: transaction.CreateParams{
				AccountID:        "1",
				Amount:           50000,
				Description:      "Rent",
				RecipientAccount: "1111222233",
				RecipientName:    "Michael Johnson",
				RecipientBank:    "JPMorgan Chase Bank",
				SenderAccount:    "1234567890",
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), gomock.Any()).
					Return(nil, transaction.ErrNotFound)
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:   "RepoError",
			params: transaction.CreateParams{AccountID: "1", Amount: 500},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), gomock.Any()).
					Return(nil, transaction.ErrNotFound)
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Regexp(t, regexp.MustCompile(`^\d{12}$`), got.ID)
			assert.Equal(t, transaction.StatusPending, got.Status)
			assert.Equal(t, transaction.StageOTP, got.Stage)
			assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), got.Codes.OTP)
			assert.Empty(t, got.Codes.COT)
			assert.Empty(t, got.Codes.TokenKey)
			assert.Empty(t, got.Codes.TwoFA)
			assert.Zero(t, got.Attempts)
			assert.Equal(t, 3, got.MaxAttempts)
			assert.True(t, got.RequiresApproval)
			assert.Equal(t, transaction.TypeTransfer, got.Type)
		})
	}
}

func TestService_Create_RetriesOnIDCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	taken := &transaction.Transaction{ID: "111111111111"}

	gomock.InOrder(
		repo.EXPECT().GetTransaction(gomock.Any(), gomock.Any()).Return(taken, nil),
		repo.EXPECT().GetTransaction(gomock.Any(), gomock.Any()).Return(nil, transaction.ErrNotFound),
		repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil),
	)

	got, err := svc.Create(context.Background(), transaction.CreateParams{AccountID: "1", Amount: 1000})
	require.NoError(t, err)
	assert.NotEqual(t, taken.ID, got.ID)
}

func TestService_SubmitCode_WrongStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	repo.EXPECT().
		GetTransaction(gomock.Any(), "123456789012").
		Return(&transaction.Transaction{
			ID:     "123456789012",
			Status: transaction.StatusPending,
			Stage:  transaction.StageOTP,
			Codes:  transaction.Codes{OTP: "123456"},
		}, nil)

	// No UpdateTransaction expected: a wrong-stage submission must not touch
	// the record, not even the attempt counter.
	got, err := svc.SubmitCode(context.Background(), "123456789012", transaction.StageCOT, "COT123456")
	assert.ErrorIs(t, err, transaction.ErrInvalidState)
	assert.Nil(t, got)
}

func TestService_SubmitCode_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	repo.EXPECT().
		GetTransaction(gomock.Any(), "999999999999").
		Return(nil, transaction.ErrNotFound)

	_, err := svc.SubmitCode(context.Background(), "999999999999", transaction.StageOTP, "123456")
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_Approve_RequiresWaitingStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	repo.EXPECT().
		GetTransaction(gomock.Any(), "123456789012").
		Return(&transaction.Transaction{
			ID:     "123456789012",
			Status: transaction.StatusProcessing,
			Stage:  transaction.StageCOT,
		}, nil)

	_, err := svc.Approve(context.Background(), "123456789012", "admin1", "")
	assert.ErrorIs(t, err, transaction.ErrInvalidState)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	filter := transaction.ListFilter{}

	repo.EXPECT().
		ListTransactions(gomock.Any(), filter).
		Return([]*transaction.Transaction{
			{ID: "111111111111"},
			{ID: "222222222222"},
		}, nil)

	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
