package inmem

import (
	"time"

	"github.com/usbankcorp/bankd/internal/transaction"
)

// SeedDemo loads the historical demo ledger: completed credits and debits
// that never went through the verification pipeline.
func SeedDemo(s *Store) {
	s.Seed(
		&transaction.Transaction{
			ID:          "123456789012",
			AccountID:   "1",
			Type:        transaction.TypeCredit,
			Amount:      250_000,
			Description: "Salary Deposit",
			Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Balance:     701_667_289_202,
			Status:      transaction.StatusCompleted,
			Stage:       transaction.StageCompleted,
			CreatedAt:   time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 15, 9, 0, 30, 0, time.UTC),
		},
		&transaction.Transaction{
			ID:          "234567890123",
			AccountID:   "1",
			Type:        transaction.TypeDebit,
			Amount:      15_000,
			Description: "Grocery Store",
			Date:        time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
			Balance:     701_667_039_202,
			Status:      transaction.StatusCompleted,
			Stage:       transaction.StageCompleted,
			CreatedAt:   time.Date(2024, 1, 14, 14, 30, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 14, 14, 30, 15, 0, time.UTC),
		},
		&transaction.Transaction{
			ID:          "345678901234",
			AccountID:   "2",
			Type:        transaction.TypeCredit,
			Amount:      150_000,
			Description: "Freelance Payment",
			Date:        time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC),
			Balance:     1_275_025,
			Status:      transaction.StatusCompleted,
			Stage:       transaction.StageCompleted,
			CreatedAt:   time.Date(2024, 1, 13, 16, 20, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 13, 16, 20, 15, 0, time.UTC),
		},
		&transaction.Transaction{
			ID:          "456789012345",
			AccountID:   "2",
			Type:        transaction.TypeDebit,
			Amount:      20_000,
			Description: "Online Shopping",
			Date:        time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			Balance:     1_125_025,
			Status:      transaction.StatusCompleted,
			Stage:       transaction.StageCompleted,
			CreatedAt:   time.Date(2024, 1, 12, 11, 45, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 12, 11, 45, 20, 0, time.UTC),
		},
	)
}
