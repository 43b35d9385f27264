package services

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

var seedCategories = []string{
	"Food", "Transport", "Housing", "Entertainment", "Health", "Shopping",
}

// SeedService fills the local store with generated sample data. Records go
// through the RecordService like user input would, so they queue for sync
// the same way.
type SeedService interface {
	// SeedTransactions inserts n generated transactions spread over the
	// last 90 days and returns how many were created.
	SeedTransactions(ctx context.Context, userID int64, n int) (int, error)
}

type seedService struct {
	records RecordService
	faker   *gofakeit.Faker
}

// NewSeedService constructs a SeedService writing through records.
func NewSeedService(records RecordService) SeedService {
	return &seedService{records: records, faker: gofakeit.New(0)}
}

func (s *seedService) SeedTransactions(ctx context.Context, userID int64, n int) (int, error) {
	created := 0
	for i := 0; i < n; i++ {
		t := s.randomTransaction()
		if _, err := s.records.AddTransaction(ctx, userID, t); err != nil {
			return created, fmt.Errorf("failed to seed transaction %d: %w", i+1, err)
		}
		created++
	}
	return created, nil
}

func (s *seedService) randomTransaction() *models.Transaction {
	kind := models.TransactionTypeExpense
	category := seedCategories[s.faker.Number(0, len(seedCategories)-1)]
	amount := decimal.NewFromFloat(s.faker.Price(1, 200)).Round(2)

	// Roughly one record in five is income.
	if s.faker.Number(1, 5) == 1 {
		kind = models.TransactionTypeIncome
		category = "Salary"
		amount = decimal.NewFromFloat(s.faker.Price(500, 3000)).Round(2)
	}

	day := time.Duration(s.faker.Number(0, 89)) * 24 * time.Hour
	date := models.Today().Add(-day)

	return &models.Transaction{
		Amount:          amount,
		Description:     s.faker.ProductName(),
		Type:            kind,
		Category:        category,
		TransactionDate: date,
	}
}
