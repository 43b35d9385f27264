package httpapi

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

// dateLayout is the calendar-date format used on the wire.
const dateLayout = "2006-01-02"

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"date_of_birth"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn string       `json:"expiresIn"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type transactionRequest struct {
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description"`
	Type            models.TransactionType `json:"type"`
	Category        string                 `json:"category"`
	TransactionDate string                 `json:"transaction_date"`
}

type transactionResponse struct {
	ID              int64                  `json:"id"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description"`
	Type            models.TransactionType `json:"type"`
	Category        string                 `json:"category"`
	TransactionDate string                 `json:"transaction_date"`
	DateCreated     time.Time              `json:"date_created"`
}

type goalRequest struct {
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetMonth  int             `json:"target_month"`
	TargetYear   int             `json:"target_year"`
}

type goalResponse struct {
	ID           int64           `json:"id"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetMonth  int             `json:"target_month"`
	TargetYear   int             `json:"target_year"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toTransactionResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		Amount:          t.Amount,
		Description:     t.Description,
		Type:            t.Type,
		Category:        t.Category,
		TransactionDate: t.TransactionDate.Format(dateLayout),
		DateCreated:     t.DateCreated,
	}
}

func toGoalResponse(g models.Goal) goalResponse {
	return goalResponse{
		ID:           g.ID,
		TargetAmount: g.TargetAmount,
		TargetMonth:  g.TargetMonth,
		TargetYear:   g.TargetYear,
		CreatedAt:    g.CreatedAt,
	}
}

// formatExpiresIn renders the token lifetime the way clients display it,
// in whole days when possible.
func formatExpiresIn(ttl time.Duration) string {
	if days := int(ttl.Hours() / 24); days > 0 && time.Duration(days)*24*time.Hour == ttl {
		return fmt.Sprintf("%dd", days)
	}
	return ttl.String()
}
