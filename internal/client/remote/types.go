package remote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Session is what a successful login yields.
type Session struct {
	Token     string
	UserID    int64
	Name      string
	Email     string
	ExpiresIn string
}

// Transaction is a transaction row as the server returns it.
type Transaction struct {
	ID              int64                  `json:"id"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description"`
	Type            models.TransactionType `json:"type"`
	Category        string                 `json:"category"`
	TransactionDate string                 `json:"transaction_date"`
	DateCreated     time.Time              `json:"date_created"`
}

// Goal is a goal row as the server returns it.
type Goal struct {
	ID           int64           `json:"id"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetMonth  int             `json:"target_month"`
	TargetYear   int             `json:"target_year"`
	CreatedAt    time.Time       `json:"created_at"`
}

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

type loginUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginData struct {
	User      loginUser `json:"user"`
	Token     string    `json:"token"`
	ExpiresIn string    `json:"expiresIn"`
}

type idData struct {
	ID int64 `json:"id"`
}
