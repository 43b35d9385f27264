package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/fintrack/internal/logging"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/services"
)

// UserService is the slice of the user service the handlers need.
type UserService interface {
	TokenVerifier
	Register(ctx context.Context, name, email string, dateOfBirth time.Time, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// TransactionService is the slice of the transaction service the handlers need.
type TransactionService interface {
	Create(ctx context.Context, t *models.Transaction) (int64, error)
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, userID, id int64) error
	GetAll(ctx context.Context, userID int64) ([]models.Transaction, error)
	GetByMonth(ctx context.Context, userID int64, month, year int) ([]models.Transaction, error)
}

// GoalService is the slice of the goal service the handlers need.
type GoalService interface {
	Create(ctx context.Context, g *models.Goal) (int64, error)
	Update(ctx context.Context, g *models.Goal) error
	Delete(ctx context.Context, userID, id int64) error
	GetAll(ctx context.Context, userID int64) ([]models.Goal, error)
	GetByMonthYear(ctx context.Context, userID int64, month, year int) (*models.Goal, error)
}

// ReportService is the slice of the report service the handlers need.
type ReportService interface {
	Monthly(ctx context.Context, userID int64, month, year int) (*services.MonthlyReport, error)
	Yearly(ctx context.Context, userID int64, year int) (*services.YearlyReport, error)
}

// Handlers binds the services to the REST routes.
type Handlers struct {
	users        UserService
	transactions TransactionService
	goals        GoalService
	reports      ReportService
	tokenTTL     time.Duration
	logger       logging.Logger
}

func NewHandlers(users UserService, transactions TransactionService, goals GoalService,
	reports ReportService, tokenTTL time.Duration, logger logging.Logger) *Handlers {
	return &Handlers{
		users:        users,
		transactions: transactions,
		goals:        goals,
		reports:      reports,
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// Router builds the route table. /health and /auth/{register,login} are
// public; everything else requires a bearer token.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.loggingMiddleware)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(authMiddleware(h.users))

	protected.HandleFunc("/auth/profile", h.profile).Methods(http.MethodGet)

	protected.HandleFunc("/transactions", h.listTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/transactions", h.createTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/month/{month}/{year}", h.listTransactionsByMonth).Methods(http.MethodGet)
	protected.HandleFunc("/transactions/{id}", h.updateTransaction).Methods(http.MethodPut)
	protected.HandleFunc("/transactions/{id}", h.deleteTransaction).Methods(http.MethodDelete)

	protected.HandleFunc("/goals", h.listGoals).Methods(http.MethodGet)
	protected.HandleFunc("/goals", h.createGoal).Methods(http.MethodPost)
	protected.HandleFunc("/goals/{month}/{year}", h.getGoalByMonth).Methods(http.MethodGet)
	protected.HandleFunc("/goals/{id}", h.updateGoal).Methods(http.MethodPut)
	protected.HandleFunc("/goals/{id}", h.deleteGoal).Methods(http.MethodDelete)

	protected.HandleFunc("/reports", h.monthlyReport).Methods(http.MethodGet)
	protected.HandleFunc("/reports/yearly", h.yearlyReport).Methods(http.MethodGet)

	return r
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}
