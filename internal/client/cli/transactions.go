package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
)

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return fmt.Errorf("%w: please log in first", common.ErrUnauthorized)
	}
	return nil
}

// promptTransaction collects transaction fields interactively. A blank or
// malformed date falls back to today.
func (a *App) promptTransaction() (*models.Transaction, error) {
	kind, err := getSimpleText(a.reader, "Type (income/expense)", os.Stdout)
	if err != nil {
		return nil, err
	}
	rawAmount, err := getSimpleText(a.reader, "Amount", os.Stdout)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q is not a number", common.ErrValidation, rawAmount)
	}
	description, err := getSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return nil, err
	}
	category, err := getSimpleText(a.reader, "Category", os.Stdout)
	if err != nil {
		return nil, err
	}
	date, err := getSimpleText(a.reader, "Date (YYYY-MM-DD, empty for today)", os.Stdout)
	if err != nil {
		return nil, err
	}

	return &models.Transaction{
		Amount:          amount,
		Description:     description,
		Type:            models.TransactionType(kind),
		Category:        category,
		TransactionDate: models.ParseDate(date),
	}, nil
}

// AddTransaction records a new transaction. The write is local and instant;
// a sync intent is queued for the next sync run.
func (a *App) AddTransaction(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	t, err := a.promptTransaction()
	if err != nil {
		return err
	}

	id, err := a.records.AddTransaction(ctx, a.userID, t)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Added transaction #%d", id))
	return nil
}

// ListTransactions prints the user's transactions, newest first.
func (a *App) ListTransactions(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	rows, err := a.records.ListTransactions(ctx, a.userID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		printlnFn("No transactions yet")
		return nil
	}

	for i := range rows {
		printlnFn(formatTransaction(&rows[i]))
	}
	return nil
}

func formatTransaction(t *models.Transaction) string {
	status := "synced"
	if t.Pending {
		status = "pending"
	}
	sign := "+"
	if t.Type == models.TransactionTypeExpense {
		sign = "-"
	}
	return fmt.Sprintf("#%d  %s  %s%s  %s (%s)  [%s]",
		t.ID, t.TransactionDate.Format(models.DateLayout),
		sign, t.Amount.StringFixed(2), t.Description, t.Category, status)
}

// EditTransaction replaces all fields of an existing transaction and queues
// an update intent carrying the full new payload.
func (a *App) EditTransaction(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := GetInt(a.reader, "Transaction id to edit", os.Stdout)
	if err != nil {
		return err
	}

	t, err := a.promptTransaction()
	if err != nil {
		return err
	}
	t.ID = id

	if err := a.records.UpdateTransaction(ctx, a.userID, t); err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Updated transaction #%d", id))
	return nil
}

// DeleteTransaction removes a transaction locally. If the record was ever
// synced, a delete intent survives until pushed.
func (a *App) DeleteTransaction(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := GetInt(a.reader, "Transaction id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.records.DeleteTransaction(ctx, a.userID, id); err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Deleted transaction #%d", id))
	return nil
}
