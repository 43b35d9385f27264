package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
)

// SetGoal creates or replaces the savings goal for a month. The store allows
// one goal per month; setting a month that already has one updates it.
func (a *App) SetGoal(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	month, err := GetInt(a.reader, "Target month (1-12)", os.Stdout)
	if err != nil {
		return err
	}
	year, err := GetInt(a.reader, "Target year", os.Stdout)
	if err != nil {
		return err
	}
	rawAmount, err := getSimpleText(a.reader, "Target amount", os.Stdout)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return fmt.Errorf("%w: amount %q is not a number", common.ErrValidation, rawAmount)
	}

	g := &models.Goal{
		TargetAmount: amount,
		TargetMonth:  int(month),
		TargetYear:   int(year),
	}

	existing, err := a.records.GetGoalByMonth(ctx, a.userID, int(month), int(year))
	switch {
	case err == nil:
		g.ID = existing.ID
		if err := a.records.UpdateGoal(ctx, a.userID, g); err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("Updated goal for %d/%d", month, year))
	case errors.Is(err, common.ErrNotFound):
		id, err := a.records.AddGoal(ctx, a.userID, g)
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("Set goal #%d for %d/%d", id, month, year))
	default:
		return err
	}
	return nil
}

// ListGoals prints the user's goals, newest month first.
func (a *App) ListGoals(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	goals, err := a.records.ListGoals(ctx, a.userID)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		printlnFn("No goals yet")
		return nil
	}

	for i := range goals {
		g := &goals[i]
		status := "synced"
		if g.Pending {
			status = "pending"
		}
		printlnFn(fmt.Sprintf("#%d  %02d/%d  target %s  [%s]",
			g.ID, g.TargetMonth, g.TargetYear, g.TargetAmount.StringFixed(2), status))
	}
	return nil
}

// Progress prints goal progress for a month: net income floored at zero
// against the target, if one is set.
func (a *App) Progress(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	month, err := GetInt(a.reader, "Month (1-12)", os.Stdout)
	if err != nil {
		return err
	}
	year, err := GetInt(a.reader, "Year", os.Stdout)
	if err != nil {
		return err
	}

	sum, err := a.progress.MonthSummary(ctx, a.userID, int(month), int(year))
	if err != nil {
		return err
	}

	if sum.HasGoal {
		printlnFn(fmt.Sprintf("Progress for %02d/%d: %s of %s",
			month, year, sum.Progress.StringFixed(2), sum.GoalTarget.StringFixed(2)))
	} else {
		printlnFn(fmt.Sprintf("Progress for %02d/%d: %s (no goal set)",
			month, year, sum.Progress.StringFixed(2)))
	}
	return nil
}

// Summary prints the monthly dashboard: totals, goal progress, and the
// per-category expense breakdown.
func (a *App) Summary(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	month, err := GetInt(a.reader, "Month (1-12)", os.Stdout)
	if err != nil {
		return err
	}
	year, err := GetInt(a.reader, "Year", os.Stdout)
	if err != nil {
		return err
	}

	sum, err := a.progress.MonthSummary(ctx, a.userID, int(month), int(year))
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Summary for %02d/%d", month, year))
	printlnFn("  income:  ", sum.Income.StringFixed(2))
	printlnFn("  expenses:", sum.Expenses.StringFixed(2))
	printlnFn("  net:     ", sum.Net.StringFixed(2))
	if sum.HasGoal {
		printlnFn(fmt.Sprintf("  goal:     %s of %s",
			sum.Progress.StringFixed(2), sum.GoalTarget.StringFixed(2)))
	}

	breakdown, err := a.progress.CategoryBreakdown(ctx, a.userID, int(month), int(year))
	if err != nil {
		return err
	}
	if len(breakdown) > 0 {
		printlnFn("  by category:")
		for _, c := range breakdown {
			printlnFn(fmt.Sprintf("    %-16s %s", c.Category, c.Total.StringFixed(2)))
		}
	}
	return nil
}
