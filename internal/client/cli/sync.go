package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Sync runs one push+pull cycle against the server and prints the outcome.
// Per-entry failures stay queued and are retried on the next sync.
func (a *App) Sync(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	a.syncing.Store(true)
	defer a.syncing.Store(false)

	report, err := a.syncer.Sync(ctx, a.userID)
	if err != nil {
		if report != nil {
			printlnFn("Sync incomplete:", report.Summary())
		}
		return err
	}

	printlnFn("Sync finished:", report.Summary())
	return nil
}

// Seed inserts generated sample transactions through the normal record
// path, so they queue for sync like user input.
func (a *App) Seed(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	n, err := GetInt(a.reader, "How many transactions to generate", os.Stdout)
	if err != nil {
		return err
	}

	created, err := a.seeder.SeedTransactions(ctx, a.userID, int(n))
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Seeded %d transactions", created))
	return nil
}

// Clear wipes all local data for the current user after confirmation and
// logs out. This is a destructive reset: pending intents are dropped, not
// pushed.
func (a *App) Clear(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, "Wipe ALL local data for this user? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if strings.ToLower(answer) != "yes" {
		printlnFn("Aborted")
		return nil
	}

	if err := a.records.ClearLocalData(ctx, a.userID); err != nil {
		return err
	}
	printlnFn("Local data cleared")

	// The cached session points at data that no longer exists locally.
	return a.Logout(ctx)
}
