package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details and attempts to create a new account
// on the server. Registration requires connectivity.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	dob, err := getSimpleText(a.reader, "Enter date of birth (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, name, email, string(password), models.ParseDate(dob)); err != nil {
		return err
	}

	printlnFn("Registered! You can now log in.")
	return nil
}

// Login prompts for credentials and authenticates against the server.
//
// When the server is unreachable it falls back to the locally cached
// session, so a previously signed-in user keeps working offline. On success
// the signed-in user scopes every local store query.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		if !errors.Is(err, common.ErrUnavailable) {
			return err
		}
		printlnFn("Server unavailable, trying cached session...")
		sess, err = a.auth.RestoreSession(ctx)
		if err != nil {
			return err
		}
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}

	a.userID = sess.UserID
	a.userName = sess.Name
	printlnFn("Logged in as", sess.Name)
	return nil
}

// Logout drops the cached session. Local records stay in place; they belong
// to the user id and become visible again on the next login.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.userID = 0
	a.userName = ""
	printlnFn("Logged out")
	return nil
}
