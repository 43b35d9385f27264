package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddTransaction(ctx context.Context) error
	ListTransactions(ctx context.Context) error
	EditTransaction(ctx context.Context) error
	DeleteTransaction(ctx context.Context) error
	SetGoal(ctx context.Context) error
	ListGoals(ctx context.Context) error
	Progress(ctx context.Context) error
	Summary(ctx context.Context) error
	Sync(ctx context.Context) error
	Seed(ctx context.Context) error
	Clear(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the fintrack CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - add            — record an income/expense transaction
//	  - list | l       — list transactions
//	  - edit           — edit a transaction
//	  - del            — delete a transaction
//	  - goal           — set a monthly savings goal
//	  - goals          — list goals
//	  - progress       — goal progress for a month
//	  - summary        — monthly income/expense summary
//	  - sync           — synchronize with the server
//	  - seed           — insert generated sample transactions
//	  - clear          — wipe local data for the current user
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are printed here so the loop
// stays resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("fintrack CLI (type 'help' for commands)")

	for {
		printlnFn(fmt.Sprintf("ft %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		var err error
		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, (l)ist, edit, del, goal, goals, progress, summary, sync, seed, clear, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "add":
			err = a.AddTransaction(ctx)

		case "l", "list":
			err = a.ListTransactions(ctx)

		case "edit":
			err = a.EditTransaction(ctx)

		case "del", "delete":
			err = a.DeleteTransaction(ctx)

		case "goal":
			err = a.SetGoal(ctx)

		case "goals":
			err = a.ListGoals(ctx)

		case "progress":
			err = a.Progress(ctx)

		case "summary":
			err = a.Summary(ctx)

		case "sync":
			err = a.Sync(ctx)

		case "seed":
			err = a.Seed(ctx)

		case "clear":
			err = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
