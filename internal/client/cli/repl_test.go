package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) call(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.call("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.call("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.call("logout")
}
func (f *fakeExec) AddTransaction(ctx context.Context) error    { return f.call("add") }
func (f *fakeExec) ListTransactions(ctx context.Context) error  { return f.call("list") }
func (f *fakeExec) EditTransaction(ctx context.Context) error   { return f.call("edit") }
func (f *fakeExec) DeleteTransaction(ctx context.Context) error { return f.call("del") }
func (f *fakeExec) SetGoal(ctx context.Context) error           { return f.call("goal") }
func (f *fakeExec) ListGoals(ctx context.Context) error         { return f.call("goals") }
func (f *fakeExec) Progress(ctx context.Context) error          { return f.call("progress") }
func (f *fakeExec) Summary(ctx context.Context) error           { return f.call("summary") }
func (f *fakeExec) Sync(ctx context.Context) error              { return f.call("sync") }
func (f *fakeExec) Seed(ctx context.Context) error              { return f.call("seed") }
func (f *fakeExec) Clear(ctx context.Context) error             { return f.call("clear") }

func muteOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			if s, ok := a.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	muteOutput(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"add",
		"l",
		"edit",
		"del",
		"goal",
		"goals",
		"progress",
		"summary",
		"sync",
		"seed",
		"clear",
		"logout",
		"exit",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "add", "list", "edit", "del", "goal", "goals",
		"progress", "summary", "sync", "seed", "clear", "logout",
	}, exec.calls)
}

func TestRunREPL_UnknownCommandReported(t *testing.T) {
	lines := muteOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec,
		func() string { return "" },
		bufio.NewScanner(strings.NewReader("frobnicate\nexit\n")))

	assert.Empty(t, exec.calls)
	found := false
	for _, l := range *lines {
		if strings.Contains(l, "Unknown command") {
			found = true
		}
	}
	assert.True(t, found, "unknown command must be reported, got %v", *lines)
}

func TestRunREPL_BlankLinesIgnoredAndEOFExits(t *testing.T) {
	muteOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec,
		func() string { return "" },
		bufio.NewScanner(strings.NewReader("\n\n   \n")))

	assert.Empty(t, exec.calls)
}
