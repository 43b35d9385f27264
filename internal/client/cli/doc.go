// Package cli implements the interactive fintrack client: a REPL over the
// local store with commands for recording transactions, managing monthly
// goals, viewing summaries, and triggering synchronization with the backend.
//
// The client is offline-first: every command except sync works without
// connectivity, and a background watcher flips the prompt between online and
// offline mode based on periodic health probes.
package cli
