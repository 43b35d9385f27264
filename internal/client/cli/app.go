package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/config"
	"github.com/dmitrijs2005/fintrack/internal/client/remote"
	"github.com/dmitrijs2005/fintrack/internal/client/services"
	"github.com/dmitrijs2005/fintrack/internal/client/storage"
	"github.com/dmitrijs2005/fintrack/internal/logging"
)

// Mode reflects the client's current connectivity state.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App wires the client services together and holds per-session state: the
// signed-in user, connectivity mode, and the in-flight sync flag.
type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	auth     services.AuthService
	records  services.RecordService
	syncer   services.SyncService
	progress services.ProgressService
	seeder   services.SeedService

	userID   int64
	userName string
	mode     atomic.Value // Mode; written by the watcher goroutine, read by the REPL
	syncing  atomic.Bool
	reader   *bufio.Reader
}

// NewApp opens the local store and constructs the application services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}

	mgr := storage.NewSQLiteManager()

	installID, err := storage.EnsureInstallID(ctx, db, mgr)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}
	logger = logger.With("install_id", installID)

	api := remote.NewHTTPClient(c.ServerURL)
	records := services.NewRecordService(db, mgr)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		auth:     services.NewAuthService(api, db, mgr),
		records:  records,
		syncer:   services.NewSyncService(api, db, mgr, logger),
		progress: services.NewProgressService(db, mgr),
		seeder:   services.NewSeedService(records),
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores a cached session if one exists, starts the connectivity
// watcher, and enters the REPL. It returns when the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.db.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if sess, err := a.auth.RestoreSession(ctx); err == nil {
		a.userID = sess.UserID
		a.userName = sess.Name
		printlnFn("Welcome back,", sess.Name)
	}

	go a.startOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool { return a.userID != 0 }

// isOnline reports the last observed connectivity state.
func (a *App) isOnline() bool { return a.currentMode() == ModeOnline }

// pendingSync reports whether a sync run is currently in flight.
func (a *App) pendingSync() bool { return a.syncing.Load() }

// currentMode returns the last stored connectivity mode; an app that has
// never observed the server is offline.
func (a *App) currentMode() Mode {
	if m, ok := a.mode.Load().(Mode); ok {
		return m
	}
	return ModeOffline
}

func (a *App) setMode(mode Mode) {
	if a.currentMode() == mode {
		return
	}
	a.mode.Store(mode)
	printlnFn("Switched to", string(mode), "mode")
}

// getStatus renders the prompt suffix: user name, connectivity mode, and a
// sync marker while a run is active.
func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	s += string(a.currentMode())
	if a.pendingSync() {
		s += " syncing"
	}
	return fmt.Sprintf("(%s)", s)
}

// startOnlineStatusWatcher probes the backend every interval and flips the
// connectivity mode on transitions. It is a passive signal; the sync engine
// decides what to do with it.
func (a *App) startOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.auth.Ping(probeCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
