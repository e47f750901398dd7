// Package cmd implements the pft command line application to manage a
// personal ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance"
	"github.com/xzxcupidxzx/finance/config"
	"github.com/xzxcupidxzx/finance/kv"
	"github.com/xzxcupidxzx/finance/logger"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&editCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")

	c.Register(&balanceCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")

	c.Register(&reconcileCmd{}, "reconciliation")
	c.Register(&historyCmd{}, "reconciliation")

	c.Register(&accountsCmd{}, "catalog")
	c.Register(&categoriesCmd{}, "catalog")
	c.Register(&settingsCmd{}, "catalog")

	c.Register(&exportCmd{}, "data")
	c.Register(&importCmd{}, "data")
	c.Register(&checkCmd{}, "data")

	c.Register(&assistCmd{}, "assistant")
	c.Register(&topicCmd{}, "help")
}

// EnvTestingNow freezes the clock of the ledger, as a datetime, for
// reproducible documentation runs.
const EnvTestingNow = "PFT_TESTING_NOW"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var backend = flag.String("backend", "", "Storage backend: dir, sqlite or memory. Overrides PFT_BACKEND.")
var dataPath = flag.String("data", "", "Data directory of the dir backend, or database file of the sqlite backend.")
var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal.")
var verbose = flag.Bool("v", false, "Log at debug level.")

// stdout receives the command output.
var stdout io.Writer = os.Stdout

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
	}
	if *dataPath != "" {
		cfg.Store.DataDir = *dataPath
		cfg.Store.SQLitePath = *dataPath
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Store.Validate()
}

// openKV opens the configured backend. close releases it.
func openKV(cfg config.StoreConfig) (store finance.KV, close func() error, err error) {
	nop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.BackendMemory:
		return kv.NewMemory(), nop, nil
	default:
		dir, err := kv.OpenDir(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return dir, nop, nil
	}
}

// session is an opened ledger.
type session struct {
	cfg   *config.Config
	store *finance.Store
	close func() error
}

// openStore is the central function to open the ledger: it reads the
// configuration, opens the backend and loads the store. Repairs done while
// loading and mutations that could not be saved are reported on stderr.
func openStore() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", cfg.Location, err)
	}
	db, closeKV, err := openKV(cfg.Store)
	if err != nil {
		return nil, err
	}

	opts := []finance.Option{
		finance.WithLogger(logger.New(logger.ParseLevel(cfg.LogLevel))),
		finance.WithLocation(loc),
	}
	if v := os.Getenv(EnvTestingNow); v != "" {
		now, err := finance.ParseDatetime(v, loc)
		if err != nil {
			closeKV()
			return nil, fmt.Errorf("invalid %s: %w", EnvTestingNow, err)
		}
		opts = append(opts, finance.WithClock(func() time.Time { return now }))
	}

	store, err := finance.Open(db, opts...)
	if err != nil && !finance.IsWarning(err) {
		closeKV()
		return nil, err
	}
	if err != nil {
		warn(err)
	}
	// A fresh ledger falls back on every key.
	if r := store.LoadReport(); r.Repaired() && len(r.Fallbacks) < len(finance.Keys) {
		fmt.Fprintf(os.Stderr, "warning: the ledger was repaired while loading (%s), run 'pft check' for details\n", describeRepairs(r))
	}
	store.Subscribe(func(e finance.Event) {
		if e.Err != nil {
			warn(fmt.Errorf("%s not saved: %w", e.Op, e.Err))
		}
	})
	return &session{cfg: cfg, store: store, close: closeKV}, nil
}

// Close releases the backend.
func (s *session) Close() {
	if err := s.close(); err != nil {
		warn(err)
	}
}

func describeRepairs(r finance.LoadReport) string {
	if len(r.Fallbacks) == 0 {
		return r.Integrity.String()
	}
	return fmt.Sprintf("%d entities reset, %s", len(r.Fallbacks), r.Integrity)
}

func warn(err error) { fmt.Fprintf(os.Stderr, "warning: %v\n", err) }

// fail reports err on stderr and returns the matching exit status.
// Validation and not found errors are the user's: they are usage errors.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, finance.ErrValidation) || errors.Is(err, finance.ErrNotFound) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// mutated reports the outcome of a mutation: a warning is printed and the
// command still succeeds since the change is kept in memory.
func mutated(err error) (subcommands.ExitStatus, bool) {
	if err == nil {
		return subcommands.ExitSuccess, true
	}
	if finance.IsWarning(err) {
		// Already reported by the subscription.
		return subcommands.ExitSuccess, true
	}
	return fail(err), false
}
