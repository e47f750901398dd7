package finance

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Store holds the authoritative in-memory ledger: transactions, accounts,
// categories, settings and reconciliation history. Every mutation is
// synchronized to the KV it was opened on.
//
// A Store is not safe for concurrent use.
type Store struct {
	kv  KV
	log zerolog.Logger
	now func() time.Time
	loc *time.Location

	transactions      []Transaction
	accounts          []Account
	incomeCategories  []Category
	expenseCategories []Category
	settings          Settings
	history           []ReconciliationEntry

	cache   BalanceCache
	summary Summary
	report  LoadReport

	subs    []subscriber
	nextSub int
	seq     int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load fallbacks, repairs and write failures.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock sets the clock used for timestamps and period filters.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithLocation sets the location zone-less datetimes are read in. Default is time.Local.
func WithLocation(loc *time.Location) Option { return func(s *Store) { s.loc = loc } }

// LoadReport describes what Open had to repair.
type LoadReport struct {
	// Fallbacks lists the keys that were missing or corrupt and got their default value.
	Fallbacks []string
	Integrity IntegrityReport
}

// Repaired reports whether anything was replaced or dropped.
func (r LoadReport) Repaired() bool { return len(r.Fallbacks) > 0 || r.Integrity.Repairs() > 0 }

// Open loads a Store from kv. Missing or corrupt entities fall back to the
// seed data set and the fallback is persisted immediately. A write failure
// during that persist is returned as a *PersistenceError alongside a usable
// Store.
func Open(kv KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:  kv,
		log: zerolog.Nop(),
		now: time.Now,
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw := make(map[string]string, len(Keys))
	for _, key := range Keys {
		v, ok, err := kv.Get(key)
		if err != nil {
			return nil, fmt.Errorf("could not read %q: %w", key, err)
		}
		if ok {
			raw[key] = v
		}
	}

	fallback := func(key string, err error) {
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("corrupt data, using defaults")
		}
		s.report.Fallbacks = append(s.report.Fallbacks, key)
	}

	txs, malformed, err := decodeTransactions(raw[KeyTransactions])
	if _, ok := raw[KeyTransactions]; !ok || err != nil {
		fallback(KeyTransactions, err)
	}
	s.transactions, s.report.Integrity = repair(txs)
	s.report.Integrity.Malformed += malformed

	load := func(key string, dst *[]Entry, seed func() []Entry) {
		v, ok := raw[key]
		if !ok {
			*dst = seed()
			fallback(key, nil)
			return
		}
		var entries []Entry
		if err := json.Unmarshal([]byte(v), &entries); err != nil || entries == nil {
			*dst = seed()
			fallback(key, err)
			return
		}
		*dst = cleanEntries(entries)
	}
	load(KeyAccounts, &s.accounts, defaultAccounts)
	load(KeyIncomeCategories, &s.incomeCategories, defaultIncomeCategories)
	load(KeyExpenseCategories, &s.expenseCategories, defaultExpenseCategories)
	s.normalizeCatalog()

	s.settings = DefaultSettings()
	if v, ok := raw[KeySettings]; !ok {
		fallback(KeySettings, nil)
	} else if err := json.Unmarshal([]byte(v), &s.settings); err != nil {
		s.settings = DefaultSettings()
		fallback(KeySettings, err)
	}

	if v, ok := raw[KeyReconciliationHistory]; !ok {
		fallback(KeyReconciliationHistory, nil)
	} else if err := json.Unmarshal([]byte(v), &s.history); err != nil {
		s.history = nil
		fallback(KeyReconciliationHistory, err)
	}
	s.history = capHistory(s.history)

	if n := s.report.Integrity.Repairs(); n > 0 {
		s.log.Warn().Int("malformed", s.report.Integrity.Malformed).
			Int("duplicates", s.report.Integrity.Duplicates).
			Int("orphanLegs", s.report.Integrity.OrphanLegs).
			Msg("dropped invalid transactions")
	}

	s.summary = s.computeSummary()
	if s.report.Repaired() {
		if err := s.Save(); err != nil {
			return s, err
		}
	}
	return s, nil
}

// LoadReport returns what Open repaired.
func (s *Store) LoadReport() LoadReport { return s.report }

// Save writes every entity to the KV. Failures are collected into a single
// *PersistenceError; the in-memory state is unchanged.
func (s *Store) Save() error {
	values := map[string]any{
		KeyTransactions:          nonNil(s.transactions),
		KeyIncomeCategories:      nonNil(s.incomeCategories),
		KeyExpenseCategories:     nonNil(s.expenseCategories),
		KeyAccounts:              nonNil(s.accounts),
		KeySettings:              s.settings,
		KeyReconciliationHistory: nonNil(s.history),
	}
	var errs []error
	for _, key := range Keys {
		data, err := json.Marshal(values[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("could not encode %q: %w", key, err))
			continue
		}
		if err := s.kv.Set(key, string(data)); err != nil {
			errs = append(errs, fmt.Errorf("could not write %q: %w", key, err))
		}
	}
	if len(errs) > 0 {
		err := &PersistenceError{Err: errors.Join(errs...)}
		s.log.Warn().Err(err.Err).Msg("save failed")
		return err
	}
	return nil
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// changed runs after every successful in-memory mutation: it drops cached
// balances, recomputes the summary, persists and notifies subscribers.
func (s *Store) changed(op Op, ids ...string) error {
	s.cache.Invalidate()
	s.summary = s.computeSummary()
	err := s.Save()
	s.log.Debug().Str("op", op.String()).Strs("ids", ids).Bool("saved", err == nil).Msg("ledger changed")
	s.publish(Event{Op: op, IDs: ids, Summary: s.summary, Err: err})
	return err
}

// Now returns the store clock's current time in the store location.
func (s *Store) Now() time.Time { return s.now().In(s.loc) }

// Location returns the location zone-less datetimes are read in.
func (s *Store) Location() *time.Location { return s.loc }

// Transactions returns a copy of the ledger in storage order.
func (s *Store) Transactions() []Transaction { return slices.Clone(s.transactions) }

// Len returns the number of stored transactions.
func (s *Store) Len() int { return len(s.transactions) }

// Transaction returns the transaction with this id.
func (s *Store) Transaction(id string) (Transaction, bool) {
	i := s.index(id)
	if i < 0 {
		return Transaction{}, false
	}
	return s.transactions[i], true
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.transactions, func(tx Transaction) bool { return tx.ID == id })
}

// Filter returns the transactions matching f, newest first.
func (s *Store) Filter(f Filter) []Transaction {
	return SortNewestFirst(f.Apply(s.transactions, s.Now()), s.loc)
}

// Balance returns the derived balance of an account over the whole ledger.
func (s *Store) Balance(account string) decimal.Decimal {
	return s.cache.Balances(s.transactions, s.accounts)[account]
}

// Balances returns the derived balance of every declared account.
func (s *Store) Balances() map[string]decimal.Decimal {
	return s.cache.Balances(s.transactions, s.accounts)
}

// BalancesAsOf returns the balance of every declared account counting only
// transactions dated strictly before t.
func (s *Store) BalancesAsOf(t time.Time) map[string]decimal.Decimal {
	return BalancesAsOf(s.transactions, s.accounts, t, s.loc)
}
