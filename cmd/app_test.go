package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/xzxcupidxzx/finance"
)

// newLedger points the global flags at a new ledger in a temp folder, with a
// frozen clock, and captures the command output.
func newLedger(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv(EnvTestingNow, "2025-03-14T12:00:00")
	t.Setenv("PFT_TZ", "UTC")
	t.Setenv("PFT_LOG_LEVEL", "error")

	oldBackend, oldData, oldPlain, oldStdout := *backend, *dataPath, *plain, stdout
	t.Cleanup(func() {
		*backend, *dataPath, *plain, stdout = oldBackend, oldData, oldPlain, oldStdout
	})
	var out bytes.Buffer
	*backend, *dataPath, *plain, stdout = "dir", t.TempDir(), true, &out
	return &out
}

// run executes c with args and returns its status. out is reset first.
func run(t *testing.T, out *bytes.Buffer, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	out.Reset()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

// mustRun is run expecting success.
func mustRun(t *testing.T, out *bytes.Buffer, c subcommands.Command, args ...string) string {
	t.Helper()
	if status := run(t, out, c, args...); status != subcommands.ExitSuccess {
		t.Fatalf("%s %v = %v, want success", c.Name(), args, status)
	}
	return out.String()
}

// reopen loads the ledger the commands wrote.
func reopen(t *testing.T) *finance.Store {
	t.Helper()
	s, err := openStore()
	if err != nil {
		t.Fatalf("openStore() failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s.store
}

func assertBalance(t *testing.T, s *finance.Store, account, want string) {
	t.Helper()
	if got := s.Balance(account); !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("Balance(%q) = %s, want %s", account, got, want)
	}
}

func TestAddAndList(t *testing.T) {
	out := newLedger(t)

	got := mustRun(t, out, &addCmd{}, "-c", "Food", "-a", "45k", "-d", "2025-03-10T12:00", "-m", "phở", "bò")
	if !strings.HasPrefix(got, "Added 2025-03-10T12:00:00 Expense") {
		t.Errorf("add output = %q", got)
	}
	mustRun(t, out, &addCmd{}, "-income", "-c", "Salary", "-account", "Bank", "-a", "15.000.000", "-d", "2025-03-01")

	s := reopen(t)
	assertBalance(t, s, "Cash", "-45000")
	assertBalance(t, s, "Bank", "15000000")
	if tx := s.Filter(finance.Filter{Query: "phở"}); len(tx) != 1 || tx[0].Description != "phở bò" {
		t.Errorf("description not joined from the arguments: %+v", tx)
	}

	got = mustRun(t, out, &txCmd{}, "-type", "expense")
	if !strings.Contains(got, "phở bò") || strings.Contains(got, "Salary") {
		t.Errorf("tx -type expense:\n%s", got)
	}
	got = mustRun(t, out, &txCmd{}, "-by-category")
	if !strings.Contains(got, "Food") || !strings.Contains(got, "Salary") {
		t.Errorf("tx -by-category:\n%s", got)
	}
	got = mustRun(t, out, &txCmd{}, "-s", "2025-03-05", "-e", "2025-03-31")
	if !strings.Contains(got, "from 2025-03-05 to 2025-03-31") || !strings.Contains(got, "over 1 transactions") {
		t.Errorf("tx range:\n%s", got)
	}
}

func TestAdd_Errors(t *testing.T) {
	out := newLedger(t)
	testCases := []struct {
		name string
		args []string
		want subcommands.ExitStatus
	}{
		{"bad amount", []string{"-c", "Food", "-a", "lots"}, subcommands.ExitUsageError},
		{"unknown category", []string{"-c", "Yachts", "-a", "1"}, subcommands.ExitUsageError},
		{"unknown account", []string{"-c", "Food", "-a", "1", "-account", "Swiss"}, subcommands.ExitUsageError},
		{"too far ahead", []string{"-c", "Food", "-a", "1", "-d", "2030-01-01"}, subcommands.ExitUsageError},
		{"unknown currency", []string{"-c", "Food", "-a", "1", "-cur", "XYZ"}, subcommands.ExitUsageError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(t, out, &addCmd{}, tc.args...); got != tc.want {
				t.Errorf("add %v = %v, want %v", tc.args, got, tc.want)
			}
		})
	}
	if n := reopen(t).Len(); n != 0 {
		t.Errorf("rejected adds left %d transactions", n)
	}
}

func TestAdd_Currency(t *testing.T) {
	out := newLedger(t)
	mustRun(t, out, &addCmd{}, "-c", "Shopping", "-a", "10", "-cur", "usd")
	tx := reopen(t).Transactions()[0]
	if !tx.Amount.Equal(decimal.NewFromInt(250_000)) || tx.OriginalCurrency != "USD" {
		t.Errorf("converted transaction = %+v", tx)
	}
}

func TestTransferEditRm(t *testing.T) {
	out := newLedger(t)
	got := mustRun(t, out, &transferCmd{}, "-from", "Bank", "-to", "Cash", "-a", "2tr", "-d", "2025-03-02")
	if !strings.Contains(got, "from Bank to Cash") {
		t.Errorf("transfer output = %q", got)
	}

	trs := reopen(t).Transfers()
	if len(trs) != 1 {
		t.Fatalf("got %d transfers, want 1", len(trs))
	}
	in := trs[0].In.ID

	mustRun(t, out, &editCmd{}, "-a", "3tr", in)
	s := reopen(t)
	assertBalance(t, s, "Bank", "-3000000")
	assertBalance(t, s, "Cash", "3000000")

	if status := run(t, out, &editCmd{}, "-to", "Bank", in); status != subcommands.ExitUsageError {
		t.Errorf("edit to the same account = %v, want usage error", status)
	}
	if status := run(t, out, &editCmd{}, "-a", "1"); status != subcommands.ExitUsageError {
		t.Errorf("edit without id = %v, want usage error", status)
	}

	mustRun(t, out, &rmCmd{}, in)
	if n := reopen(t).Len(); n != 0 {
		t.Errorf("rm of a leg left %d transactions, want 0", n)
	}
	if status := run(t, out, &rmCmd{}, in); status != subcommands.ExitUsageError {
		t.Errorf("rm of a missing id = %v, want usage error", status)
	}
}

func TestEditPatch(t *testing.T) {
	c := &editCmd{}
	f := flag.NewFlagSet("edit", flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse([]string{"-m", "", "-a", "20", "-cur", "EUR", "id"}); err != nil {
		t.Fatal(err)
	}
	p, err := c.patch(f)
	if err != nil {
		t.Fatalf("patch() failed: %v", err)
	}
	if p.Description == nil || *p.Description != "" {
		t.Errorf("Description = %v, want an empty description", p.Description)
	}
	if p.Amount == nil || !p.Amount.IsZero() || p.OriginalAmount == nil || !p.OriginalAmount.Equal(decimal.NewFromInt(20)) || *p.OriginalCurrency != "EUR" {
		t.Errorf("amounts = %v %v %v, want a conversion of 20 EUR", p.Amount, p.OriginalAmount, p.OriginalCurrency)
	}
	if p.Category != nil || p.Account != nil || p.Datetime != nil || p.Type != nil {
		t.Errorf("flags not given are set: %+v", p)
	}

	f = flag.NewFlagSet("edit", flag.ContinueOnError)
	c.SetFlags(f)
	f.Parse([]string{"-type", "gift", "id"})
	if _, err := c.patch(f); err == nil {
		t.Error("patch() with an unknown type succeeded")
	}
}

func TestReconcile(t *testing.T) {
	out := newLedger(t)
	mustRun(t, out, &addCmd{}, "-c", "Food", "-a", "45k")

	got := mustRun(t, out, &reconcileCmd{}, "-n", "Cash", "100k")
	if !strings.HasPrefix(got, "Difference on Cash: +") {
		t.Errorf("reconcile -n output = %q", got)
	}
	assertBalance(t, reopen(t), "Cash", "-45000")

	got = mustRun(t, out, &reconcileCmd{}, "Cash", "100k")
	if !strings.Contains(got, "Recorded adjustment") {
		t.Errorf("reconcile output:\n%s", got)
	}
	mustRun(t, out, &reconcileCmd{}, "Bank", "0")

	s := reopen(t)
	assertBalance(t, s, "Cash", "100000")
	if h := s.History(); len(h) != 2 || !h[1].Balanced() {
		t.Errorf("history = %+v", h)
	}
	got = mustRun(t, out, &historyCmd{}, "-account", "Cash")
	if strings.Contains(got, "Bank") || !strings.Contains(got, "Cash") {
		t.Errorf("history -account Cash:\n%s", got)
	}

	if status := run(t, out, &reconcileCmd{}, "Cash"); status != subcommands.ExitUsageError {
		t.Errorf("reconcile without balance = %v", status)
	}
	if status := run(t, out, &reconcileCmd{}, "Swiss", "1"); status != subcommands.ExitUsageError {
		t.Errorf("reconcile of an unknown account = %v", status)
	}
}

func TestParseBalance(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"0", "0"},
		{"100k", "100000"},
		{"-1.500.000", "-1500000"},
	}
	for _, tc := range testCases {
		got, err := parseBalance(tc.in)
		if err != nil || !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("parseBalance(%q) = %s, %v, want %s", tc.in, got, err, tc.want)
		}
	}
	if _, err := parseBalance("-"); err == nil {
		t.Error("parseBalance(-) succeeded")
	}
}

func TestCatalog(t *testing.T) {
	out := newLedger(t)

	got := mustRun(t, out, &accountsCmd{}, "add", "Momo", "Ví Momo")
	if got != "Added account Ví Momo (Momo)\n" {
		t.Errorf("accounts add output = %q", got)
	}
	mustRun(t, out, &accountsCmd{}, "rename", "Momo", "MoMo")
	if a, _ := reopen(t).Account("Momo"); a.Text != "MoMo" {
		t.Errorf("renamed account = %+v", a)
	}
	mustRun(t, out, &addCmd{}, "-c", "Food", "-a", "1", "-account", "Momo")
	if status := run(t, out, &accountsCmd{}, "rm", "Momo"); status != subcommands.ExitUsageError {
		t.Errorf("rm of a used account = %v", status)
	}
	if status := run(t, out, &accountsCmd{}, "rm", "Cash"); status != subcommands.ExitUsageError {
		t.Errorf("rm of a system account = %v", status)
	}
	if status := run(t, out, &accountsCmd{}, "frobnicate"); status != subcommands.ExitUsageError {
		t.Errorf("unknown action = %v", status)
	}
	got = mustRun(t, out, &accountsCmd{})
	if !strings.Contains(got, "MoMo") {
		t.Errorf("accounts list:\n%s", got)
	}

	mustRun(t, out, &categoriesCmd{}, "-income", "add", "Gift")
	mustRun(t, out, &categoriesCmd{}, "rm", "Education")
	s := reopen(t)
	if !s.HasCategory(finance.Income, "Gift") || s.HasCategory(finance.Expense, "Education") {
		t.Error("categories not updated")
	}
	if status := run(t, out, &categoriesCmd{}, "rm", finance.CategoryTransferOut); status != subcommands.ExitUsageError {
		t.Errorf("rm of a system category = %v", status)
	}
}

func TestSettings(t *testing.T) {
	out := newLedger(t)
	got := mustRun(t, out, &settingsCmd{}, "-default-account", "Bank", "-rate", "usd=26000", "-rate", "JPY=170")
	for _, want := range []string{`"defaultAccount": "Bank"`, `"USD": 26000`, `"JPY": 170`} {
		if !strings.Contains(got, want) {
			t.Errorf("settings output lacks %s:\n%s", want, got)
		}
	}
	mustRun(t, out, &addCmd{}, "-c", "Food", "-a", "1")
	assertBalance(t, reopen(t), "Bank", "-1")

	if status := run(t, out, &settingsCmd{}, "-default-account", "Swiss"); status != subcommands.ExitUsageError {
		t.Errorf("unknown default account = %v", status)
	}
}

func TestExportImport(t *testing.T) {
	out := newLedger(t)
	mustRun(t, out, &addCmd{}, "-c", "Food", "-a", "45k", "-m", "cơm tấm")
	mustRun(t, out, &transferCmd{}, "-from", "Bank", "-to", "Cash", "-a", "1tr")
	backup := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, out, &exportCmd{}, "-o", backup)

	got := mustRun(t, out, &exportCmd{}, "-jsonl")
	if n := strings.Count(got, "\n"); n != 3 {
		t.Errorf("export -jsonl wrote %d lines, want 3:\n%s", n, got)
	}
	lines := filepath.Join(t.TempDir(), "ledger.jsonl")
	if err := os.WriteFile(lines, []byte(got), 0o644); err != nil {
		t.Fatal(err)
	}

	*dataPath = t.TempDir()
	got = mustRun(t, out, &importCmd{}, backup)
	if !strings.HasPrefix(got, "Imported: transactions, incomeCategories") {
		t.Errorf("import output = %q", got)
	}
	s := reopen(t)
	if s.Len() != 3 {
		t.Errorf("imported %d transactions, want 3", s.Len())
	}
	assertBalance(t, s, "Cash", "955000")

	*dataPath = t.TempDir()
	got = mustRun(t, out, &importCmd{}, "-jsonl", lines)
	if !strings.Contains(got, "Missing, kept as before: incomeCategories") {
		t.Errorf("import -jsonl output = %q", got)
	}
	assertBalance(t, reopen(t), "Bank", "-1000000")

	if status := run(t, out, &importCmd{}, filepath.Join(t.TempDir(), "nope.json")); status != subcommands.ExitFailure {
		t.Errorf("import of a missing file = %v", status)
	}
}

func TestQuery(t *testing.T) {
	out := newLedger(t)
	got := mustRun(t, out, &queryCmd{}, "-c", "$.accounts[*].value")
	if got != `["Cash","Bank","E-Wallet"]`+"\n" {
		t.Errorf("query output = %q", got)
	}
	if status := run(t, out, &queryCmd{}, "-c", "$.[[["); status != subcommands.ExitUsageError {
		t.Errorf("invalid expression = %v", status)
	}
}

func TestCheck(t *testing.T) {
	out := newLedger(t)
	got := mustRun(t, out, &checkCmd{})
	if !strings.Contains(got, "This is a new ledger.") {
		t.Errorf("check of a new ledger = %q", got)
	}
	got = mustRun(t, out, &checkCmd{})
	if got != "The ledger is sound: 0 transactions.\n" {
		t.Errorf("check = %q", got)
	}

	if err := os.WriteFile(filepath.Join(*dataPath, "accounts.json"), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	got = mustRun(t, out, &checkCmd{})
	if !strings.Contains(got, "Reset to default: accounts") {
		t.Errorf("check of a corrupt ledger = %q", got)
	}
}

func TestTopic(t *testing.T) {
	out := newLedger(t)
	if got := mustRun(t, out, &topicCmd{}); !strings.Contains(got, "* transfers:") {
		t.Errorf("topic index:\n%s", got)
	}
	if status := run(t, out, &topicCmd{}, "nope"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic = %v", status)
	}
}

func TestCompletion(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("pft", flag.ContinueOnError), "pft")
	Register(commander)
	global := flag.NewFlagSet("pft", flag.ContinueOnError)
	global.String("backend", "", "")
	global.Bool("plain", false, "")

	c := Completion(commander, global)
	for _, name := range []string{"add", "transfer", "tx", "reconcile", "assist", "topic"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("no completion for %q", name)
		}
	}
	if _, ok := c.Flags["backend"]; !ok {
		t.Error("no completion for the global flag -backend")
	}
	if _, ok := c.Sub["add"].Flags["income"]; !ok {
		t.Error("no completion for add -income")
	}
	if c.Sub["topic"].Args == nil {
		t.Error("topics are not completed")
	}
}
