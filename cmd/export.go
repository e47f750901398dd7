package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance"
)

type exportCmd struct {
	output string
	jsonl  bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the whole ledger as JSON" }
func (*exportCmd) Usage() string {
	return `pft export [-o <file>] [-jsonl]

  Writes a snapshot of every entity of the ledger as one JSON document, the
  format read by 'pft import'. With -jsonl only the transactions are written,
  one per line, oldest first.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the standard output.")
	f.BoolVar(&c.jsonl, "jsonl", false, "Write the transactions as JSON lines.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	w := stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	if c.jsonl {
		err = finance.EncodeLedger(w, s.store.Transactions(), s.store.Location())
	} else {
		err = s.store.Export().Encode(w)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d transactions to %s\n", s.store.Len(), c.output)
	}
	return subcommands.ExitSuccess
}

type importCmd struct {
	jsonl bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the ledger with a JSON export" }
func (*importCmd) Usage() string {
	return `pft import [-jsonl] <file>|-

  Replaces the ledger content with a document written by 'pft export'. Each
  entity is imported on its own: an invalid entity keeps its current value and
  a missing one is left untouched. With -jsonl the file holds one transaction
  per line and only the transactions are replaced.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.jsonl, "jsonl", false, "Read transactions as JSON lines.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import takes exactly one file, or - for the standard input.")
		return subcommands.ExitUsageError
	}
	var data []byte
	var err error
	if f.Arg(0) == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(f.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	if c.jsonl {
		txs, err := finance.DecodeLedger(bytes.NewReader(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding %q: %v\n", f.Arg(0), err)
			return subcommands.ExitFailure
		}
		if data, err = json.Marshal(map[string][]finance.Transaction{finance.KeyTransactions: txs}); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding transactions: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	report, err := s.store.Import(data)
	if status, ok := mutated(err); !ok {
		return status
	}
	fmt.Fprintf(stdout, "Imported: %s\n", list(report.Imported))
	if len(report.Rejected) > 0 {
		fmt.Fprintf(stdout, "Rejected, kept as before: %s\n", list(report.Rejected))
	}
	if len(report.Missing) > 0 {
		fmt.Fprintf(stdout, "Missing, kept as before: %s\n", list(report.Missing))
	}
	if report.Integrity.Repairs() > 0 {
		fmt.Fprintf(stdout, "Transactions: %s\n", report.Integrity)
	}
	return subcommands.ExitSuccess
}

func list(keys []string) string {
	if len(keys) == 0 {
		return "nothing"
	}
	return strings.Join(keys, ", ")
}
