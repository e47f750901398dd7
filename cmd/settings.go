package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type settingsCmd struct {
	defaultAccount string
	descriptionCap int
	maxFutureDays  int
	rates          map[string]decimal.Decimal
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "show or change the ledger settings" }
func (*settingsCmd) Usage() string {
	return `pft settings [-default-account <account>] [-description-cap <n>] [-max-future-days <n>] [-rate <CUR>=<value>]...

  Without flags, prints the settings as JSON. The flags change the given
  settings. -rate sets the value of one unit of a currency in VND and can be
  repeated. A negative -max-future-days disables the future date check.
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.defaultAccount, "default-account", "", "Account used when a transaction names none.")
	f.IntVar(&c.descriptionCap, "description-cap", 0, "Maximum length of descriptions, 0 for no cap.")
	f.IntVar(&c.maxFutureDays, "max-future-days", 0, "How many days ahead a transaction may be dated.")
	c.rates = make(map[string]decimal.Decimal)
	f.Func("rate", "Exchange rate, as CUR=value.", func(s string) error {
		cur, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("want CUR=value, got %q", s)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid rate %q: %w", value, err)
		}
		c.rates[strings.ToUpper(strings.TrimSpace(cur))] = rate
		return nil
	})
}

func (c *settingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	set := s.store.Settings()
	changed := false
	f.Visit(func(fl *flag.Flag) {
		changed = true
		switch fl.Name {
		case "default-account":
			set.DefaultAccount = c.defaultAccount
		case "description-cap":
			set.DescriptionMaxLength = c.descriptionCap
		case "max-future-days":
			set.MaxFutureDays = c.maxFutureDays
		case "rate":
			if set.ExchangeRates == nil {
				set.ExchangeRates = make(map[string]decimal.Decimal)
			}
			for cur, rate := range c.rates {
				set.ExchangeRates[cur] = rate
			}
		}
	})
	if changed {
		if status, ok := mutated(s.store.UpdateSettings(set)); !ok {
			return status
		}
	}

	data, err := json.MarshalIndent(s.store.Settings(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding settings: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, string(data))
	return subcommands.ExitSuccess
}
