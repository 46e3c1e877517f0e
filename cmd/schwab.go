package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ledgerconv/ledgerconv/schwab"
)

type schwabCmd struct {
	brokerage string
	awards    string
	options   string
	output    string
	summary   bool
}

func (*schwabCmd) Name() string     { return "schwab" }
func (*schwabCmd) Synopsis() string { return "convert Schwab account exports" }
func (*schwabCmd) Usage() string {
	return `lconv schwab [-brokerage <file>] [-awards <file>] [-options <file>] [-o <file>]

  Converts a set of Schwab CSV exports into the canonical ledger format.
  Any combination of the three exports can be passed; at least one is
  required.

Usage Examples:
# Brokerage transactions plus RSU vesting events.
$ lconv schwab -brokerage transactions.csv -awards equity-awards.csv -o ledger.csv

`
}

func (p *schwabCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.brokerage, "brokerage", "", "Brokerage transaction export.")
	f.StringVar(&p.awards, "awards", "", "Equity award export.")
	f.StringVar(&p.options, "options", "", "Option trade export.")
	f.StringVar(&p.output, "o", "", "Output file. Writes to stdout by default.")
	f.BoolVar(&p.summary, "summary", true, "Render a conversion summary after writing.")
}

func (p *schwabCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.brokerage == "" && p.awards == "" && p.options == "" {
		fmt.Fprintln(os.Stderr, "Error: expected at least one of -brokerage, -awards, -options.")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}

	var statement schwab.Statement
	if p.brokerage != "" {
		src, st := openSource(p.brokerage)
		if st != subcommands.ExitSuccess {
			return st
		}
		statement.Brokerage, err = schwab.LoadBrokerageFile(src)
		src.Close()
		if err != nil {
			return fail(err)
		}
	}
	if p.awards != "" {
		src, st := openSource(p.awards)
		if st != subcommands.ExitSuccess {
			return st
		}
		statement.EquityAwards, err = schwab.LoadEquityAwardsFile(src)
		src.Close()
		if err != nil {
			return fail(err)
		}
	}
	if p.options != "" {
		src, st := openSource(p.options)
		if st != subcommands.ExitSuccess {
			return st
		}
		statement.Options, err = schwab.LoadOptionsFile(src)
		src.Close()
		if err != nil {
			return fail(err)
		}
	}

	resolver, warns := NewResolver(cfg)
	ledger, err := schwab.NewConverter(resolver, warns).Convert(statement)
	if err != nil {
		return fail(err)
	}
	return emit(schwab.Exchange, p.output, p.summary, ledger)
}
