package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	ledgerconv "github.com/ledgerconv/ledgerconv"
	"github.com/ledgerconv/ledgerconv/etoro"
	"github.com/ledgerconv/ledgerconv/renderer"
)

type etoroCmd struct {
	currency string
	output   string
	summary  bool
}

func (*etoroCmd) Name() string     { return "etoro" }
func (*etoroCmd) Synopsis() string { return "convert an eToro account statement" }
func (*etoroCmd) Usage() string {
	return `lconv etoro [-currency <code>] [-o <file>] <activity.csv> <closed-positions.csv>

  Converts an eToro account statement into the canonical ledger format.
  The statement has to be exported as CSV sheets: the "Account Activity"
  sheet and the "Closed Positions" sheet.

Usage Examples:
# Convert and write the ledger next to the sources.
$ lconv etoro -o ledger.csv activity.csv closed-positions.csv

`
}

func (p *etoroCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.currency, "currency", "", "Account base currency as shown on the statement's summary sheet. Defaults to the configured base_fiat.")
	f.StringVar(&p.output, "o", "", "Output file. Writes to stdout by default.")
	f.BoolVar(&p.summary, "summary", true, "Render a conversion summary after writing.")
}

func (p *etoroCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected the activity file and the closed-positions file.")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	if p.currency == "" {
		p.currency = cfg.BaseFiat
	}

	activity, st := openSource(f.Arg(0))
	if st != subcommands.ExitSuccess {
		return st
	}
	defer activity.Close()
	positions, st := openSource(f.Arg(1))
	if st != subcommands.ExitSuccess {
		return st
	}
	defer positions.Close()

	statement, err := etoro.LoadStatement(activity, positions, p.currency)
	if err != nil {
		return fail(err)
	}

	resolver, warns := NewResolver(cfg)
	ledger, err := etoro.NewConverter(resolver, warns).Convert(statement)
	if err != nil {
		return fail(err)
	}
	return emit(etoro.Exchange, p.output, p.summary, ledger)
}

// emit writes the converted ledger and optionally renders its summary.
func emit(source, output string, summary bool, l *ledgerconv.Ledger) subcommands.ExitStatus {
	if err := WriteLedger(output, l); err != nil {
		return fail(err)
	}
	if summary {
		md := renderer.SummaryMarkdown(source, l)
		if output == "" {
			// The ledger went to stdout; keep the summary out of it.
			fmt.Fprint(os.Stderr, md)
		} else {
			printMarkdown(md)
		}
	}
	return subcommands.ExitSuccess
}
