package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ledgerconv/ledgerconv/ibkr"
)

type ibkrCmd struct {
	output  string
	summary bool
}

func (*ibkrCmd) Name() string     { return "ibkr" }
func (*ibkrCmd) Synopsis() string { return "convert an IBKR activity statement" }
func (*ibkrCmd) Usage() string {
	return `lconv ibkr [-o <file>] <statement.csv>

  Converts the cash movements of an Interactive Brokers activity statement
  (the CSV export) into the canonical ledger format. The statement is a
  concatenation of sections; deposits, withdrawals and broker fees are
  reconciled, other sections are ignored.

`
}

func (p *ibkrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Output file. Writes to stdout by default.")
	f.BoolVar(&p.summary, "summary", true, "Render a conversion summary after writing.")
}

func (p *ibkrCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected the activity statement file.")
		return subcommands.ExitUsageError
	}
	if _, err := LoadConfig(); err != nil {
		return fail(err)
	}

	src, st := openSource(f.Arg(0))
	if st != subcommands.ExitSuccess {
		return st
	}
	defer src.Close()

	statement, err := ibkr.LoadStatement(src)
	if err != nil {
		return fail(err)
	}

	warns := newWarnings()
	ledger, err := ibkr.NewConverter(warns).Convert(statement)
	if err != nil {
		return fail(err)
	}
	return emit(ibkr.Exchange, p.output, p.summary, ledger)
}
