package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ledgerconv/ledgerconv/ig"
)

type igCmd struct {
	output  string
	summary bool
}

func (*igCmd) Name() string     { return "ig" }
func (*igCmd) Synopsis() string { return "convert an IG share-dealing export pair" }
func (*igCmd) Usage() string {
	return `lconv ig [-o <file>] <first.csv> <second.csv>

  Converts an IG share-dealing account export into the canonical ledger
  format. IG produces two files, "TradeHistory" and "TransactionHistory";
  pass both, in either order.

  IG exports carry no tickers, only free-text market names. Every traded
  instrument has to have a translation in the config file.

`
}

func (p *igCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Output file. Writes to stdout by default.")
	f.BoolVar(&p.summary, "summary", true, "Render a conversion summary after writing.")
}

func (p *igCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected the TradeHistory and TransactionHistory files.")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}

	first, st := openSource(f.Arg(0))
	if st != subcommands.ExitSuccess {
		return st
	}
	defer first.Close()
	second, st := openSource(f.Arg(1))
	if st != subcommands.ExitSuccess {
		return st
	}
	defer second.Close()

	statement, err := ig.LoadSharesFiles(first, second)
	if err != nil {
		return fail(err)
	}

	resolver, warns := NewResolver(cfg)
	ledger, err := ig.NewSharesConverter(resolver, warns).Convert(statement)
	if err != nil {
		return fail(err)
	}
	return emit(ig.Exchange, p.output, p.summary, ledger)
}

type igCFDCmd struct {
	output  string
	summary bool
}

func (*igCFDCmd) Name() string     { return "ig-cfd" }
func (*igCFDCmd) Synopsis() string { return "convert an IG CFD trade ledger" }
func (*igCFDCmd) Usage() string {
	return `lconv ig-cfd [-o <file>] <trades.csv>

  Converts an IG CFD account trade ledger into the canonical ledger format.
  Only closed trades have a result; opening rows are skipped.

`
}

func (p *igCFDCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Output file. Writes to stdout by default.")
	f.BoolVar(&p.summary, "summary", true, "Render a conversion summary after writing.")
}

func (p *igCFDCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected the CFD trade ledger file.")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}

	src, st := openSource(f.Arg(0))
	if st != subcommands.ExitSuccess {
		return st
	}
	defer src.Close()

	trades, err := ig.LoadCFDFile(src)
	if err != nil {
		return fail(err)
	}

	resolver, warns := NewResolver(cfg)
	ledger, err := ig.NewCFDConverter(resolver, warns).Convert(trades)
	if err != nil {
		return fail(err)
	}
	return emit(ig.ExchangeCFD, p.output, p.summary, ledger)
}
