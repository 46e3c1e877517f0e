package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	ledgerconv "github.com/ledgerconv/ledgerconv"
	"github.com/ledgerconv/ledgerconv/renderer"
)

type fmtCmd struct {
	output string
	print  bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats a converted ledger file into canonical form"
}
func (*fmtCmd) Usage() string {
	return `lconv fmt [-o <file>] [-print] <ledger.csv>

  Validates and formats a converted ledger file. The file is decoded,
  sorted by timestamp, and written back in canonical column order. With
  -print the ledger is rendered as a markdown table instead.

Usage Examples:
# Rewrite a ledger in-place.
$ lconv fmt -o ledger.csv ledger.csv

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Output file. Writes to stdout by default.")
	f.BoolVar(&p.print, "print", false, "Render the ledger as a markdown table instead of CSV.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected a converted ledger file.")
		return subcommands.ExitUsageError
	}
	src, st := openSource(f.Arg(0))
	if st != subcommands.ExitSuccess {
		return st
	}
	ledger, err := ledgerconv.DecodeCSV(src)
	src.Close()
	if err != nil {
		return fail(fmt.Errorf("decoding %q: %w", f.Arg(0), err))
	}
	ledger.Sort()

	if p.print {
		printMarkdown(renderer.EntriesMarkdown(ledger))
		return subcommands.ExitSuccess
	}
	if err := WriteLedger(p.output, ledger); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
