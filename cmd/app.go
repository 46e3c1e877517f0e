// Package cmd implements the CLI application that converts brokerage
// exports into the canonical ledger format.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	ledgerconv "github.com/ledgerconv/ledgerconv"
	"github.com/ledgerconv/ledgerconv/config"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&etoroCmd{},
	&igCmd{},
	&igCFDCmd{},
	&schwabCmd{},
	&ibkrCmd{},
	&fmtCmd{},
	&topicCmd{},
}

// As a CLI application it has a very short lived lifecycle, so it is ok to
// use global variables.

var configFile = flag.String("config", "", "Path to the YAML config file (ticker translations, base currency)")
var Verbose = flag.Bool("v", false, "Verbose advisory output")

// LoadConfig reads the configured YAML file and wires the logger level.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if *Verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
	return cfg, nil
}

// newWarnings builds the warning sink for one conversion run. Sinks are
// run-scoped so warning deduplication never leaks between runs.
func newWarnings() ledgerconv.WarningSink {
	return ledgerconv.NewWarnings(os.Stderr)
}

// NewResolver builds the ticker resolver for one conversion run.
func NewResolver(cfg *config.Config) (*ledgerconv.Resolver, ledgerconv.WarningSink) {
	warns := newWarnings()
	return ledgerconv.NewResolver(cfg.Translations, warns), warns
}

// WriteLedger writes the converted ledger as CSV to the output path, or to
// stdout when the path is empty.
func WriteLedger(path string, l *ledgerconv.Ledger) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := ledgerconv.EncodeCSV(w, l); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d entries to %s\n", l.Len(), path)
	}
	return nil
}

// printMarkdown renders markdown for the terminal. If rendering fails the
// raw markdown is still printed.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// openSource opens one export file argument.
func openSource(path string) (*os.File, subcommands.ExitStatus) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", path, err)
		return nil, subcommands.ExitFailure
	}
	return f, subcommands.ExitSuccess
}

// fail prints a reconciliation or I/O error and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
