package ledgerconv

import (
	"errors"
	"fmt"
	"regexp"
)

// AssetClass discriminates the symbol spaces that brokers let collide.
type AssetClass int

const (
	Crypto AssetClass = iota
	Stock             // stocks and stock-like derivatives (ETFs)
	Option
)

func (c AssetClass) String() string {
	switch c {
	case Crypto:
		return "crypto"
	case Stock:
		return "stock"
	case Option:
		return "option"
	default:
		return fmt.Sprintf("asset-class(%d)", int(c))
	}
}

// ErrUnsupportedAssetClass is returned by Resolve for a class with no
// encoding rule.
var ErrUnsupportedAssetClass = errors.New("unsupported asset class")

// Translations maps (exchange, broker-specific instrument name) to a
// canonical symbol. It is static, read-only input, supplied by
// configuration.
type Translations map[string]map[string]string

// Lookup returns the canonical symbol for a raw name on an exchange.
func (t Translations) Lookup(exchange, raw string) (string, bool) {
	m, ok := t[exchange]
	if !ok {
		return "", false
	}
	sym, ok := m[raw]
	return sym, ok
}

// cleanTicker matches names that look like standardised tickers. Anything
// else is probably a free-text instrument name and risks not matching the
// same share imported from another exchange.
var cleanTicker = regexp.MustCompile(`^[A-Z]+$`)

// Resolver maps broker-specific instrument names to canonical symbols.
//
// Resolution applies the static translation table first, then encodes the
// asset class into the symbol so that crypto, stock and option names cannot
// collide: crypto symbols pass through unchanged, stock-like symbols get a
// ":STOCK" suffix, options an "OPT:" prefix.
type Resolver struct {
	table Translations
	warns WarningSink
}

// NewResolver builds a Resolver over a translation table. The sink receives
// one advisory warning per distinct unmapped, unclean name.
func NewResolver(table Translations, warns WarningSink) *Resolver {
	if warns == nil {
		warns = Discard{}
	}
	return &Resolver{table: table, warns: warns}
}

// ResolveStrict is Resolve for exchanges whose exports carry long-form
// market names instead of tickers. A missing translation is an error, not
// a warning, because the raw name is never usable as a symbol.
func (r *Resolver) ResolveStrict(raw, exchange string, class AssetClass) (string, error) {
	if _, ok := r.table.Lookup(exchange, raw); !ok {
		return "", fmt.Errorf("no ticker translation for %q on %s: add one to the config file", raw, exchange)
	}
	return r.Resolve(raw, exchange, class)
}

// Resolve returns the canonical, class-encoded symbol for a raw instrument
// name as exported by the given exchange.
func (r *Resolver) Resolve(raw, exchange string, class AssetClass) (string, error) {
	ticker, ok := r.table.Lookup(exchange, raw)
	if !ok {
		ticker = raw
		if class != Option && !cleanTicker.MatchString(ticker) {
			r.warns.Warnf("ticker", exchange+" "+ticker,
				"The ticker %q from %s contains characters other than capital letters. "+
					"This is probably not a standardised name and can lead to shares not being "+
					"matched between exchanges. Consider adding a translation to the config file.",
				ticker, exchange)
		}
	}

	switch class {
	case Crypto:
		return ticker, nil
	case Stock:
		// Stocks and stock-like derivatives are taxed identically, so one
		// marker covers both. What matters is that the name cannot collide
		// with the crypto symbol space.
		return ticker + ":STOCK", nil
	case Option:
		return "OPT:" + ticker, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAssetClass, class)
	}
}
