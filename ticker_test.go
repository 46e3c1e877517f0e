package ledgerconv

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	table := Translations{
		"IG":    {"Apple Inc": "AAPL"},
		"eToro": {"NSDQ100": "NSDQ100.IDX"},
	}
	r := NewResolver(table, Discard{})

	tests := []struct {
		name     string
		raw      string
		exchange string
		class    AssetClass
		want     string
	}{
		{"translated stock", "Apple Inc", "IG", Stock, "AAPL:STOCK"},
		{"translated index", "NSDQ100", "eToro", Stock, "NSDQ100.IDX:STOCK"},
		{"untranslated stock", "GOOG", "eToro", Stock, "GOOG:STOCK"},
		{"crypto passes through", "BTC", "eToro", Crypto, "BTC"},
		{"option is prefixed", "AAPL", "Schwab", Option, "OPT:AAPL"},
		{"unknown exchange", "TSLA", "Nowhere", Stock, "TSLA:STOCK"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Resolve(tc.raw, tc.exchange, tc.class)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestResolveUnsupportedClass(t *testing.T) {
	r := NewResolver(nil, Discard{})
	_, err := r.Resolve("AAPL", "Schwab", AssetClass(42))
	if !errors.Is(err, ErrUnsupportedAssetClass) {
		t.Fatalf("want ErrUnsupportedAssetClass, got %v", err)
	}
}

func TestResolveStrict(t *testing.T) {
	r := NewResolver(Translations{"IG": {"Apple Inc": "AAPL"}}, Discard{})

	got, err := r.ResolveStrict("Apple Inc", "IG", Stock)
	if err != nil || got != "AAPL:STOCK" {
		t.Fatalf("ResolveStrict = %q, %v", got, err)
	}
	if _, err := r.ResolveStrict("Unknown Market", "IG", Stock); err == nil {
		t.Fatal("want error for untranslated name")
	}
}

func TestResolveWarnsOncePerName(t *testing.T) {
	var buf strings.Builder
	r := NewResolver(nil, NewWarnings(&buf))

	// Unclean, unmapped names warn; repeats are silent.
	for i := 0; i < 3; i++ {
		if _, err := r.Resolve("Apple Inc", "IG", Stock); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := r.Resolve("Vodafone Group", "IG", Stock); err != nil {
		t.Fatal(err)
	}
	// Clean names and options never warn.
	if _, err := r.Resolve("AAPL", "IG", Stock); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve("weird option name", "Schwab", Option); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if got := strings.Count(out, "Apple Inc"); got != 1 {
		t.Errorf("want 1 warning for Apple Inc, got %d:\n%s", got, out)
	}
	if got := strings.Count(out, "Vodafone Group"); got != 1 {
		t.Errorf("want 1 warning for Vodafone Group, got %d:\n%s", got, out)
	}
	if strings.Contains(out, "AAPL") {
		t.Errorf("clean ticker should not warn:\n%s", out)
	}
	if strings.Contains(out, "weird option name") {
		t.Errorf("options should not warn:\n%s", out)
	}
}
