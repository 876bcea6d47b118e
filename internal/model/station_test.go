package model

import (
	"errors"
	"testing"
)

func TestParseAccountKey(t *testing.T) {
	t.Parallel()

	key, err := ParseAccountKey(" abc-id ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if key.Account != "ABC" || key.Site != SiteID {
		t.Fatalf("unexpected key: %+v", key)
	}
	if key.String() != "ABC-ID" {
		t.Fatalf("unexpected string: %s", key.String())
	}

	key, err = ParseAccountKey("shop_01-vn")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if key.Account != "SHOP_01" || key.Site != SiteVN {
		t.Fatalf("unexpected key: %+v", key)
	}
}

func TestParseAccountKey_InvalidSite(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"ABC-US", "ID", ""} {
		if _, err := ParseAccountKey(name); !errors.Is(err, ErrInvalidSite) {
			t.Fatalf("%q: want ErrInvalidSite, got %v", name, err)
		}
	}
}

func TestSites(t *testing.T) {
	t.Parallel()

	sites := Sites()
	if len(sites) != 6 {
		t.Fatalf("unexpected sites: %v", sites)
	}
	if sites[0] != SiteID || sites[5] != SiteVN {
		t.Fatalf("unexpected order: %v", sites)
	}
	if SiteTH.Currency() != "THB" || SiteMY.NameZH() != "马来西亚" {
		t.Fatalf("unexpected site metadata")
	}
}

func TestCoverageFlagString(t *testing.T) {
	t.Parallel()

	if Matched.String() != "1" || NotMatched.String() != "0" || NoAdData.String() != "" {
		t.Fatalf("unexpected flag strings")
	}
}
