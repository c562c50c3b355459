package ports

import (
	"errors"
	"testing"

	"freight_server/core/domain"
)

// testEntries mirrors the shape of the production reference set: several
// variations per code, intended canonical first.
func testEntries() []domain.PortEntry {
	return []domain.PortEntry{
		{Code: "INMAA", Name: "Chennai ICD"},
		{Code: "INMAA", Name: "Chennai"},
		{Code: "INMAA", Name: "Madras ICD"},
		{Code: "INBLR", Name: "Bangalore ICD"},
		{Code: "INBLR", Name: "Bangalore"},
		{Code: "INHYD", Name: "Hyderabad ICD"},
		{Code: "SAJED", Name: "Jeddah"},
		{Code: "SADMM", Name: "Dammam"},
		{Code: "SARUH", Name: "Riyadh"},
		{Code: "HKHKG", Name: "Hong Kong"},
		{Code: "SGSIN", Name: "Singapore"},
		{Code: "JPUKB", Name: "Kobe"},
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(testEntries())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestCanonicalNameIsFirstLoaded(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		code string
		want string
	}{
		{"INMAA", "Chennai ICD"},
		{"INBLR", "Bangalore ICD"},
		{"SAJED", "Jeddah"},
		{"hkhkg", "Hong Kong"}, // lookup is case-insensitive
	}

	for _, tt := range tests {
		got, ok := c.CanonicalName(tt.code)
		if !ok {
			t.Errorf("CanonicalName(%q): no entry", tt.code)
			continue
		}
		if got != tt.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}

	if _, ok := c.CanonicalName("XXXXX"); ok {
		t.Errorf("CanonicalName(XXXXX): expected no entry")
	}
}

func TestNamesForCodePreservesLoadOrder(t *testing.T) {
	c := newTestCatalog(t)

	got := c.NamesForCode("INMAA")
	want := []string{"Chennai ICD", "Chennai", "Madras ICD"}
	if len(got) != len(want) {
		t.Fatalf("NamesForCode(INMAA) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NamesForCode(INMAA)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadRejectsNameCollisionAcrossCodes(t *testing.T) {
	_, err := Load([]domain.PortEntry{
		{Code: "INMAA", Name: "Chennai ICD"},
		{Code: "INBLR", Name: "Chennai ICD"},
	})
	if !errors.Is(err, ErrCatalogData) {
		t.Fatalf("Load with colliding name: err = %v, want ErrCatalogData", err)
	}
}

func TestLoadToleratesExactDuplicateEntry(t *testing.T) {
	c, err := Load([]domain.PortEntry{
		{Code: "INMAA", Name: "Chennai ICD"},
		{Code: "INMAA", Name: "Chennai ICD"},
	})
	if err != nil {
		t.Fatalf("Load with duplicate entry: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLoadRejectsMalformedEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.PortEntry
	}{
		{"empty code", domain.PortEntry{Code: "", Name: "Nowhere"}},
		{"short code", domain.PortEntry{Code: "INMA", Name: "Chennai"}},
		{"long code", domain.PortEntry{Code: "INMAAX", Name: "Chennai"}},
		{"empty name", domain.PortEntry{Code: "INMAA", Name: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load([]domain.PortEntry{tt.entry}); !errors.Is(err, ErrCatalogData) {
				t.Errorf("Load(%+v): err = %v, want ErrCatalogData", tt.entry, err)
			}
		})
	}
}

func TestAbbreviationIndexCuratedOverridesSuffix(t *testing.T) {
	c := newTestCatalog(t)

	// DMM is auto-derived from SADMM; DAM is curated and deliberately
	// points at SAJED even though SADMM carries the Dammam name.
	if code := c.abbrevIndex["DMM"]; code != "SADMM" {
		t.Errorf("abbrev DMM = %q, want SADMM", code)
	}
	if code := c.abbrevIndex["DAM"]; code != "SAJED" {
		t.Errorf("abbrev DAM = %q, want SAJED (curated override)", code)
	}
	// UKB exists only via the auto-derived suffix.
	if code := c.abbrevIndex["UKB"]; code != "JPUKB" {
		t.Errorf("abbrev UKB = %q, want JPUKB", code)
	}
}
