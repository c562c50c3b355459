package ports

import "testing"

func TestResolveExactCode(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		in       string
		wantCode string
		wantName string
	}{
		{"INMAA", "INMAA", "Chennai ICD"},
		{"hkhkg", "HKHKG", "Hong Kong"},
		{"  SGSIN  ", "SGSIN", "Singapore"},
	}

	for _, tt := range tests {
		got := Resolve(tt.in, c)
		if got.Code != tt.wantCode || got.Name != tt.wantName {
			t.Errorf("Resolve(%q) = %+v, want {%s %s}", tt.in, got, tt.wantCode, tt.wantName)
		}
	}
}

func TestResolveExactNameReturnsStoredVariation(t *testing.T) {
	c := newTestCatalog(t)

	got := Resolve("madras icd", c)
	if got.Code != "INMAA" {
		t.Fatalf("Resolve(madras icd).Code = %q, want INMAA", got.Code)
	}
	// The matched variation, not the canonical "Chennai ICD".
	if got.Name != "Madras ICD" {
		t.Errorf("Resolve(madras icd).Name = %q, want Madras ICD", got.Name)
	}
}

func TestResolveAbbreviation(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		in       string
		wantCode string
		wantName string
	}{
		{"MAA", "INMAA", "Chennai ICD"},   // inland depot, "<City> ICD" variation
		{"blr", "INBLR", "Bangalore ICD"}, // lowercase input
		{"HK", "HKHKG", "Hong Kong"},      // 2-letter curated
		{"UKB", "JPUKB", "Kobe"},          // auto-derived suffix
		{"DAM", "SAJED", "Jeddah"},        // curated override wins over SADMM
		{"S IN", "SGSIN", "Singapore"},    // internal whitespace stripped
	}

	for _, tt := range tests {
		got := Resolve(tt.in, c)
		if got.Code != tt.wantCode || got.Name != tt.wantName {
			t.Errorf("Resolve(%q) = %+v, want {%s %s}", tt.in, got, tt.wantCode, tt.wantName)
		}
	}
}

func TestResolveFuzzy(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name     string
		in       string
		wantCode string
	}{
		{"qualifier stripped substring", "Jeddah Port", "SAJED"},
		{"partial containment", "Banga", "INBLR"},
		{"token overlap", "Hyderabad container terminal", "INHYD"},
		{"icd qualifier", "ICD Hyderabad", "INHYD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.in, c)
			if got.Code != tt.wantCode {
				t.Errorf("Resolve(%q) = %+v, want code %s", tt.in, got, tt.wantCode)
			}
		})
	}
}

func TestResolveNeverGuesses(t *testing.T) {
	c := newTestCatalog(t)

	tests := []string{
		"",
		"   ",
		"Zanzibar",
		"XYZBQ",
		"some random depot nobody knows",
		"in",  // substring of several names, too short to trust
		"ICD", // qualifier only, nothing left after stripping
	}

	for _, in := range tests {
		if got := Resolve(in, c); got.Resolved() {
			t.Errorf("Resolve(%q) = %+v, want unresolved", in, got)
		}
	}
}

func TestResolveTierOrder(t *testing.T) {
	c := newTestCatalog(t)

	// "SADMM" is a valid code and must resolve as one, not fall through
	// to fuzzy matching against anything else.
	got := Resolve("SADMM", c)
	if got.Code != "SADMM" || got.Name != "Dammam" {
		t.Errorf("Resolve(SADMM) = %+v, want {SADMM Dammam}", got)
	}

	// A full name that also looks like it could fuzzy-match elsewhere
	// stops at the exact-name tier.
	got = Resolve("Chennai", c)
	if got.Code != "INMAA" || got.Name != "Chennai" {
		t.Errorf("Resolve(Chennai) = %+v, want {INMAA Chennai}", got)
	}
}
