package dangerous

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain cargo", "20 pallets of textiles, Chennai to Jeddah", false},
		{"dg keyword", "Shipment contains DG cargo, please advise", true},
		{"dotted abbreviation", "cargo is d.g. per MSDS", true},
		{"dotted abbreviation at end", "shipment declared D.G.", true},
		{"hazardous", "Hazardous chemicals, UN approved drums", true},
		{"imo class", "IMO Class 3 flammable liquid", true},
		{"un number", "UN 1263 paint in 200L drums", true},
		{"un number no space", "un1263 paint", true},
		{"flammable", "flammable solvents", true},
		{"imdg", "stow per IMDG code", true},
		{"negation beats keyword", "non-hazardous chemicals, no DG declaration needed", false},
		{"non dg", "cargo is non DG", false},
		{"non-dg hyphen", "non-dg general cargo", false},
		{"not dangerous", "goods are not dangerous", false},
		{"non dangerous", "non dangerous cargo only", false},
		{"non hazmat", "non hazmat freight", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.in); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		mention string
		subject string
		body    string
		want    bool
	}{
		{"explicit yes", "YES", "general cargo", "nothing special", true},
		{"explicit no overrides keywords", "NO", "DG shipment", "hazardous", false},
		{"not mentioned scans text", "NOT_MENTIONED", "RFQ", "IMO class 8 corrosives", true},
		{"not mentioned clean text", "NOT_MENTIONED", "RFQ", "general cargo", false},
		{"unknown value scans text", "maybe", "", "UN 3480 lithium batteries", true},
		{"lowercase yes", "yes", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.mention, tt.subject, tt.body); got != tt.want {
				t.Errorf("Decide(%q, %q, %q) = %v, want %v",
					tt.mention, tt.subject, tt.body, got, tt.want)
			}
		})
	}
}
