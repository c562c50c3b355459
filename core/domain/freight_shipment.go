package domain

import (
	"math"
	"regexp"
	"strings"
)

// ProductLine identifies the commercial lane of a shipment.
type ProductLine = string

const (
	ProductLineSeaImportLCL ProductLine = "pl_sea_import_lcl"
	ProductLineSeaExportLCL ProductLine = "pl_sea_export_lcl"
)

// DefaultIncoterm is applied when the email mentions no recognized incoterm.
const DefaultIncoterm = "FOB"

// validIncoterms is the closed set of accepted shipping terms.
var validIncoterms = map[string]bool{
	"FOB": true, "CIF": true, "CFR": true, "EXW": true, "DDP": true,
	"DAP": true, "FCA": true, "CPT": true, "CIP": true, "DPU": true,
}

// NormalizeIncoterm uppercases and validates an incoterm mention.
// Unrecognized or empty values fall back to DefaultIncoterm.
func NormalizeIncoterm(raw string) string {
	term := strings.ToUpper(strings.TrimSpace(raw))
	switch strings.ToLower(term) {
	case "", "null", "none", "not mentioned":
		return DefaultIncoterm
	}
	if validIncoterms[term] {
		return term
	}
	return DefaultIncoterm
}

// PortEntry is one accepted display-name variation for a port code.
// The same code may appear under several entries, one per variation.
type PortEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var portCodePattern = regexp.MustCompile(`^[A-Z0-9]{5}$`)

// IsPortCode reports whether s looks like a 5-character locode-style
// identifier (2-letter country prefix + 3-letter location suffix).
func IsPortCode(s string) bool {
	return portCodePattern.MatchString(s)
}

// CountryPrefix returns the 2-letter country prefix of a port code.
func CountryPrefix(code string) string {
	if len(code) < 2 {
		return ""
	}
	return code[:2]
}

// ResolvedPort is the resolver's answer for one raw port mention.
// The zero value means "no confident match"; a guessed code is never produced.
type ResolvedPort struct {
	Code string
	Name string
}

// Resolved reports whether the mention was matched to a catalog code.
func (p ResolvedPort) Resolved() bool {
	return p.Code != ""
}

// ShipmentLeg is one origin→destination segment parsed from a
// multi-segment itinerary, in source-text order.
type ShipmentLeg struct {
	OrderIndex      int
	OriginText      string
	DestinationText string
	CargoText       string

	Origin      ResolvedPort
	Destination ResolvedPort
}

// ShipmentRecord is the final normalized output for one email.
// Immutable once returned from the extraction pipeline.
type ShipmentRecord struct {
	ID                  string   `json:"id"`
	ProductLine         string   `json:"product_line"`
	OriginPortCode      *string  `json:"origin_port_code"`
	OriginPortName      *string  `json:"origin_port_name"`
	DestinationPortCode *string  `json:"destination_port_code"`
	DestinationPortName *string  `json:"destination_port_name"`
	Incoterm            string   `json:"incoterm"`
	CargoWeightKG       *float64 `json:"cargo_weight_kg"`
	CargoCBM            *float64 `json:"cargo_cbm"`
	IsDangerous         bool     `json:"is_dangerous"`
	ExtractionFailed    bool     `json:"extraction_failed,omitempty"`
}

// SetOrigin fills the origin fields from a resolved port, leaving them
// null when the mention was unresolved.
func (r *ShipmentRecord) SetOrigin(p ResolvedPort) {
	if p.Resolved() {
		r.OriginPortCode = StringPtr(p.Code)
		r.OriginPortName = StringPtr(p.Name)
	}
}

// SetDestination fills the destination fields from a resolved port.
func (r *ShipmentRecord) SetDestination(p ResolvedPort) {
	if p.Resolved() {
		r.DestinationPortCode = StringPtr(p.Code)
		r.DestinationPortName = StringPtr(p.Name)
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }

// Round2 rounds to 2 decimal places, half away from zero. All quantity
// fields in a ShipmentRecord use this single rounding rule.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
