// Package itinerary detects multi-leg routing lines inside email bodies
// and normalizes them into a single origin/destination pair, either by
// aggregating consolidation legs or by keeping the first leg.
package itinerary

import (
	"regexp"
	"strings"

	"freight_server/core/domain"
	"freight_server/core/service/ports"
)

// legPattern captures one "ORIGIN → DESTINATION [quantity unit]"
// fragment. Origins are written as short codes or abbreviations,
// destinations as codes, abbreviations or short names.
var legPattern = regexp.MustCompile(
	`(?i)([A-Za-z]{2,5})\s*→\s*([A-Za-z][A-Za-z\s]{1,19}(?:ICD)?)\s*([0-9.,]+\s*(?:cbm|kgs?|rt|mt)?)?`)

// Summary is the normalized single origin/destination view of a
// multi-leg routing, plus the cargo fragments chosen to represent it.
type Summary struct {
	Origin      domain.ResolvedPort
	Destination domain.ResolvedPort
	WeightText  string
	CBMText     string
	Aggregated  bool
}

// Detect reports whether a body carries a multi-leg routing: at least
// one arrow-notation leg and a semicolon separating legs. Either signal
// alone is too common in ordinary prose to act on.
func Detect(body string) bool {
	return strings.Contains(body, ";") && strings.Contains(body, "→")
}

// ParseLegs extracts every leg from the body in order of appearance and
// resolves both endpoints against the catalog. Unresolvable endpoints
// stay unresolved on the leg; they are skipped at aggregation, not
// guessed at.
func ParseLegs(body string, c *ports.Catalog) []domain.ShipmentLeg {
	matches := legPattern.FindAllStringSubmatch(body, -1)
	legs := make([]domain.ShipmentLeg, 0, len(matches))
	for i, m := range matches {
		leg := domain.ShipmentLeg{
			OrderIndex:      i,
			OriginText:      strings.TrimSpace(m[1]),
			DestinationText: strings.TrimSpace(m[2]),
			CargoText:       strings.TrimSpace(m[3]),
		}
		leg.Origin = ports.Resolve(leg.OriginText, c)
		leg.Destination = ports.Resolve(leg.DestinationText, c)
		legs = append(legs, leg)
	}
	return legs
}

// ShouldAggregate reports whether the legs describe one consolidated
// shipment: every resolved destination sits in the same country, or
// every resolved origin does. Unresolved endpoints carry no country
// evidence and are ignored; a side with nothing resolved cannot
// trigger aggregation on its own.
func ShouldAggregate(legs []domain.ShipmentLeg) bool {
	return sameCountry(legs, func(l domain.ShipmentLeg) domain.ResolvedPort {
		return l.Destination
	}) || sameCountry(legs, func(l domain.ShipmentLeg) domain.ResolvedPort {
		return l.Origin
	})
}

func sameCountry(legs []domain.ShipmentLeg, pick func(domain.ShipmentLeg) domain.ResolvedPort) bool {
	prefix := ""
	for _, leg := range legs {
		port := pick(leg)
		if !port.Resolved() {
			continue
		}
		p := domain.CountryPrefix(port.Code)
		if prefix == "" {
			prefix = p
			continue
		}
		if p != prefix {
			return false
		}
	}
	return prefix != ""
}

// Normalize parses the body and reduces its legs to one Summary. The
// boolean is false when the body holds no parseable legs and the caller
// should fall back to whole-email extraction.
func Normalize(body string, c *ports.Catalog) (*Summary, bool) {
	if !Detect(body) {
		return nil, false
	}
	legs := ParseLegs(body, c)
	if len(legs) == 0 {
		return nil, false
	}
	if ShouldAggregate(legs) {
		return aggregate(legs), true
	}
	return firstLeg(legs), true
}

// aggregate folds consolidation legs into one summary: endpoint codes
// keep the first distinct value in leg order, names join every distinct
// variation with " / ", and cargo fragments come from the first leg
// that mentions each unit family.
func aggregate(legs []domain.ShipmentLeg) *Summary {
	originCode, originName := foldEndpoints(legs, func(l domain.ShipmentLeg) domain.ResolvedPort {
		return l.Origin
	})
	destCode, destName := foldEndpoints(legs, func(l domain.ShipmentLeg) domain.ResolvedPort {
		return l.Destination
	})
	return &Summary{
		Origin:      domain.ResolvedPort{Code: originCode, Name: originName},
		Destination: domain.ResolvedPort{Code: destCode, Name: destName},
		WeightText:  firstCargo(legs, isWeightText),
		CBMText:     firstCargo(legs, isVolumeText),
		Aggregated:  true,
	}
}

// firstLeg keeps leg zero verbatim as the shipment's endpoints. Its
// cargo fragment feeds whichever quantity family it mentions.
func firstLeg(legs []domain.ShipmentLeg) *Summary {
	head := legs[0]
	s := &Summary{
		Origin:      head.Origin,
		Destination: head.Destination,
	}
	if isWeightText(head.CargoText) {
		s.WeightText = head.CargoText
	}
	if isVolumeText(head.CargoText) {
		s.CBMText = head.CargoText
	}
	return s
}

// foldEndpoints deduplicates the resolved codes and names of one
// endpoint side across legs, preserving leg order. The code of the
// first resolved leg stands for the whole consolidation; every distinct
// name survives in the joined display name.
func foldEndpoints(legs []domain.ShipmentLeg, pick func(domain.ShipmentLeg) domain.ResolvedPort) (string, string) {
	var code string
	var names []string
	seen := make(map[string]bool)
	for _, leg := range legs {
		port := pick(leg)
		if !port.Resolved() {
			continue
		}
		if code == "" {
			code = port.Code
		}
		if !seen[port.Name] {
			seen[port.Name] = true
			names = append(names, port.Name)
		}
	}
	return code, strings.Join(names, " / ")
}

func firstCargo(legs []domain.ShipmentLeg, match func(string) bool) string {
	for _, leg := range legs {
		if leg.CargoText != "" && match(leg.CargoText) {
			return leg.CargoText
		}
	}
	return ""
}

func isVolumeText(text string) bool {
	return strings.Contains(strings.ToLower(text), "cbm")
}

func isWeightText(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "kg") ||
		strings.Contains(lower, "rt") ||
		strings.Contains(lower, "mt")
}
