// Package normalize converts free-text quantity mentions into canonical
// numeric units, distinguishing an explicit zero from an absent value.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"freight_server/core/domain"
)

// TargetUnit selects the canonical unit a quantity is normalized to.
type TargetUnit string

const (
	UnitKG  TargetUnit = "kg"
	UnitCBM TargetUnit = "cbm"
)

// placeholders are source-unit strings that mean "not stated yet".
// They normalize to an absent value, never to zero.
var placeholders = map[string]bool{
	"TBD":             true,
	"N/A":             true,
	"NA":              true,
	"TO BE CONFIRMED": true,
	"TBC":             true,
	"PENDING":         true,
}

var (
	numberPattern = regexp.MustCompile(`[\d,]+\.?\d*`)
	// LxWxH measurements sometimes land in the volume field; they are
	// dimensions, not a volume, and must not be read as one.
	dimensionPattern = regexp.MustCompile(`\d+\s*[xX×]\s*\d+\s*[xX×]\s*\d+`)
)

// weightMultipliers converts a detected source unit to kilograms.
var weightMultipliers = map[string]float64{
	"kg":     1.0,
	"lbs":    0.453592,
	"tonnes": 1000.0,
}

// ParseQuantity normalizes a raw quantity mention to the target unit,
// rounded to two decimals. It returns nil when the text carries no
// usable value: empty, a placeholder, dimensions in a volume field, no
// digits, or a negative amount. A written "0" is a real value and comes
// back as 0.0, not nil.
func ParseQuantity(text string, unit TargetUnit) *float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if placeholders[strings.ToUpper(trimmed)] {
		return nil
	}
	if unit == UnitCBM && dimensionPattern.MatchString(trimmed) {
		return nil
	}

	raw := numberPattern.FindString(trimmed)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil
	}
	if value == 0 {
		return domain.FloatPtr(0.0)
	}

	if unit == UnitKG {
		value *= weightMultipliers[sourceWeightUnit(trimmed)]
	}
	if value < 0 {
		return nil
	}
	return domain.FloatPtr(domain.Round2(value))
}

// sourceWeightUnit detects the unit a weight was written in. Anything
// unrecognized is taken as kilograms already.
func sourceWeightUnit(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "lb") || strings.Contains(lower, "pound"):
		return "lbs"
	case strings.Contains(lower, "ton") || strings.Contains(lower, "mt") || strings.Contains(lower, "rt"):
		return "tonnes"
	default:
		return "kg"
	}
}
