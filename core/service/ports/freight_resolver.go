package ports

import (
	"strings"

	"freight_server/core/domain"
)

// strategy is one resolution tier: it either produces a confident match
// or reports a miss so control falls through to the next tier.
type strategy func(text string, c *Catalog) (domain.ResolvedPort, bool)

// strategies in fallback order: exact code, exact name, abbreviation,
// fuzzy. First match wins.
var strategies = []strategy{
	matchExactCode,
	matchExactName,
	matchAbbreviation,
	matchFuzzy,
}

// Resolve maps one raw port mention to a catalog port. An unresolvable
// mention yields the zero ResolvedPort; a code is never fabricated and
// Resolve never fails.
func Resolve(raw string, c *Catalog) domain.ResolvedPort {
	text := strings.TrimSpace(raw)
	if text == "" || c == nil {
		return domain.ResolvedPort{}
	}
	for _, try := range strategies {
		if port, ok := try(text, c); ok {
			return port
		}
	}
	return domain.ResolvedPort{}
}

// matchExactCode matches a 5-character locode-style identifier,
// case-insensitively, and returns the canonical name for it.
func matchExactCode(text string, c *Catalog) (domain.ResolvedPort, bool) {
	code := strings.ToUpper(text)
	if !domain.IsPortCode(code) {
		return domain.ResolvedPort{}, false
	}
	name, ok := c.CanonicalName(code)
	if !ok {
		return domain.ResolvedPort{}, false
	}
	return domain.ResolvedPort{Code: code, Name: name}, true
}

// matchExactName matches a full display name case-insensitively. It
// returns the stored variation that matched, not the canonical name:
// downstream consumers expect the phrasing that appears in the source.
func matchExactName(text string, c *Catalog) (domain.ResolvedPort, bool) {
	entry, ok := c.nameIndex[strings.ToLower(text)]
	if !ok {
		return domain.ResolvedPort{}, false
	}
	return domain.ResolvedPort{Code: entry.code, Name: entry.name}, true
}

// inlandDepotCities maps Indian inland-depot abbreviations to the city
// whose plain "<City> ICD" variation is preferred over the canonical.
var inlandDepotCities = map[string]string{
	"MAA": "Chennai",
	"BLR": "Bangalore",
	"HYD": "Hyderabad",
	"BOM": "Mumbai",
}

// matchAbbreviation matches short 2-4 letter city/port abbreviations
// against the curated table and the auto-derived code suffixes.
func matchAbbreviation(text string, c *Catalog) (domain.ResolvedPort, bool) {
	abbrev := strings.ToUpper(strings.Join(strings.Fields(text), ""))
	if len(abbrev) < 2 || len(abbrev) > 4 || !isLetters(abbrev) {
		return domain.ResolvedPort{}, false
	}
	code, ok := c.abbrevIndex[abbrev]
	if !ok {
		return domain.ResolvedPort{}, false
	}
	return domain.ResolvedPort{Code: code, Name: c.abbreviationName(abbrev, code)}, true
}

// abbreviationName picks the display name for an abbreviation hit. For
// the Indian inland depots the simple "<City> ICD" variation matches
// source phrasing better than the canonical; everything else uses the
// canonical name.
func (c *Catalog) abbreviationName(abbrev, code string) string {
	if city, ok := inlandDepotCities[abbrev]; ok {
		key := strings.ToLower(city) + " icd"
		if entry, ok := c.nameIndex[key]; ok && entry.code == code {
			return entry.name
		}
	}
	name, _ := c.CanonicalName(code)
	return name
}

// matchFuzzy compares the mention against every catalog variation after
// stripping common qualifier tokens. Substring containment is tried
// first; otherwise the variation with the highest word-token overlap
// wins, requiring at least one shared token. Ties break by catalog load
// order, earliest wins. No qualifying candidate means no match rather
// than a guess.
func matchFuzzy(text string, c *Catalog) (domain.ResolvedPort, bool) {
	lower := strings.ToLower(text)
	query := stripQualifiers(lower)
	// Qualifier-only or tiny fragments would containment-match almost
	// any catalog name; they resolve to nothing instead.
	if len(query) < 4 {
		return domain.ResolvedPort{}, false
	}
	for _, e := range c.entries {
		nameClean := stripQualifiers(e.nameKey)
		if nameClean == "" {
			continue
		}
		if strings.Contains(nameClean, query) || strings.Contains(query, nameClean) {
			return domain.ResolvedPort{Code: e.code, Name: e.name}, true
		}
	}

	queryTokens := tokenSet(lower)
	if len(queryTokens) == 0 {
		return domain.ResolvedPort{}, false
	}

	var best catalogEntry
	bestScore := 0
	for _, e := range c.entries {
		score := 0
		for _, tok := range strings.Fields(e.nameKey) {
			if queryTokens[tok] {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = e
		}
	}
	if bestScore == 0 {
		return domain.ResolvedPort{}, false
	}
	return domain.ResolvedPort{Code: best.code, Name: best.name}, true
}

// stripQualifiers removes the "icd" and "port" qualifier tokens that
// appear inconsistently between mentions and catalog names.
func stripQualifiers(s string) string {
	s = strings.ReplaceAll(s, "icd", "")
	s = strings.ReplaceAll(s, "port", "")
	return strings.TrimSpace(s)
}

func tokenSet(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		tokens[tok] = true
	}
	return tokens
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
