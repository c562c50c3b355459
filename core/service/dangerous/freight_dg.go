// Package dangerous decides whether an email describes a dangerous
// goods shipment. Negation phrasing is checked before any positive
// keyword so "non-hazardous cargo" never reads as hazardous.
package dangerous

import (
	"regexp"
	"strings"

	"freight_server/core/domain"
)

type rule struct {
	pattern   *regexp.Regexp
	dangerous bool
}

// rules fire in order and the first hit decides. All negations come
// first; positives only apply when no negation matched anywhere in the
// text.
var rules = []rule{
	{regexp.MustCompile(`\bnon[-\s]?dg\b`), false},
	{regexp.MustCompile(`\bnon[-\s]?hazardous\b`), false},
	{regexp.MustCompile(`\bnot\s+dangerous\b`), false},
	{regexp.MustCompile(`\bnon[-\s]?dangerous\b`), false},
	{regexp.MustCompile(`\bnon\s+hazmat\b`), false},
	{regexp.MustCompile(`\b(dg\b|d\.g\.)`), true},
	{regexp.MustCompile(`\bdangerous\b`), true},
	{regexp.MustCompile(`\bhazardous\b`), true},
	{regexp.MustCompile(`\bhazmat\b`), true},
	{regexp.MustCompile(`\bclass\s*[0-9]\b`), true},
	{regexp.MustCompile(`\bimo\b`), true},
	{regexp.MustCompile(`\bimdg\b`), true},
	{regexp.MustCompile(`\bun\s*[0-9]{4}\b`), true},
	{regexp.MustCompile(`\bflammable\b`), true},
}

// Classify scans text for dangerous goods indicators. Silence means
// not dangerous.
func Classify(text string) bool {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			return r.dangerous
		}
	}
	return false
}

// Decide combines the draft's verdict with a keyword scan: an explicit
// YES or NO from the draft is final, anything else falls back to
// scanning the subject and body together.
func Decide(mention, subject, body string) bool {
	switch strings.ToUpper(strings.TrimSpace(mention)) {
	case domain.DGMentionYes:
		return true
	case domain.DGMentionNo:
		return false
	}
	return Classify(subject + " " + body)
}
