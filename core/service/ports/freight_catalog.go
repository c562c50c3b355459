// Package ports implements the reference catalog and the multi-strategy
// port resolver that maps free-text port mentions to canonical codes.
package ports

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"freight_server/core/domain"
)

// ErrCatalogData marks a startup-time catalog configuration problem:
// the same display name mapped to two different codes, or an entry that
// is not a valid locode-style record. These corrupt every subsequent
// resolution, so Load fails fast instead of resolving them silently.
var ErrCatalogData = errors.New("catalog data error")

// curatedAbbrevs maps common city/port abbreviations to full codes.
// Entries here override the auto-derived 3-letter code suffixes.
var curatedAbbrevs = map[string]string{
	"SHA": "CNSHA",
	"MAA": "INMAA",
	"HK":  "HKHKG",
	"SIN": "SGSIN",
	"BLR": "INBLR",
	"BOM": "INNSA",
	"TXG": "CNTXG",
	"BKK": "THBKK",
	"SUB": "IDSUB",
	"JED": "SAJED",
	"DAM": "SAJED",
	"RUH": "SAJED",
	"GOA": "ITGOA",
	"HAM": "DEHAM",
	"MNL": "PHMNL",
	"OSA": "JPOSA",
	"YOK": "JPYOK",
	"PUS": "KRPUS",
	"KEL": "TWKEL",
	"HOU": "USHOU",
	"LAX": "USLAX",
	"SGN": "VNSGN",
	"CPT": "ZACPT",
	"LCH": "THLCH",
	"AMR": "TRAMR",
	"IZM": "TRIZM",
	"PKG": "MYPKG",
	"GZG": "CNGZG",
	"NSA": "CNNSA",
	"QIN": "CNQIN",
	"SZX": "CNSZX",
	"JEA": "AEJEA",
	"DAC": "BDDAC",
	"MUN": "INMUN",
	"WFD": "INWFD",
}

type catalogEntry struct {
	code    string
	name    string // variation as written in the reference set
	nameKey string // lowercased, trimmed
}

// Catalog holds the immutable lookup indices built from the port
// reference set. Build-then-freeze: a Catalog is never mutated after
// Load, so concurrent resolutions need no locking.
type Catalog struct {
	entries       []catalogEntry           // load order; fuzzy tie-break contract
	codeCanonical map[string]string        // code → first-seen name
	nameIndex     map[string]catalogEntry  // nameKey → stored entry
	codeNames     map[string][]catalogEntry // code → variations in load order
	abbrevIndex   map[string]string        // abbreviation → code
}

// Load builds a Catalog from an ordered sequence of port entries.
// Ordering is part of the contract: the first entry seen for a code
// becomes its canonical name, and load order breaks fuzzy-match ties.
func Load(entries []domain.PortEntry) (*Catalog, error) {
	c := &Catalog{
		codeCanonical: make(map[string]string),
		nameIndex:     make(map[string]catalogEntry),
		codeNames:     make(map[string][]catalogEntry),
		abbrevIndex:   make(map[string]string),
	}

	for i, e := range entries {
		code := strings.ToUpper(strings.TrimSpace(e.Code))
		name := strings.TrimSpace(e.Name)
		if !domain.IsPortCode(code) {
			return nil, fmt.Errorf("%w: entry %d has invalid code %q", ErrCatalogData, i, e.Code)
		}
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d (%s) has empty name", ErrCatalogData, i, code)
		}

		entry := catalogEntry{
			code:    code,
			name:    name,
			nameKey: strings.ToLower(name),
		}

		if prev, ok := c.nameIndex[entry.nameKey]; ok {
			if prev.code != code {
				return nil, fmt.Errorf("%w: name %q maps to both %s and %s",
					ErrCatalogData, name, prev.code, code)
			}
			// Exact duplicate of an earlier variation; earlier entry wins.
			continue
		}

		if _, ok := c.codeCanonical[code]; !ok {
			c.codeCanonical[code] = name
		}
		c.nameIndex[entry.nameKey] = entry
		c.codeNames[code] = append(c.codeNames[code], entry)
		c.entries = append(c.entries, entry)
	}

	c.buildAbbreviations()
	return c, nil
}

// LoadFile reads an ordered JSON array of {code, name} pairs and builds
// the catalog from it. Corrections to erroneous entries belong in this
// file, applied before load, never at runtime.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read port reference: %w", err)
	}
	var entries []domain.PortEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse port reference: %w", err)
	}
	return Load(entries)
}

// buildAbbreviations derives the abbreviation index: the last three
// characters of every known code (first-seen keeps the slot), then the
// curated table layered on top as the more specific source.
func (c *Catalog) buildAbbreviations() {
	seen := make(map[string]bool)
	for _, e := range c.entries {
		if seen[e.code] {
			continue
		}
		seen[e.code] = true
		suffix := e.code[len(e.code)-3:]
		if _, ok := c.abbrevIndex[suffix]; !ok {
			c.abbrevIndex[suffix] = e.code
		}
	}
	for abbrev, code := range curatedAbbrevs {
		c.abbrevIndex[abbrev] = code
	}
}

// CanonicalName returns the designated default display name for a code:
// the name of the first-loaded entry with that code.
func (c *Catalog) CanonicalName(code string) (string, bool) {
	name, ok := c.codeCanonical[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// NamesForCode returns every accepted display variation for a code, in
// load order.
func (c *Catalog) NamesForCode(code string) []string {
	entries := c.codeNames[strings.ToUpper(strings.TrimSpace(code))]
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	return names
}

// Len returns the number of distinct name variations loaded.
func (c *Catalog) Len() int {
	return len(c.entries)
}
