// Package extract derives structured metadata from MIC corpus identifiers.
//
// An identifier is either a file path whose base name encodes a country
// code and date (e.g. "USA_20230115_report.txt"), or a leading content
// line carrying a dyad header ("USA-IRQ") and a long-form publication
// date, as found inside the yearly corpus files.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// rule pairs a recognition pattern with the function that turns its
// captures into metadata. Rules are evaluated in registration order and
// the first regexp match wins; new filename conventions are added by
// appending rules, not by branching.
type rule struct {
	name string
	re   *regexp.Regexp
	// build receives the full identifier and the submatches. Returning
	// an error degrades the whole extraction to unmatched: a pattern
	// that matched syntactically but carried an invalid date must not
	// propagate a corrupt date.
	build func(identifier string, groups []string) (domain.Metadata, error)
}

// longDateRe matches the long-form publication dates used inside the
// yearly corpus files, e.g. "January 15, 2023, Sunday".
var longDateRe = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`)

// Extractor applies an ordered list of metadata patterns
type Extractor struct {
	rules []rule
}

// NewExtractor creates an extractor with the recognized corpus conventions
func NewExtractor() *Extractor {
	e := &Extractor{}

	// Filename: CCC_YYYYMMDD_... or CCC-YYYYMMDD_...
	e.register("filename-compact-date",
		regexp.MustCompile(`^([A-Z]{2,3})[_-](\d{8})\b`),
		func(_ string, groups []string) (domain.Metadata, error) {
			date, err := time.Parse("20060102", groups[2])
			if err != nil {
				return domain.Metadata{}, err
			}
			return domain.Metadata{
				CountryCode:   groups[1],
				PublishedDate: date,
				Status:        domain.ExtractionMatched,
			}, nil
		})

	// Filename: CCC_YYYY-MM-DD_...
	e.register("filename-iso-date",
		regexp.MustCompile(`^([A-Z]{2,3})[_-](\d{4}-\d{2}-\d{2})\b`),
		func(_ string, groups []string) (domain.Metadata, error) {
			date, err := time.Parse("2006-01-02", groups[2])
			if err != nil {
				return domain.Metadata{}, err
			}
			return domain.Metadata{
				CountryCode:   groups[1],
				PublishedDate: date,
				Status:        domain.ExtractionMatched,
			}, nil
		})

	// Content: dyad header such as "USA-IRQ", with an optional long-form
	// publication date elsewhere in the identifier
	e.register("content-dyad",
		regexp.MustCompile(`\b([A-Z]{2,3})-([A-Z]{2,3})\b`),
		func(identifier string, groups []string) (domain.Metadata, error) {
			meta := domain.Metadata{
				CountryCode: groups[1] + "-" + groups[2],
				Status:      domain.ExtractionMatched,
			}
			if raw := longDateRe.FindString(identifier); raw != "" {
				date, err := time.Parse("January 2, 2006", raw)
				if err != nil {
					return domain.Metadata{}, err
				}
				meta.PublishedDate = date
			}
			return meta, nil
		})

	return e
}

// register appends a rule; later rules only apply when earlier ones miss
func (e *Extractor) register(name string, re *regexp.Regexp, build func(string, []string) (domain.Metadata, error)) {
	e.rules = append(e.rules, rule{name: name, re: re, build: build})
}

// Extract parses an identifier against the recognized patterns.
// Unmatched, empty, or malformed input returns unmatched metadata;
// Extract never fails.
func (e *Extractor) Extract(identifier string) domain.Metadata {
	if strings.TrimSpace(identifier) == "" {
		return unmatched()
	}

	// Filename rules anchor on the base name. Identifiers containing
	// newlines are content, not paths, and are matched as-is.
	base := identifier
	if !strings.ContainsRune(identifier, '\n') {
		base = filepath.Base(identifier)
	}

	for _, r := range e.rules {
		target := identifier
		if strings.HasPrefix(r.name, "filename-") {
			target = base
		}

		groups := r.re.FindStringSubmatch(target)
		if groups == nil {
			continue
		}

		meta, err := r.build(identifier, groups)
		if err != nil {
			// Matched shape, invalid semantics (e.g. month 13):
			// degrade rather than guess a corrected value.
			return unmatched()
		}
		return meta
	}

	return unmatched()
}

func unmatched() domain.Metadata {
	return domain.Metadata{Status: domain.ExtractionUnmatched}
}
