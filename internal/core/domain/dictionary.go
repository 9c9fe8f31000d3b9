package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Dictionary is an immutable term to synonyms mapping.
// Once published it is never mutated, so any number of readers may share it.
type Dictionary struct {
	mapping     map[string][]string
	rules       int
	skipped     int
	fingerprint string
	builtAt     time.Time
}

// NewDictionary takes ownership of mapping and freezes it.
// Synonym lists are deduplicated and sorted.
func NewDictionary(mapping map[string][]string, rules, skipped int) *Dictionary {
	frozen := make(map[string][]string, len(mapping))
	for term, syns := range mapping {
		if term == "" || len(syns) == 0 {
			continue
		}
		sorted := slices.Clone(syns)
		slices.Sort(sorted)
		frozen[term] = slices.Compact(sorted)
	}

	return &Dictionary{
		mapping:     frozen,
		rules:       rules,
		skipped:     skipped,
		fingerprint: fingerprint(frozen),
		builtAt:     time.Now(),
	}
}

// EmptyDictionary returns a valid dictionary that knows no terms.
func EmptyDictionary() *Dictionary {
	return NewDictionary(nil, 0, 0)
}

// Lookup returns the synonyms of term, or nil if the term is unknown.
// The returned slice is a copy.
func (d *Dictionary) Lookup(term string) []string {
	syns, ok := d.mapping[term]
	if !ok {
		return nil
	}
	return slices.Clone(syns)
}

// Contains reports whether term has at least one synonym.
func (d *Dictionary) Contains(term string) bool {
	_, ok := d.mapping[term]
	return ok
}

// Terms returns every known term in sorted order.
func (d *Dictionary) Terms() []string {
	return slices.Sorted(maps.Keys(d.mapping))
}

// RuleCount is the number of rules that contributed to the dictionary.
func (d *Dictionary) RuleCount() int {
	return d.rules
}

// TermCount is the number of distinct terms with synonyms.
func (d *Dictionary) TermCount() int {
	return len(d.mapping)
}

// SkippedCount is the number of malformed rules skipped in lenient mode.
func (d *Dictionary) SkippedCount() int {
	return d.skipped
}

// Fingerprint identifies the mapping content. Equal mappings share a fingerprint.
func (d *Dictionary) Fingerprint() string {
	return d.fingerprint
}

// BuiltAt is the time the dictionary was frozen.
func (d *Dictionary) BuiltAt() time.Time {
	return d.builtAt
}

func fingerprint(mapping map[string][]string) string {
	hasher := xxhash.New()
	for _, term := range slices.Sorted(maps.Keys(mapping)) {
		_, _ = hasher.WriteString(term)
		_, _ = hasher.Write([]byte{0})
		for _, syn := range mapping[term] {
			_, _ = hasher.WriteString(syn)
			_, _ = hasher.Write([]byte{1})
		}
		_, _ = hasher.Write([]byte{2})
	}
	return fmt.Sprintf("%016x", hasher.Sum64())
}
