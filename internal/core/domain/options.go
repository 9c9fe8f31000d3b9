package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Format selects the synonym rule grammar.
type Format string

const (
	// FormatSolr is the comma/arrow grammar: "a, b => c" or "a, b, c".
	FormatSolr Format = "solr"
	// FormatWordnet is the Prolog-style grammar: s(100000001,1,'word',n,1,0).
	FormatWordnet Format = "wordnet"
)

// ParseFormat validates a format name. An empty name selects solr.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatSolr:
		return FormatSolr, nil
	case FormatWordnet:
		return FormatWordnet, nil
	default:
		return "", ErrUnknownFormat
	}
}

// Analyzer names the term normalization applied to every rule term.
type Analyzer string

const (
	// AnalyzerStandard applies NFKC normalization and Unicode case folding.
	AnalyzerStandard Analyzer = "standard"
	// AnalyzerKeyword keeps terms verbatim apart from trimming.
	AnalyzerKeyword Analyzer = "keyword"
	// AnalyzerWhitespace collapses runs of whitespace.
	AnalyzerWhitespace Analyzer = "whitespace"
	// AnalyzerKagome segments Japanese text into morphemes.
	AnalyzerKagome Analyzer = "kagome"
)

// ParseAnalyzer validates an analyzer name. An empty name selects standard.
func ParseAnalyzer(s string) (Analyzer, error) {
	switch Analyzer(strings.ToLower(strings.TrimSpace(s))) {
	case "", AnalyzerStandard:
		return AnalyzerStandard, nil
	case AnalyzerKeyword:
		return AnalyzerKeyword, nil
	case AnalyzerWhitespace:
		return AnalyzerWhitespace, nil
	case AnalyzerKagome:
		return AnalyzerKagome, nil
	default:
		return "", ErrUnknownAnalyzer
	}
}

// RawEntry is one fetched record of rule text. It may span several lines.
type RawEntry struct {
	Text string `json:"text"`
}

// BuildOptions controls how raw entries become a Dictionary.
type BuildOptions struct {
	Format   Format
	Expand   bool
	Lenient  bool
	Analyzer Analyzer
}

// Key returns a deterministic digest of the options.
// Snapshots are only reused when the key matches.
func (o BuildOptions) Key() string {
	var builder strings.Builder
	builder.WriteString(string(o.Format))
	builder.WriteString(";")
	builder.WriteString(strconv.FormatBool(o.Expand))
	builder.WriteString(";")
	builder.WriteString(strconv.FormatBool(o.Lenient))
	builder.WriteString(";")
	builder.WriteString(string(o.Analyzer))

	hash := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}

// RuleIssue describes one malformed rule.
type RuleIssue struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}
