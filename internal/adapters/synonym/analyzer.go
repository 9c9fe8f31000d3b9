package synonym

import (
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Analyzer normalizes one rule term. An empty result means the term is unusable.
type Analyzer interface {
	Analyze(term string) string
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(term string) string

// Analyze calls f.
func (f AnalyzerFunc) Analyze(term string) string {
	return f(term)
}

var (
	keywordAnalyzer    = AnalyzerFunc(strings.TrimSpace)
	whitespaceAnalyzer = AnalyzerFunc(collapseSpace)
)

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// standardAnalyze applies NFKC, full Unicode case folding and whitespace collapsing.
// cases.Caser is stateful, so each call takes its own.
func standardAnalyze(s string) string {
	folded := cases.Fold().String(norm.NFKC.String(s))
	return collapseSpace(folded)
}

// kagomeAnalyzer segments Japanese text into surface forms joined by a space.
type kagomeAnalyzer struct {
	t *tokenizer.Tokenizer
}

func (k *kagomeAnalyzer) Analyze(term string) string {
	normalized := norm.NFKC.String(strings.TrimSpace(term))
	if normalized == "" {
		return ""
	}

	tokens := k.t.Tokenize(normalized)
	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		surface := strings.TrimSpace(token.Surface)
		if surface == "" {
			continue
		}
		parts = append(parts, surface)
	}
	return strings.Join(parts, " ")
}

// analyzers resolves analyzer names. The IPA dictionary is loaded on first use only.
type analyzers struct {
	kagome func() (*tokenizer.Tokenizer, error)
}

func newAnalyzers() *analyzers {
	return &analyzers{
		kagome: sync.OnceValues(func() (*tokenizer.Tokenizer, error) {
			return tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		}),
	}
}

func (a *analyzers) get(name domain.Analyzer) (Analyzer, error) {
	switch name {
	case "", domain.AnalyzerStandard:
		return AnalyzerFunc(standardAnalyze), nil
	case domain.AnalyzerKeyword:
		return keywordAnalyzer, nil
	case domain.AnalyzerWhitespace:
		return whitespaceAnalyzer, nil
	case domain.AnalyzerKagome:
		t, err := a.kagome()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load kagome dictionary")
		}
		return &kagomeAnalyzer{t: t}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownAnalyzer, "resolve analyzer"), "analyzer", string(name))
	}
}
