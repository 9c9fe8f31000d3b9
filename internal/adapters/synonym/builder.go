// Package synonym builds immutable dictionaries from solr and wordnet rule text.
package synonym

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DictionaryBuilder = (*Builder)(nil)

// Builder implements ports.DictionaryBuilder.
type Builder struct {
	logger    ports.Logger
	analyzers *analyzers
}

// NewBuilder creates a Builder that reports skipped rules through logger.
func NewBuilder(logger ports.Logger) *Builder {
	return &Builder{logger: logger, analyzers: newAnalyzers()}
}

// Build parses entries into a dictionary. Empty input yields an empty dictionary.
// Lenient builds skip malformed rules with a warning; strict builds fail on the first one.
func (b *Builder) Build(ctx context.Context, entries []domain.RawEntry, opts domain.BuildOptions) (*domain.Dictionary, error) {
	p, err := b.parse(ctx, entries, opts, !opts.Lenient)
	if err != nil {
		return nil, err
	}

	if len(p.issues) > 0 && !opts.Lenient {
		issue := p.issues[0]
		cause := zerr.With(zerr.With(zerr.New(issue.Reason), "line", issue.Line), "rule", issue.Text)
		return nil, domain.NewReloadError(domain.KindMalformedRule, fmt.Sprintf("line %d", issue.Line), cause)
	}

	for _, issue := range p.issues {
		b.logger.Warn(fmt.Sprintf("skipping malformed synonym rule at line %d (%s): %s", issue.Line, issue.Reason, issue.Text))
	}

	return domain.NewDictionary(p.mapping, p.rules, len(p.issues)), nil
}

// Diagnose parses every rule and returns all malformed ones.
func (b *Builder) Diagnose(ctx context.Context, entries []domain.RawEntry, opts domain.BuildOptions) ([]domain.RuleIssue, error) {
	p, err := b.parse(ctx, entries, opts, false)
	if err != nil {
		return nil, err
	}
	return p.issues, nil
}

// Normalize runs term through the named analyzer so it matches dictionary keys.
func (b *Builder) Normalize(term string, analyzer domain.Analyzer) (string, error) {
	a, err := b.analyzers.get(analyzer)
	if err != nil {
		return "", err
	}
	return a.Analyze(term), nil
}

func (b *Builder) parse(ctx context.Context, entries []domain.RawEntry, opts domain.BuildOptions, stopOnIssue bool) (*parser, error) {
	analyzer, err := b.analyzers.get(opts.Analyzer)
	if err != nil {
		return nil, err
	}

	p := newParser(opts, analyzer, stopOnIssue)
	if err := p.run(ctx, entries); err != nil {
		kind := domain.KindUnknown
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = domain.KindTimeout
		}
		return nil, domain.NewReloadError(kind, "build", err)
	}
	return p, nil
}
