package ports

import (
	"context"

	"go.trai.ch/thesaurus/internal/core/domain"
)

// DictionaryBuilder parses raw entries into an immutable dictionary.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type DictionaryBuilder interface {
	// Build parses entries. In strict mode the first malformed rule aborts the build.
	Build(ctx context.Context, entries []domain.RawEntry, opts domain.BuildOptions) (*domain.Dictionary, error)
	// Diagnose reports every malformed rule without building.
	Diagnose(ctx context.Context, entries []domain.RawEntry, opts domain.BuildOptions) ([]domain.RuleIssue, error)
	// Normalize applies the analyzer used for rule terms to a lookup term.
	Normalize(term string, analyzer domain.Analyzer) (string, error)
}
