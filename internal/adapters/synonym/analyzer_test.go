package synonym_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/thesaurus/internal/core/domain"
)

func TestBuild_KagomeAnalyzer(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the IPA dictionary")
	}

	b, _ := newBuilder(t)
	opts := domain.BuildOptions{Format: domain.FormatSolr, Expand: true, Analyzer: domain.AnalyzerKagome}

	d, err := b.Build(t.Context(), entries("すもももももももものうち => 果物"), opts)
	require.NoError(t, err)

	terms := d.Terms()
	require.Len(t, terms, 1)
	assert.Contains(t, terms[0], " ")
	assert.Equal(t, []string{"果物"}, d.Lookup(terms[0]))
}

func TestBuild_WhitespaceAnalyzerKeepsCase(t *testing.T) {
	b, _ := newBuilder(t)
	opts := domain.BuildOptions{Format: domain.FormatSolr, Expand: true, Analyzer: domain.AnalyzerWhitespace}

	d, err := b.Build(t.Context(), entries("New   York => NYC"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"NYC"}, d.Lookup("New York"))
}
