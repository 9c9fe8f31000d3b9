package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/thesaurus/internal/adapters/config"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func loadFrom(t *testing.T, content string) (*domain.Config, error) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	fsys := fstest.MapFS{"thesaurus.yaml": &fstest.MapFile{Data: []byte(content)}}
	return config.NewLoaderWithFS(mockLogger, config.NewMapFSAdapter(fsys)).Load("thesaurus.yaml")
}

func TestLoader_Load_Full(t *testing.T) {
	cfg, err := loadFrom(t, `
health:
  addr: ":8080"
snapshot:
  path: "/var/lib/thesaurus/snap.db"
log:
  json: true
sources:
  - name: products
    kind: sql
    driver: sqlite3
    dsn: "file:syn.db"
    user: reader
    password: secret
    entries_query: "SELECT words FROM synonyms"
    marker_query: "SELECT MAX(updated_at) FROM synonyms"
    format: wordnet
    expand: false
    lenient: true
    analyzer: keyword
    interval: 5s
    fetch_timeout: 2s
    build_timeout: 3s
  - name: remote
    kind: remote
    url: "https://example.com/synonyms.txt"
`)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Health.Addr)
	assert.Equal(t, "/var/lib/thesaurus/snap.db", cfg.Snapshot.Path)
	assert.True(t, cfg.Log.JSON)
	require.Len(t, cfg.Sources, 2)

	products := cfg.Sources[0]
	assert.Equal(t, domain.SourceSQL, products.Kind)
	assert.Equal(t, "sqlite3", products.Driver)
	assert.Equal(t, "reader", products.User)
	assert.Equal(t, domain.DefaultEntriesColumn, products.EntriesColumn)
	assert.Equal(t, domain.BuildOptions{
		Format:   domain.FormatWordnet,
		Expand:   false,
		Lenient:  true,
		Analyzer: domain.AnalyzerKeyword,
	}, products.Build)
	assert.Equal(t, 5*time.Second, products.Interval)
	assert.Equal(t, 2*time.Second, products.FetchTimeout)
	assert.Equal(t, 3*time.Second, products.BuildTimeout)

	remote, ok := cfg.Source("remote")
	require.True(t, ok)
	assert.Equal(t, domain.SourceRemote, remote.Kind)
	assert.Equal(t, "https://example.com/synonyms.txt", remote.URL)
	assert.True(t, remote.Build.Expand)
	assert.False(t, remote.Build.Lenient)
	assert.Equal(t, domain.FormatSolr, remote.Build.Format)
	assert.Equal(t, domain.AnalyzerStandard, remote.Build.Analyzer)
	assert.Equal(t, domain.DefaultInterval, remote.Interval)
}

func TestLoader_Load_Defaults(t *testing.T) {
	cfg, err := loadFrom(t, `
sources:
  - name: products
    dsn: "file:syn.db"
    entries_query: "SELECT words FROM synonyms"
    marker_query: "SELECT 1"
`)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultHealthAddr, cfg.Health.Addr)
	assert.Equal(t, domain.DefaultSnapshotPath(), cfg.Snapshot.Path)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, domain.SourceSQL, cfg.Sources[0].Kind)
	assert.Equal(t, "sqlite", cfg.Sources[0].Driver)
}

func TestLoader_Load_EmptySnapshotPathDisables(t *testing.T) {
	cfg, err := loadFrom(t, `
snapshot:
  path: ""
`)
	require.NoError(t, err)
	assert.Empty(t, cfg.Snapshot.Path)
	assert.Empty(t, cfg.Sources)
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		field   string
	}{
		{
			name:    "missing name",
			content: "sources:\n  - kind: remote\n    url: http://x\n",
			wantErr: domain.ErrInvalidSource,
			field:   "name",
		},
		{
			name:    "missing dsn",
			content: "sources:\n  - name: a\n    entries_query: q\n    marker_query: m\n",
			wantErr: domain.ErrInvalidSource,
			field:   "dsn",
		},
		{
			name:    "missing marker query",
			content: "sources:\n  - name: a\n    dsn: d\n    entries_query: q\n",
			wantErr: domain.ErrInvalidSource,
			field:   "marker_query",
		},
		{
			name:    "missing url",
			content: "sources:\n  - name: a\n    kind: remote\n",
			wantErr: domain.ErrInvalidSource,
			field:   "url",
		},
		{
			name:    "unknown kind",
			content: "sources:\n  - name: a\n    kind: ldap\n",
			wantErr: domain.ErrUnknownSourceKind,
		},
		{
			name:    "unknown format",
			content: "sources:\n  - name: a\n    kind: remote\n    url: u\n    format: lucene\n",
			wantErr: domain.ErrUnknownFormat,
		},
		{
			name:    "unknown analyzer",
			content: "sources:\n  - name: a\n    kind: remote\n    url: u\n    analyzer: snowball\n",
			wantErr: domain.ErrUnknownAnalyzer,
		},
		{
			name:    "negative interval",
			content: "sources:\n  - name: a\n    kind: remote\n    url: u\n    interval: -1s\n",
			wantErr: domain.ErrInvalidDuration,
		},
		{
			name:    "unparsable timeout",
			content: "sources:\n  - name: a\n    kind: remote\n    url: u\n    fetch_timeout: soon\n",
			wantErr: domain.ErrInvalidDuration,
		},
		{
			name:    "duplicate name",
			content: "sources:\n  - name: a\n    kind: remote\n    url: u\n  - name: a\n    kind: remote\n    url: v\n",
			wantErr: domain.ErrDuplicateSource,
		},
		{
			name:    "malformed yaml",
			content: "sources: [",
			wantErr: domain.ErrConfigParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFrom(t, tt.content)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			if tt.field != "" {
				assertFieldMetadata(t, err, tt.field)
			}
		})
	}
}

func assertFieldMetadata(t *testing.T, err error, field string) {
	t.Helper()

	for current := err; current != nil; {
		if zErr, ok := current.(*zerr.Error); ok {
			if got, ok := zErr.Metadata()["field"]; ok {
				assert.Equal(t, field, got)
				return
			}
		}
		u, ok := current.(interface{ Unwrap() error })
		if !ok {
			break
		}
		current = u.Unwrap()
	}
	t.Errorf("no field metadata found in %v", err)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	loader := config.NewLoaderWithFS(mockLogger, config.NewMapFSAdapter(fstest.MapFS{}))
	cfg, err := loader.Load("")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfigFileName, cfg.Path)
	assert.Empty(t, cfg.Sources)
	assert.Equal(t, domain.DefaultHealthAddr, cfg.Health.Addr)
}

func TestLoader_Load_OSFS(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	path := filepath.Join(t.TempDir(), "thesaurus.yaml")
	content := "sources:\n  - name: remote\n    kind: remote\n    url: file:///tmp/syn.txt\n"
	require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))

	cfg, err := config.NewLoader(mockLogger).Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, path, cfg.Path)
}
