package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/thesaurus/internal/adapters/health"
	"go.trai.ch/thesaurus/internal/adapters/synonym"
	"go.trai.ch/thesaurus/internal/adapters/telemetry"
	"go.trai.ch/thesaurus/internal/app"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/thesaurus/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app     *app.App
	loader  *mocks.MockConfigLoader
	factory *mocks.MockSourceFactory
	logger  *mocks.MockLogger
	out     *bytes.Buffer
}

func newFixture(t *testing.T, watchers ports.WatcherFactory) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		loader:  mocks.NewMockConfigLoader(ctrl),
		factory: mocks.NewMockSourceFactory(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		out:     new(bytes.Buffer),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	f.app = app.New(
		f.loader,
		f.factory,
		synonym.NewBuilder(f.logger),
		f.logger,
		telemetry.NewNoOpTracer(),
		nil,
		watchers,
	).WithOutput(f.out).WithDebounce(10 * time.Millisecond)
	return f
}

func sqlSource(name string) domain.SourceSpec {
	return domain.SourceSpec{
		Name:         name,
		Kind:         domain.SourceSQL,
		Driver:       "sqlite",
		DSN:          "file:" + name + ".db",
		EntriesQuery: "SELECT words FROM synonyms",
		MarkerQuery:  "SELECT MAX(updated_at) FROM synonyms",
		Build: domain.BuildOptions{
			Format:   domain.FormatSolr,
			Expand:   true,
			Analyzer: domain.AnalyzerStandard,
		},
	}
}

func client(ctrl *gomock.Controller, marker domain.ChangeMarker, lines ...string) *mocks.MockSourceClient {
	c := mocks.NewMockSourceClient(ctrl)
	entries := make([]domain.RawEntry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, domain.RawEntry{Text: l})
	}
	c.EXPECT().FetchChangeMarker(gomock.Any()).Return(marker, nil).AnyTimes()
	c.EXPECT().FetchAll(gomock.Any()).Return(entries, nil).AnyTimes()
	c.EXPECT().Close().Return(nil)
	return c
}

func TestApp_ConfigError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.loader.EXPECT().Load("broken.yaml").Return(nil, zerr.Wrap(domain.ErrConfigParseFailed, "yaml"))

	err := f.app.Reload(t.Context(), app.ReloadOptions{ConfigPath: "broken.yaml"})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_Lookup(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)
	products := sqlSource("products")

	f.loader.EXPECT().Load("thesaurus.yaml").Return(&domain.Config{
		Sources: []domain.SourceSpec{products, sqlSource("brands")},
	}, nil)
	f.factory.EXPECT().Open(products).Return(client(ctrl, domain.NewMarker(1), "tv,television"), nil)

	err := f.app.Lookup(t.Context(), app.LookupOptions{
		ConfigPath: "thesaurus.yaml",
		Source:     "products",
		Terms:      []string{"TV", "radio"},
	})
	require.NoError(t, err)
	assert.Equal(t, "TV: television, tv\nradio: (none)\n", f.out.String())
}

func TestApp_Lookup_NoSignalStillLoads(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)
	products := sqlSource("products")

	f.loader.EXPECT().Load("").Return(&domain.Config{Sources: []domain.SourceSpec{products}}, nil)
	f.factory.EXPECT().Open(products).Return(client(ctrl, domain.UnknownMarker, "a,b"), nil)

	err := f.app.Lookup(t.Context(), app.LookupOptions{Source: "products", Terms: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "a: a, b\n", f.out.String())
}

func TestApp_Lookup_UnknownSource(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.loader.EXPECT().Load("").Return(&domain.Config{}, nil)

	err := f.app.Lookup(t.Context(), app.LookupOptions{Source: "missing", Terms: []string{"a"}})
	require.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestApp_Lookup_SourceDown(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)
	products := sqlSource("products")

	down := mocks.NewMockSourceClient(ctrl)
	down.EXPECT().FetchChangeMarker(gomock.Any()).Return(domain.UnknownMarker,
		domain.NewReloadError(domain.KindConnection, "connect", zerr.New("connection refused")))
	down.EXPECT().Close().Return(nil)

	f.loader.EXPECT().Load("").Return(&domain.Config{Sources: []domain.SourceSpec{products}}, nil)
	f.factory.EXPECT().Open(products).Return(down, nil)

	err := f.app.Lookup(t.Context(), app.LookupOptions{Source: "products", Terms: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "a: (none)\n", f.out.String())
}

func TestApp_Reload(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)
	products, brands := sqlSource("products"), sqlSource("brands")

	broken := mocks.NewMockSourceClient(ctrl)
	broken.EXPECT().FetchChangeMarker(gomock.Any()).Return(domain.NewMarker(2), nil)
	broken.EXPECT().FetchAll(gomock.Any()).Return(nil,
		domain.NewReloadError(domain.KindQuery, "entries query", zerr.New("no such column: words")))
	broken.EXPECT().Close().Return(nil)

	f.loader.EXPECT().Load("").Return(&domain.Config{Sources: []domain.SourceSpec{products, brands}}, nil)
	f.factory.EXPECT().Open(products).Return(client(ctrl, domain.NewMarker(5), "a,b", "c=>d"), nil)
	f.factory.EXPECT().Open(brands).Return(broken, nil)

	err := f.app.Reload(t.Context(), app.ReloadOptions{})
	require.ErrorIs(t, err, domain.ErrQuery)

	out := f.out.String()
	assert.Contains(t, out, "SOURCE")
	assert.Regexp(t, `products\s+reloaded\s+2\s+5`, out)
	assert.Regexp(t, `brands\s+failed\s+0\s+unknown`, out)
}

func TestApp_Reload_SelectedSource(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)
	products, brands := sqlSource("products"), sqlSource("brands")

	unused := mocks.NewMockSourceClient(ctrl)
	unused.EXPECT().Close().Return(nil)

	f.loader.EXPECT().Load("").Return(&domain.Config{Sources: []domain.SourceSpec{products, brands}}, nil)
	f.factory.EXPECT().Open(products).Return(client(ctrl, domain.UnknownMarker, "a,b"), nil)
	f.factory.EXPECT().Open(brands).Return(unused, nil)

	err := f.app.Reload(t.Context(), app.ReloadOptions{Sources: []string{"products"}, Force: true})
	require.NoError(t, err)
	assert.Regexp(t, `products\s+reloaded\s+1`, f.out.String())
	assert.NotContains(t, f.out.String(), "brands")
}

func TestApp_Reload_UnknownSource(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.loader.EXPECT().Load("").Return(&domain.Config{}, nil)

	err := f.app.Reload(t.Context(), app.ReloadOptions{Sources: []string{"missing"}})
	require.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestApp_Check(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)
	products, brands := sqlSource("products"), sqlSource("brands")

	good := mocks.NewMockSourceClient(ctrl)
	good.EXPECT().FetchAll(gomock.Any()).Return([]domain.RawEntry{{Text: "a,b"}}, nil)
	good.EXPECT().Close().Return(nil)

	bad := mocks.NewMockSourceClient(ctrl)
	bad.EXPECT().FetchAll(gomock.Any()).Return([]domain.RawEntry{{Text: "a,b\nlonely\nc=>"}}, nil)
	bad.EXPECT().Close().Return(nil)

	f.loader.EXPECT().Load("").Return(&domain.Config{Sources: []domain.SourceSpec{products, brands}}, nil)
	f.factory.EXPECT().Open(products).Return(good, nil)
	f.factory.EXPECT().Open(brands).Return(bad, nil)

	err := f.app.Check(t.Context(), app.CheckOptions{})
	require.ErrorIs(t, err, domain.ErrCheckFailed)

	out := f.out.String()
	assert.Contains(t, out, "products: ok\n")
	assert.Contains(t, out, "brands:2: ")
	assert.Contains(t, out, "lonely")
	assert.Contains(t, out, "brands:3: ")
}

func TestApp_Check_AllGood(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctrl := gomock.NewController(t)
	products := sqlSource("products")

	good := mocks.NewMockSourceClient(ctrl)
	good.EXPECT().FetchAll(gomock.Any()).Return(nil, nil)
	good.EXPECT().Close().Return(nil)

	f.loader.EXPECT().Load("").Return(&domain.Config{Sources: []domain.SourceSpec{products}}, nil)
	f.factory.EXPECT().Open(products).Return(good, nil)

	require.NoError(t, f.app.Check(t.Context(), app.CheckOptions{}))
	assert.Equal(t, "products: ok\n", f.out.String())
}

func TestApp_Check_OpenFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	products := sqlSource("products")

	f.loader.EXPECT().Load("").Return(&domain.Config{Sources: []domain.SourceSpec{products}}, nil)
	f.factory.EXPECT().Open(products).Return(nil, zerr.Wrap(domain.ErrInvalidSource, "driver not registered"))

	err := f.app.Check(t.Context(), app.CheckOptions{})
	require.ErrorIs(t, err, domain.ErrCheckFailed)
	assert.Contains(t, f.out.String(), "products: ")
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestApp_Serve(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	rules := filepath.Join(t.TempDir(), "synonyms.txt")

	w := mocks.NewMockWatcher(ctrl)
	var watchCtx context.Context
	w.EXPECT().Start(gomock.Any(), []string{rules}).DoAndReturn(func(ctx context.Context, _ []string) error {
		watchCtx = ctx
		return nil
	})
	w.EXPECT().Events().DoAndReturn(func() iter.Seq[ports.WatchEvent] {
		return func(yield func(ports.WatchEvent) bool) {
			if !yield(ports.WatchEvent{Path: rules, Operation: ports.OpWrite}) {
				return
			}
			<-watchCtx.Done()
		}
	})
	w.EXPECT().Stop().Return(nil)

	f := newFixture(t, func() (ports.Watcher, error) { return w, nil })

	remote := domain.SourceSpec{
		Name:     "products",
		Kind:     domain.SourceRemote,
		URL:      rules,
		Interval: time.Hour,
		Build: domain.BuildOptions{
			Format:   domain.FormatSolr,
			Expand:   true,
			Analyzer: domain.AnalyzerStandard,
		},
	}

	var checks atomic.Int64
	c := mocks.NewMockSourceClient(ctrl)
	c.EXPECT().FetchChangeMarker(gomock.Any()).DoAndReturn(func(context.Context) (domain.ChangeMarker, error) {
		return domain.NewMarker(checks.Add(1)), nil
	}).AnyTimes()
	c.EXPECT().FetchAll(gomock.Any()).Return([]domain.RawEntry{{Text: "tv,television"}}, nil).AnyTimes()
	c.EXPECT().Close().Return(nil)

	addr := freeAddr(t)
	f.loader.EXPECT().Load("").Return(&domain.Config{
		Sources: []domain.SourceSpec{remote},
		Health:  domain.HealthSpec{Addr: addr},
	}, nil)
	f.factory.EXPECT().Open(remote).Return(c, nil)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- f.app.Serve(ctx, app.ServeOptions{}) }()

	require.Eventually(t, func() bool {
		return checks.Load() >= 2
	}, 5*time.Second, 10*time.Millisecond, "file event should trigger a second cycle")

	var body health.SynonymsResponse
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/v1/dictionaries/products/synonyms?term=TV") //nolint:noctx // test request
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode == http.StatusOK && json.NewDecoder(resp.Body).Decode(&body) == nil
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"television", "tv"}, body.Synonyms)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
