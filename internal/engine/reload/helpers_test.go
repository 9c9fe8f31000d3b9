package reload_test

import (
	"context"
	"sync"
	"testing"

	"go.trai.ch/thesaurus/internal/adapters/synonym"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/thesaurus/internal/core/ports/mocks"
	"go.trai.ch/thesaurus/internal/engine/reload"
	"go.uber.org/mock/gomock"
)

// fakeSource is a scripted SourceClient.
type fakeSource struct {
	mu        sync.Mutex
	marker    domain.ChangeMarker
	entries   []domain.RawEntry
	markerErr error
	fetchErr  error
	checks    int
	fetches   int
	closed    bool
}

var _ ports.SourceClient = (*fakeSource)(nil)

func (f *fakeSource) set(marker domain.ChangeMarker, lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marker = marker
	f.entries = make([]domain.RawEntry, 0, len(lines))
	for _, l := range lines {
		f.entries = append(f.entries, domain.RawEntry{Text: l})
	}
}

func (f *fakeSource) failFetch(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

func (f *fakeSource) failCheck(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markerErr = err
}

func (f *fakeSource) FetchAll(_ context.Context) ([]domain.RawEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]domain.RawEntry(nil), f.entries...), nil
}

func (f *fakeSource) FetchChangeMarker(_ context.Context) (domain.ChangeMarker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	if f.markerErr != nil {
		return domain.UnknownMarker, f.markerErr
	}
	return f.marker, nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeSource) checkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	l := mocks.NewMockLogger(ctrl)
	l.EXPECT().Info(gomock.Any()).AnyTimes()
	l.EXPECT().Warn(gomock.Any()).AnyTimes()
	l.EXPECT().Error(gomock.Any()).AnyTimes()
	return l
}

func spec(name string, expand, lenient bool) domain.SourceSpec {
	return domain.SourceSpec{
		Name: name,
		Kind: domain.SourceSQL,
		Build: domain.BuildOptions{
			Format:   domain.FormatSolr,
			Expand:   expand,
			Lenient:  lenient,
			Analyzer: domain.AnalyzerStandard,
		},
	}
}

func newReloader(t *testing.T, s domain.SourceSpec, src ports.SourceClient, opts ...reload.Option) *reload.Reloader {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := quietLogger(ctrl)
	return reload.NewReloader(s, src, synonym.NewBuilder(logger), logger, opts...)
}
