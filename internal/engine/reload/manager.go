package reload

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.DictionaryRegistry = (*Manager)(nil)

// Deps are the collaborators shared by every Reloader a Manager builds.
type Deps struct {
	Sources   ports.SourceFactory
	Builder   ports.DictionaryBuilder
	Logger    ports.Logger
	Tracer    ports.Tracer
	Snapshots ports.SnapshotStore
}

// Manager owns one Reloader per configured source.
type Manager struct {
	logger    ports.Logger
	order     []string
	reloaders map[string]*Reloader
}

// NewManager creates a Manager over reloaders, kept in the given order.
func NewManager(logger ports.Logger, reloaders ...*Reloader) *Manager {
	m := &Manager{
		logger:    logger,
		order:     make([]string, 0, len(reloaders)),
		reloaders: make(map[string]*Reloader, len(reloaders)),
	}
	for _, r := range reloaders {
		m.order = append(m.order, r.Name())
		m.reloaders[r.Name()] = r
	}
	return m
}

// FromConfig opens a client per source in cfg and builds their Reloaders.
// Clients opened before a failure are closed again.
func FromConfig(cfg *domain.Config, deps Deps) (*Manager, error) {
	reloaders := make([]*Reloader, 0, len(cfg.Sources))
	for _, spec := range cfg.Sources {
		client, err := deps.Sources.Open(spec)
		if err != nil {
			for _, r := range reloaders {
				_ = r.Close()
			}
			return nil, zerr.With(zerr.Wrap(err, "open source"), "source", spec.Name)
		}

		opts := []Option{WithTracer(deps.Tracer)}
		if deps.Snapshots != nil && cfg.Snapshot.Path != "" {
			opts = append(opts, WithSnapshots(deps.Snapshots, cfg.Snapshot.Path))
		}
		reloaders = append(reloaders, NewReloader(spec, client, deps.Builder, deps.Logger, opts...))
	}
	return NewManager(deps.Logger, reloaders...), nil
}

// Names lists the sources in configuration order.
func (m *Manager) Names() []string {
	return append([]string(nil), m.order...)
}

// Reloader returns the Reloader of source.
func (m *Manager) Reloader(source string) (*Reloader, error) {
	r, ok := m.reloaders[source]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownSource, "lookup source"), "source", source)
	}
	return r, nil
}

// State returns a copy of the state of source.
func (m *Manager) State(source string) (domain.ReloadState, error) {
	r, err := m.Reloader(source)
	if err != nil {
		return domain.ReloadState{}, err
	}
	return r.State(), nil
}

// States returns the state of every source in configuration order.
func (m *Manager) States() []domain.ReloadState {
	states := make([]domain.ReloadState, 0, len(m.order))
	for _, name := range m.order {
		states = append(states, m.reloaders[name].State())
	}
	return states
}

// Lookup returns the synonyms of term in the current dictionary of source.
func (m *Manager) Lookup(source, term string) ([]string, error) {
	r, err := m.Reloader(source)
	if err != nil {
		return nil, err
	}
	return r.Lookup(term)
}

// Reload runs one cycle of source now.
func (m *Manager) Reload(ctx context.Context, source string, force bool) (domain.CycleOutcome, error) {
	r, err := m.Reloader(source)
	if err != nil {
		return domain.CycleOutcome{}, err
	}
	return r.RunCycle(ctx, force)
}

// Restore warm-starts every source from its snapshot. Failures are logged and skipped.
func (m *Manager) Restore(ctx context.Context) {
	for _, name := range m.order {
		if _, err := m.reloaders[name].Restore(ctx); err != nil {
			m.logger.Warn(fmt.Sprintf("source %s: snapshot not restored: %v", name, err))
		}
	}
}

// Trigger asks the Reloader of source for an early cycle. Unknown sources are ignored.
func (m *Manager) Trigger(source string) {
	if r, ok := m.reloaders[source]; ok {
		r.Trigger()
	}
}

// Run drives every Reloader until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range m.order {
		r := m.reloaders[name]
		g.Go(func() error {
			return r.Run(gctx)
		})
	}
	return g.Wait()
}

// Close closes every source client.
func (m *Manager) Close() error {
	var errs error
	for _, name := range m.order {
		if err := m.reloaders[name].Close(); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "close source"), "source", name))
		}
	}
	return errs
}
