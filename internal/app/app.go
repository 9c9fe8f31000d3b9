// Package app implements the application layer for thesaurus.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"go.trai.ch/thesaurus/internal/adapters/health"
	"go.trai.ch/thesaurus/internal/adapters/remotesource"
	"go.trai.ch/thesaurus/internal/adapters/telemetry"
	fswatch "go.trai.ch/thesaurus/internal/adapters/watcher"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/thesaurus/internal/engine/reload"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	sources      ports.SourceFactory
	builder      ports.DictionaryBuilder
	logger       ports.Logger
	tracer       ports.Tracer
	snapshots    ports.SnapshotStore
	watchers     ports.WatcherFactory
	out          io.Writer
	debounce     time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sources ports.SourceFactory,
	builder ports.DictionaryBuilder,
	log ports.Logger,
	tracer ports.Tracer,
	snapshots ports.SnapshotStore,
	watchers ports.WatcherFactory,
) *App {
	return &App{
		configLoader: loader,
		sources:      sources,
		builder:      builder,
		logger:       log,
		tracer:       tracer,
		snapshots:    snapshots,
		watchers:     watchers,
		out:          os.Stdout,
		debounce:     fswatch.DefaultDebounceWindow,
	}
}

// WithOutput redirects command results, which go to stdout by default.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithDebounce changes how long file events are coalesced before a reload is triggered.
func (a *App) WithDebounce(d time.Duration) *App {
	a.debounce = d
	return a
}

// ServeOptions configures Serve.
type ServeOptions struct {
	ConfigPath string
	Addr       string
	JSON       bool
	Trace      bool
}

// Serve keeps every configured dictionary fresh and exposes them over HTTP until ctx is done.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath, opts.JSON)
	if err != nil {
		return err
	}

	if opts.Trace {
		shutdown := telemetry.Install(a.logger)
		defer func() {
			_ = shutdown(context.WithoutCancel(ctx))
		}()
	}

	mgr, err := a.newManager(cfg)
	if err != nil {
		return err
	}
	defer a.closeManager(mgr)

	mgr.Restore(ctx)

	addr := opts.Addr
	if addr == "" {
		addr = cfg.Health.Addr
	}
	if addr == "" {
		addr = domain.DefaultHealthAddr
	}

	a.logger.Info(fmt.Sprintf("serving %d source(s)", len(cfg.Sources)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mgr.Run(gctx)
	})
	g.Go(func() error {
		return health.NewServer(mgr, a.logger).ListenAndServe(gctx, addr)
	})
	g.Go(func() error {
		return a.watchLocalSources(gctx, cfg, mgr)
	})
	return g.Wait()
}

// watchLocalSources triggers early reloads of remote sources that point at local files.
func (a *App) watchLocalSources(ctx context.Context, cfg *domain.Config, mgr *reload.Manager) error {
	if a.watchers == nil {
		return nil
	}

	bySource := make(map[string][]string)
	for _, spec := range cfg.Sources {
		if spec.Kind != domain.SourceRemote {
			continue
		}
		path, ok := remotesource.LocalPath(spec.URL)
		if !ok {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		bySource[abs] = append(bySource[abs], spec.Name)
	}
	if len(bySource) == 0 {
		return nil
	}

	w, err := a.watchers()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	paths := make([]string, 0, len(bySource))
	for p := range bySource {
		paths = append(paths, p)
	}
	if err := w.Start(ctx, paths); err != nil {
		a.logger.Warn(fmt.Sprintf("file watching disabled: %v", err))
		return nil
	}

	debouncer := fswatch.NewDebouncer(a.debounce, func(changed []string) {
		for _, p := range changed {
			for _, name := range bySource[p] {
				a.logger.Info(fmt.Sprintf("source %s: %s changed", name, p))
				mgr.Trigger(name)
			}
		}
	})

	for ev := range w.Events() {
		debouncer.Add(ev.Path)
	}
	return nil
}

// ReloadOptions configures Reload.
type ReloadOptions struct {
	ConfigPath string
	Sources    []string
	Force      bool
}

// Reload runs one cycle for each selected source (all when none are named) and
// prints the resulting states.
func (a *App) Reload(ctx context.Context, opts ReloadOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath, false)
	if err != nil {
		return err
	}

	mgr, err := a.newManager(cfg)
	if err != nil {
		return err
	}
	defer a.closeManager(mgr)

	names := opts.Sources
	if len(names) == 0 {
		names = mgr.Names()
	}

	var errs error
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SOURCE\tRESULT\tRULES\tMARKER\tDURATION")
	for _, name := range names {
		outcome, err := mgr.Reload(ctx, name, opts.Force)
		if errors.Is(err, domain.ErrUnknownSource) {
			return err
		}
		if err != nil {
			errs = errors.Join(errs, err)
		}
		state, _ := mgr.State(name)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			name, outcome.Result, state.RuleCount, state.LastMarker, outcome.Duration.Round(time.Millisecond))
	}
	_ = tw.Flush()

	if errs != nil {
		return zerr.Wrap(errs, "reload failed")
	}
	return nil
}

// LookupOptions configures Lookup.
type LookupOptions struct {
	ConfigPath string
	Source     string
	Terms      []string
}

// Lookup loads one source and prints the synonyms of each term.
// A source that cannot be refreshed is served from its snapshot when one exists.
func (a *App) Lookup(ctx context.Context, opts LookupOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath, false)
	if err != nil {
		return err
	}

	spec, ok := cfg.Source(opts.Source)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrUnknownSource, "lookup source"), "source", opts.Source)
	}
	cfg.Sources = []domain.SourceSpec{spec}

	mgr, err := a.newManager(cfg)
	if err != nil {
		return err
	}
	defer a.closeManager(mgr)

	mgr.Restore(ctx)
	state, _ := mgr.State(spec.Name)
	restored := state.LastMarker.IsKnown()

	if _, err := mgr.Reload(ctx, spec.Name, !restored); err != nil {
		a.logger.Warn(fmt.Sprintf("source %s: serving last known dictionary", spec.Name))
	}

	for _, term := range opts.Terms {
		synonyms, err := mgr.Lookup(spec.Name, term)
		if err != nil {
			return err
		}
		if len(synonyms) == 0 {
			_, _ = fmt.Fprintf(a.out, "%s: (none)\n", term)
			continue
		}
		_, _ = fmt.Fprintf(a.out, "%s: %s\n", term, strings.Join(synonyms, ", "))
	}
	return nil
}

// CheckOptions configures Check.
type CheckOptions struct {
	ConfigPath string
}

// Check fetches every source and reports each malformed rule.
func (a *App) Check(ctx context.Context, opts CheckOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath, false)
	if err != nil {
		return err
	}

	failed := 0
	for _, spec := range cfg.Sources {
		issues, err := a.checkSource(ctx, spec)
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(a.out, "%s: %v\n", spec.Name, err)
			continue
		}
		if len(issues) == 0 {
			_, _ = fmt.Fprintf(a.out, "%s: ok\n", spec.Name)
			continue
		}
		failed++
		for _, issue := range issues {
			_, _ = fmt.Fprintf(a.out, "%s:%d: %s: %s\n", spec.Name, issue.Line, issue.Reason, issue.Text)
		}
	}

	if failed > 0 {
		return zerr.With(zerr.Wrap(domain.ErrCheckFailed, "check sources"), "failed_sources", failed)
	}
	return nil
}

func (a *App) checkSource(ctx context.Context, spec domain.SourceSpec) ([]domain.RuleIssue, error) {
	client, err := a.sources.Open(spec)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = client.Close()
	}()

	timeout := spec.FetchTimeout
	if timeout <= 0 {
		timeout = domain.DefaultFetchTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries, err := client.FetchAll(fetchCtx)
	if err != nil {
		return nil, err
	}
	return a.builder.Diagnose(ctx, entries, spec.Build)
}

func (a *App) loadConfig(path string, forceJSON bool) (*domain.Config, error) {
	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if forceJSON || cfg.Log.JSON {
		if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
			l.SetJSON(true)
		}
	}
	return cfg, nil
}

func (a *App) newManager(cfg *domain.Config) (*reload.Manager, error) {
	return reload.FromConfig(cfg, reload.Deps{
		Sources:   a.sources,
		Builder:   a.builder,
		Logger:    a.logger,
		Tracer:    a.tracer,
		Snapshots: a.snapshots,
	})
}

func (a *App) closeManager(mgr *reload.Manager) {
	if err := mgr.Close(); err != nil {
		a.logger.Warn(fmt.Sprintf("closing sources: %v", err))
	}
	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			a.logger.Warn(fmt.Sprintf("closing snapshot store: %v", err))
		}
	}
}
