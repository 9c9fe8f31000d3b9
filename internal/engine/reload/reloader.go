package reload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Reloader runs reload cycles for one source and owns its Handle.
type Reloader struct {
	spec      domain.SourceSpec
	client    ports.SourceClient
	builder   ports.DictionaryBuilder
	logger    ports.Logger
	tracer    ports.Tracer
	snapshots ports.SnapshotStore
	snapPath  string

	handle   *Handle
	detector *Detector
	flight   singleflight.Group
	cycleMu  sync.Mutex
	trigger  chan struct{}
	newID    func() string

	// life bounds every cycle; Close cancels it.
	life context.Context
	stop context.CancelFunc

	mu    sync.Mutex
	state domain.ReloadState
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithTracer records a span per cycle and per phase.
func WithTracer(t ports.Tracer) Option {
	return func(r *Reloader) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithSnapshots persists the entries of every published dictionary to path.
func WithSnapshots(store ports.SnapshotStore, path string) Option {
	return func(r *Reloader) {
		r.snapshots = store
		r.snapPath = path
	}
}

// WithIDGenerator replaces the cycle id generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Reloader) {
		r.newID = fn
	}
}

// NewReloader creates a Reloader for spec reading from client.
func NewReloader(
	spec domain.SourceSpec,
	client ports.SourceClient,
	builder ports.DictionaryBuilder,
	logger ports.Logger,
	opts ...Option,
) *Reloader {
	if spec.Interval <= 0 {
		spec.Interval = domain.DefaultInterval
	}
	if spec.FetchTimeout <= 0 {
		spec.FetchTimeout = domain.DefaultFetchTimeout
	}
	if spec.BuildTimeout <= 0 {
		spec.BuildTimeout = domain.DefaultBuildTimeout
	}

	r := &Reloader{
		spec:     spec,
		client:   client,
		builder:  builder,
		logger:   logger,
		tracer:   noopTracer{},
		handle:   NewHandle(),
		detector: NewDetector(),
		trigger:  make(chan struct{}, 1),
		newID:    uuid.NewString,
		state: domain.ReloadState{
			Source: spec.Name,
			Phase:  domain.PhaseIdle,
		},
	}
	r.life, r.stop = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the source name.
func (r *Reloader) Name() string {
	return r.spec.Name
}

// Spec returns the source definition the reloader was built from.
func (r *Reloader) Spec() domain.SourceSpec {
	return r.spec
}

// Handle returns the handle readers use.
func (r *Reloader) Handle() *Handle {
	return r.handle
}

// State returns a copy of the reload state.
func (r *Reloader) State() domain.ReloadState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Lookup normalizes term like the rule terms and returns its synonyms.
func (r *Reloader) Lookup(term string) ([]string, error) {
	key, err := r.builder.Normalize(term, r.spec.Build.Analyzer)
	if err != nil {
		return nil, err
	}
	return r.handle.Current().Lookup(key), nil
}

// Trigger asks Run for an early cycle. It never blocks; triggers coalesce.
func (r *Reloader) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run performs a cycle immediately, then one per interval and one per Trigger,
// until ctx is done. Cycle failures are recorded in the state and never end the loop.
func (r *Reloader) Run(ctx context.Context) error {
	_, _ = r.RunCycle(ctx, false)

	ticker := time.NewTicker(r.spec.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-r.trigger:
		}
		if ctx.Err() != nil {
			return nil
		}
		_, _ = r.RunCycle(ctx, false)
	}
}

// RunCycle runs one cycle. Concurrent callers with the same force flag share the
// cycle in flight, and cycles never overlap. force skips the change detector.
// The returned error is the cycle failure, already recorded in the state.
//
// The shared cycle is bounded by the phase timeouts and by Close, never by the
// caller's ctx: a caller whose ctx ends stops waiting and gets ctx.Err(), while
// the cycle completes for everyone else.
func (r *Reloader) RunCycle(ctx context.Context, force bool) (domain.CycleOutcome, error) {
	key := "check"
	if force {
		key = "force"
	}

	ch := r.flight.DoChan(key, func() (any, error) {
		r.cycleMu.Lock()
		defer r.cycleMu.Unlock()

		cycleCtx, cancel := r.cycleContext(ctx)
		defer cancel()
		return r.runCycle(cycleCtx, force)
	})

	select {
	case res := <-ch:
		outcome, _ := res.Val.(domain.CycleOutcome)
		return outcome, res.Err
	case <-ctx.Done():
		err := zerr.With(zerr.Wrap(ctx.Err(), "stopped waiting for reload cycle"), "source", r.spec.Name)
		return domain.CycleOutcome{Source: r.spec.Name}, err
	}
}

// cycleContext keeps the values of ctx but takes its cancellation from the reloader.
func (r *Reloader) cycleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	cycleCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(r.life, cancel)
	return cycleCtx, func() {
		stop()
		cancel()
	}
}

func (r *Reloader) runCycle(ctx context.Context, force bool) (domain.CycleOutcome, error) {
	start := time.Now()
	outcome := domain.CycleOutcome{ID: r.newID(), Source: r.spec.Name}

	ctx, span := r.tracer.Start(ctx, "reload.cycle",
		ports.WithAttribute("source", r.spec.Name),
		ports.WithAttribute("cycle", outcome.ID),
		ports.WithAttribute("force", force),
	)
	defer span.End()

	r.update(func(s *domain.ReloadState) {
		s.Cycles++
		s.LastAttemptAt = start
	})

	finish := func(result domain.CycleResult, phase domain.Phase, err error) (domain.CycleOutcome, error) {
		// A canceled cycle says nothing about the source.
		abandoned := err != nil && errors.Is(ctx.Err(), context.Canceled)
		if abandoned {
			result = domain.ResultAbandoned
		}

		outcome.Result = result
		outcome.Phase = phase
		outcome.Duration = time.Since(start)
		span.SetAttribute("result", string(result))
		if err != nil {
			outcome.Error = err.Error()
			outcome.ErrorKind = domain.KindOf(err)
			span.RecordError(err)
		}
		r.update(func(s *domain.ReloadState) {
			s.Phase = domain.PhaseIdle
			s.LastDuration = outcome.Duration
			switch {
			case abandoned:
			case err != nil:
				s.Failures++
				s.LastError = outcome.Error
				s.LastErrorKind = outcome.ErrorKind
			default:
				s.LastError = ""
				s.LastErrorKind = domain.KindNone
			}
		})
		switch {
		case abandoned:
			r.logger.Info(fmt.Sprintf("source %s: reload cycle abandoned during %s", r.spec.Name, phase))
		case err != nil:
			r.logger.Error(zerr.With(zerr.Wrap(err, "reload cycle failed"), "source", r.spec.Name))
		}
		return outcome, err
	}

	// Checking
	r.setPhase(domain.PhaseChecking)
	candidate, err := r.check(ctx)
	if err != nil {
		return finish(domain.ResultFailed, domain.PhaseChecking, err)
	}
	outcome.Candidate = candidate
	span.SetAttribute("candidate", candidate.String())

	if !force {
		if !candidate.IsKnown() {
			return finish(domain.ResultNoSignal, domain.PhaseChecking, nil)
		}
		if !r.detector.ShouldReload(candidate) {
			return finish(domain.ResultUpToDate, domain.PhaseChecking, nil)
		}
	}

	// Fetching
	r.setPhase(domain.PhaseFetching)
	entries, err := r.fetch(ctx)
	if err != nil {
		return finish(domain.ResultFailed, domain.PhaseFetching, err)
	}

	// Building
	r.setPhase(domain.PhaseBuilding)
	dict, err := r.build(ctx, entries)
	if err != nil {
		return finish(domain.ResultFailed, domain.PhaseBuilding, err)
	}

	// Publishing
	r.setPhase(domain.PhasePublishing)
	r.publish(dict, candidate, time.Now())
	outcome.RuleCount = dict.RuleCount()
	r.logger.Info(fmt.Sprintf("source %s: published %d rules, %d terms (marker %s)",
		r.spec.Name, dict.RuleCount(), dict.TermCount(), r.detector.Last()))

	r.saveSnapshot(candidate, entries)
	return finish(domain.ResultReloaded, domain.PhasePublishing, nil)
}

func (r *Reloader) check(ctx context.Context) (domain.ChangeMarker, error) {
	ctx, cancel := context.WithTimeout(ctx, r.spec.FetchTimeout)
	defer cancel()
	ctx, span := r.tracer.Start(ctx, "reload.check", ports.WithAttribute("source", r.spec.Name))
	defer span.End()

	marker, err := r.client.FetchChangeMarker(ctx)
	if err != nil {
		err = classify(ctx, "check", err)
		span.RecordError(err)
		return domain.UnknownMarker, err
	}
	return marker, nil
}

func (r *Reloader) fetch(ctx context.Context) ([]domain.RawEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.spec.FetchTimeout)
	defer cancel()
	ctx, span := r.tracer.Start(ctx, "reload.fetch", ports.WithAttribute("source", r.spec.Name))
	defer span.End()

	entries, err := r.client.FetchAll(ctx)
	if err != nil {
		err = classify(ctx, "fetch", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("entries", len(entries))
	return entries, nil
}

func (r *Reloader) build(ctx context.Context, entries []domain.RawEntry) (*domain.Dictionary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.spec.BuildTimeout)
	defer cancel()
	ctx, span := r.tracer.Start(ctx, "reload.build", ports.WithAttribute("source", r.spec.Name))
	defer span.End()

	dict, err := r.builder.Build(ctx, entries, r.spec.Build)
	if err == nil && dict == nil {
		err = zerr.New("builder returned no dictionary")
	}
	if err != nil {
		err = classify(ctx, "build", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("rules", dict.RuleCount())
	return dict, nil
}

// publish swaps the handle and advances the marker. Only successful builds get here.
func (r *Reloader) publish(dict *domain.Dictionary, candidate domain.ChangeMarker, at time.Time) {
	r.handle.Swap(dict)
	r.detector.Advance(candidate)
	last := r.detector.Last()

	r.update(func(s *domain.ReloadState) {
		s.LastMarker = last
		s.LastSuccessAt = at
		s.RuleCount = dict.RuleCount()
		s.TermCount = dict.TermCount()
		s.SkippedCount = dict.SkippedCount()
		s.Fingerprint = dict.Fingerprint()
		s.Reloads++
	})
}

func (r *Reloader) saveSnapshot(marker domain.ChangeMarker, entries []domain.RawEntry) {
	if r.snapshots == nil || r.snapPath == "" {
		return
	}
	snap := domain.Snapshot{
		Source:     r.spec.Name,
		Marker:     marker,
		Entries:    entries,
		OptionsKey: r.spec.Build.Key(),
		SavedAt:    time.Now(),
	}
	if err := r.snapshots.Put(r.snapPath, snap); err != nil {
		r.logger.Warn(fmt.Sprintf("source %s: snapshot not saved: %v", r.spec.Name, err))
	}
}

// Restore publishes the dictionary saved by a previous run, if one exists and was
// built with the same options. It returns whether a snapshot was published.
func (r *Reloader) Restore(ctx context.Context) (bool, error) {
	if r.snapshots == nil || r.snapPath == "" {
		return false, nil
	}

	snap, err := r.snapshots.Get(r.snapPath, r.spec.Name)
	if err != nil {
		return false, err
	}
	if snap == nil {
		return false, nil
	}
	if snap.OptionsKey != r.spec.Build.Key() {
		r.logger.Info(fmt.Sprintf("source %s: snapshot ignored, build options changed", r.spec.Name))
		return false, nil
	}

	r.cycleMu.Lock()
	defer r.cycleMu.Unlock()

	dict, err := r.build(ctx, snap.Entries)
	if err != nil {
		return false, err
	}

	r.handle.Swap(dict)
	r.detector.Seed(snap.Marker)
	last := r.detector.Last()
	r.update(func(s *domain.ReloadState) {
		s.LastMarker = last
		s.LastSuccessAt = snap.SavedAt
		s.RuleCount = dict.RuleCount()
		s.TermCount = dict.TermCount()
		s.SkippedCount = dict.SkippedCount()
		s.Fingerprint = dict.Fingerprint()
	})
	r.logger.Info(fmt.Sprintf("source %s: restored %d rules from snapshot (marker %s)",
		r.spec.Name, dict.RuleCount(), last))
	return true, nil
}

// Close abandons the cycle in flight, waits for it to return and releases the
// source connection.
func (r *Reloader) Close() error {
	r.stop()

	r.cycleMu.Lock()
	defer r.cycleMu.Unlock()
	return r.client.Close()
}

func (r *Reloader) setPhase(p domain.Phase) {
	r.update(func(s *domain.ReloadState) {
		s.Phase = p
	})
}

func (r *Reloader) update(fn func(*domain.ReloadState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.state)
}

// classify turns err into a ReloadError. A phase that ran out of time is a timeout
// whatever the client reported.
func classify(phaseCtx context.Context, op string, err error) error {
	if errors.Is(phaseCtx.Err(), context.DeadlineExceeded) {
		var re *domain.ReloadError
		if errors.As(err, &re) && re.Kind == domain.KindTimeout {
			return err
		}
		return domain.NewReloadError(domain.KindTimeout, op, err)
	}
	var re *domain.ReloadError
	if errors.As(err, &re) {
		return err
	}
	return domain.NewReloadError(domain.KindOf(err), op, err)
}
