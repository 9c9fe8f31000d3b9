package domain

import "time"

// Phase is the position of a reloader in its cycle.
type Phase string

const (
	// PhaseIdle waits for the next tick.
	PhaseIdle Phase = "idle"
	// PhaseChecking asks the source for its change marker.
	PhaseChecking Phase = "checking"
	// PhaseFetching reads every raw entry from the source.
	PhaseFetching Phase = "fetching"
	// PhaseBuilding parses the entries into a candidate dictionary.
	PhaseBuilding Phase = "building"
	// PhasePublishing swaps the candidate into the handle.
	PhasePublishing Phase = "publishing"
)

// ReloadState is the observable status of one source.
// Reloaders hand out copies; the fields are never shared.
type ReloadState struct {
	Source        string        `json:"source"`
	Phase         Phase         `json:"phase"`
	LastMarker    ChangeMarker  `json:"last_marker"`
	LastSuccessAt time.Time     `json:"last_success_at,omitzero"`
	LastAttemptAt time.Time     `json:"last_attempt_at,omitzero"`
	LastError     string        `json:"last_error,omitempty"`
	LastErrorKind ErrorKind     `json:"last_error_kind,omitempty"`
	RuleCount     int           `json:"rule_count"`
	TermCount     int           `json:"term_count"`
	SkippedCount  int           `json:"skipped_count"`
	Fingerprint   string        `json:"fingerprint,omitempty"`
	Cycles        int64         `json:"cycles"`
	Reloads       int64         `json:"reloads"`
	Failures      int64         `json:"failures"`
	LastDuration  time.Duration `json:"last_duration_ns"`
}

// Healthy reports whether the last cycle ended without error.
func (s ReloadState) Healthy() bool {
	return s.LastError == ""
}

// CycleResult summarizes how a cycle ended.
type CycleResult string

const (
	// ResultNoSignal means the source reported no change marker.
	ResultNoSignal CycleResult = "no-signal"
	// ResultUpToDate means the marker was not newer than the last published one.
	ResultUpToDate CycleResult = "up-to-date"
	// ResultReloaded means a new dictionary was published.
	ResultReloaded CycleResult = "reloaded"
	// ResultFailed means a phase failed and nothing changed.
	ResultFailed CycleResult = "failed"
	// ResultAbandoned means the reloader shut down mid-cycle and nothing changed.
	ResultAbandoned CycleResult = "abandoned"
)

// CycleOutcome is the report of a single reload cycle.
type CycleOutcome struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	Result    CycleResult   `json:"result"`
	Phase     Phase         `json:"phase"`
	Candidate ChangeMarker  `json:"candidate"`
	RuleCount int           `json:"rule_count"`
	Duration  time.Duration `json:"duration_ns"`
	Error     string        `json:"error,omitempty"`
	ErrorKind ErrorKind     `json:"error_kind,omitempty"`
}
