package domain

import (
	"context"
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrConnection is returned when the external store cannot be reached or re-reached.
	ErrConnection = zerr.New("source connection failed")

	// ErrQuery is returned when a source query fails or returns an unexpected shape.
	ErrQuery = zerr.New("source query failed")

	// ErrMalformedRule is returned in strict mode when a synonym rule cannot be parsed.
	ErrMalformedRule = zerr.New("malformed synonym rule")

	// ErrTimeout is returned when a reload phase exceeds its configured timeout.
	ErrTimeout = zerr.New("reload phase timed out")

	// ErrUnknownFormat is returned when a rule format is not solr or wordnet.
	ErrUnknownFormat = zerr.New("unknown synonym format, expected 'solr' or 'wordnet'")

	// ErrUnknownAnalyzer is returned when an analyzer name is not recognized.
	ErrUnknownAnalyzer = zerr.New("unknown analyzer, expected 'standard', 'keyword', 'whitespace' or 'kagome'")

	// ErrUnknownSourceKind is returned when a source kind is not sql or remote.
	ErrUnknownSourceKind = zerr.New("unknown source kind, expected 'sql' or 'remote'")

	// ErrUnknownSource is returned when a named source is not configured.
	ErrUnknownSource = zerr.New("unknown source")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file does not exist.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrInvalidSource is returned when a source definition fails validation.
	ErrInvalidSource = zerr.New("invalid source definition")

	// ErrDuplicateSource is returned when two sources share a name.
	ErrDuplicateSource = zerr.New("duplicate source name")

	// ErrInvalidDuration is returned when a duration setting cannot be parsed or is not positive.
	ErrInvalidDuration = zerr.New("invalid duration")

	// ErrSnapshotOpenFailed is returned when the snapshot database cannot be opened.
	ErrSnapshotOpenFailed = zerr.New("failed to open snapshot store")

	// ErrSnapshotReadFailed is returned when a snapshot cannot be read.
	ErrSnapshotReadFailed = zerr.New("failed to read snapshot")

	// ErrSnapshotWriteFailed is returned when a snapshot cannot be written.
	ErrSnapshotWriteFailed = zerr.New("failed to write snapshot")

	// ErrCheckFailed is returned by the check command when at least one source has malformed rules.
	ErrCheckFailed = zerr.New("synonym check failed")
)

// ErrorKind classifies a reload failure for the observability surface.
type ErrorKind string

const (
	// KindNone means the last cycle did not fail.
	KindNone ErrorKind = ""
	// KindConnection marks an unreachable external store.
	KindConnection ErrorKind = "connection"
	// KindQuery marks a failed or malformed query result.
	KindQuery ErrorKind = "query"
	// KindMalformedRule marks a strict-mode build failure.
	KindMalformedRule ErrorKind = "malformed_rule"
	// KindTimeout marks an abandoned cycle.
	KindTimeout ErrorKind = "timeout"
	// KindUnknown marks any other failure.
	KindUnknown ErrorKind = "unknown"
)

// Sentinel returns the sentinel error for the kind, or nil for KindNone and KindUnknown.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindConnection:
		return ErrConnection
	case KindQuery:
		return ErrQuery
	case KindMalformedRule:
		return ErrMalformedRule
	case KindTimeout:
		return ErrTimeout
	default:
		return nil
	}
}

// ReloadError is a classified failure of one reload phase.
// It unwraps to both the kind sentinel and the underlying cause.
type ReloadError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewReloadError classifies err under kind. A nil err yields nil.
func NewReloadError(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ReloadError{Kind: kind, Op: op, Err: err}
}

func (e *ReloadError) Error() string {
	prefix := string(e.Kind)
	if s := e.Kind.Sentinel(); s != nil {
		prefix = s.Error()
	}
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.Err == nil {
		return prefix
	}
	return prefix + ": " + e.Err.Error()
}

// Unwrap exposes the kind sentinel and the cause to errors.Is and errors.As.
func (e *ReloadError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.Sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf maps err to an ErrorKind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var re *ReloadError
	if errors.As(err, &re) {
		return re.Kind
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrConnection):
		return KindConnection
	case errors.Is(err, ErrQuery):
		return KindQuery
	case errors.Is(err, ErrMalformedRule):
		return KindMalformedRule
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	default:
		return KindUnknown
	}
}
