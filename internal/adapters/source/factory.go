// Package source opens the SourceClient matching a configured source kind.
package source

import (
	"go.trai.ch/thesaurus/internal/adapters/remotesource"
	"go.trai.ch/thesaurus/internal/adapters/sqlsource"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceFactory = (*Factory)(nil)

// Factory implements ports.SourceFactory.
type Factory struct {
	logger ports.Logger
}

// NewFactory creates a Factory whose clients log through logger.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger}
}

// Open returns an unconnected client for spec.
func (f *Factory) Open(spec domain.SourceSpec) (ports.SourceClient, error) {
	switch spec.Kind {
	case domain.SourceSQL:
		if !sqlsource.IsDriverRegistered(spec.Driver) {
			err := zerr.Wrap(domain.ErrInvalidSource, "database driver is not linked into this binary")
			return nil, zerr.With(zerr.With(err, "source", spec.Name), "driver", spec.Driver)
		}
		return sqlsource.New(spec, f.logger), nil
	case domain.SourceRemote:
		return remotesource.New(spec, f.logger), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownSourceKind, "source "+spec.Name), "kind", string(spec.Kind))
	}
}
