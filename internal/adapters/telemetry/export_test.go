package telemetry

import (
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/thesaurus/internal/core/ports"
)

// WrapSpan exposes OTelSpan construction for tests.
func WrapSpan(s trace.Span) ports.Span {
	return &OTelSpan{span: s}
}
