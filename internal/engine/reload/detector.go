// Package reload keeps a synonym dictionary fresh against its source.
package reload

import (
	"sync"

	"go.trai.ch/thesaurus/internal/core/domain"
)

// ShouldReload reports whether candidate is newer than last.
// An unknown candidate is "no signal" and never triggers a reload.
func ShouldReload(last, candidate domain.ChangeMarker) bool {
	return candidate.After(last)
}

// Detector tracks the marker of the last published dictionary.
// The marker only moves forward.
type Detector struct {
	mu   sync.Mutex
	last domain.ChangeMarker
}

// NewDetector returns a detector that has seen nothing yet.
func NewDetector() *Detector {
	return &Detector{}
}

// ShouldReload compares candidate with the last published marker.
// It does not change the detector.
func (d *Detector) ShouldReload(candidate domain.ChangeMarker) bool {
	return ShouldReload(d.Last(), candidate)
}

// Advance records candidate as published. Older or unknown markers are ignored.
func (d *Detector) Advance(candidate domain.ChangeMarker) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = d.last.Max(candidate)
}

// Seed sets the starting marker from a restored snapshot.
func (d *Detector) Seed(marker domain.ChangeMarker) {
	d.Advance(marker)
}

// Last returns the marker of the last published dictionary.
func (d *Detector) Last() domain.ChangeMarker {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}
