package reload

import (
	"sync/atomic"

	"go.trai.ch/thesaurus/internal/core/domain"
)

// Handle publishes the current dictionary to readers.
// Reads never block; a swap replaces the whole dictionary at once.
type Handle struct {
	current atomic.Pointer[domain.Dictionary]
}

// NewHandle returns a handle holding the empty dictionary.
func NewHandle() *Handle {
	h := &Handle{}
	h.current.Store(domain.EmptyDictionary())
	return h
}

// Current returns the latest published dictionary. It is never nil.
func (h *Handle) Current() *domain.Dictionary {
	return h.current.Load()
}

// Swap publishes next and returns the dictionary it replaced.
// A nil next is ignored and the current dictionary is returned.
func (h *Handle) Swap(next *domain.Dictionary) *domain.Dictionary {
	if next == nil {
		return h.Current()
	}
	return h.current.Swap(next)
}
