package domain

import "time"

// Snapshot is the last-known-good input of a source, kept for warm starts.
type Snapshot struct {
	Source     string       `json:"source"`
	Marker     ChangeMarker `json:"marker"`
	Entries    []RawEntry   `json:"entries"`
	OptionsKey string       `json:"options_key"`
	SavedAt    time.Time    `json:"saved_at,omitzero"`
}
