package domain

import "time"

// SourceKind selects the SourceClient implementation.
type SourceKind string

const (
	// SourceSQL reads rules and markers with SQL queries.
	SourceSQL SourceKind = "sql"
	// SourceRemote reads a rule file from a URL.
	SourceRemote SourceKind = "remote"
)

// Config is the validated service configuration.
type Config struct {
	Path     string
	Sources  []SourceSpec
	Health   HealthSpec
	Snapshot SnapshotSpec
	Log      LogSpec
}

// Source returns the source named name.
func (c *Config) Source(name string) (SourceSpec, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceSpec{}, false
}

// SourceSpec describes one synonym source and how its rules are built.
type SourceSpec struct {
	Name string
	Kind SourceKind

	// SQL settings.
	Driver        string
	DSN           string
	User          string
	Password      string
	EntriesQuery  string
	EntriesColumn string
	MarkerQuery   string

	// Remote settings.
	URL string

	Build        BuildOptions
	Interval     time.Duration
	FetchTimeout time.Duration
	BuildTimeout time.Duration
}

// HealthSpec configures the diagnostics server.
type HealthSpec struct {
	Addr string
}

// SnapshotSpec configures warm starts. An empty path disables them.
type SnapshotSpec struct {
	Path string
}

// LogSpec configures logging.
type LogSpec struct {
	JSON bool
}
