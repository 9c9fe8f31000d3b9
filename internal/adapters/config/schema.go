package config

// File represents the structure of thesaurus.yaml.
type File struct {
	Health   HealthDTO   `yaml:"health"`
	Snapshot SnapshotDTO `yaml:"snapshot"`
	Log      LogDTO      `yaml:"log"`
	Sources  []SourceDTO `yaml:"sources"`
}

// HealthDTO configures the diagnostics server.
type HealthDTO struct {
	Addr string `yaml:"addr"`
}

// SnapshotDTO configures warm starts. A nil path selects the default location.
type SnapshotDTO struct {
	Path *string `yaml:"path"`
}

// LogDTO configures logging.
type LogDTO struct {
	JSON bool `yaml:"json"`
}

// SourceDTO represents one entry of the sources list.
type SourceDTO struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	Driver        string `yaml:"driver"`
	DSN           string `yaml:"dsn"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	EntriesQuery  string `yaml:"entries_query"`
	EntriesColumn string `yaml:"entries_column"`
	MarkerQuery   string `yaml:"marker_query"`

	URL string `yaml:"url"`

	Format   string `yaml:"format"`
	Expand   *bool  `yaml:"expand"`
	Lenient  *bool  `yaml:"lenient"`
	Analyzer string `yaml:"analyzer"`

	Interval     string `yaml:"interval"`
	FetchTimeout string `yaml:"fetch_timeout"`
	BuildTimeout string `yaml:"build_timeout"`
}
