// Package config loads thesaurus.yaml into a validated domain.Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var validSourceNameRegex = regexp.MustCompile("^[a-zA-Z0-9_.-]+$")

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load reads the configuration at path. An empty path selects thesaurus.yaml.
// A missing file is not an error: the returned configuration has no sources.
func (l *Loader) Load(path string) (*domain.Config, error) {
	if path == "" {
		path = domain.DefaultConfigFileName
	}

	if _, err := l.FS.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.Logger.Warn(fmt.Sprintf("config file %s not found, running without sources", path))
			return defaultConfig(path), nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, err), "could not parse configuration"), "path", path)
	}

	cfg, err := l.toDomain(path, &file)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid configuration"), "path", path)
	}
	return cfg, nil
}

func defaultConfig(path string) *domain.Config {
	return &domain.Config{
		Path:     path,
		Health:   domain.HealthSpec{Addr: domain.DefaultHealthAddr},
		Snapshot: domain.SnapshotSpec{Path: domain.DefaultSnapshotPath()},
	}
}

func (l *Loader) toDomain(path string, file *File) (*domain.Config, error) {
	cfg := defaultConfig(path)
	cfg.Log.JSON = file.Log.JSON
	if file.Health.Addr != "" {
		cfg.Health.Addr = file.Health.Addr
	}
	if file.Snapshot.Path != nil {
		cfg.Snapshot.Path = strings.TrimSpace(*file.Snapshot.Path)
	}

	seen := make(map[string]struct{}, len(file.Sources))
	for i := range file.Sources {
		spec, err := toSourceSpec(&file.Sources[i])
		if err != nil {
			return nil, zerr.With(err, "source_index", i)
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, zerr.With(zerr.Wrap(domain.ErrDuplicateSource, "source "+spec.Name), "source", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		cfg.Sources = append(cfg.Sources, spec)
	}

	return cfg, nil
}

//nolint:cyclop // flat validation of one DTO
func toSourceSpec(dto *SourceDTO) (domain.SourceSpec, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" || !validSourceNameRegex.MatchString(name) {
		return domain.SourceSpec{}, invalidSource(name, "name", "name must match "+validSourceNameRegex.String())
	}

	spec := domain.SourceSpec{
		Name:          name,
		Driver:        strings.TrimSpace(dto.Driver),
		DSN:           dto.DSN,
		User:          dto.User,
		Password:      dto.Password,
		EntriesQuery:  strings.TrimSpace(dto.EntriesQuery),
		EntriesColumn: strings.TrimSpace(dto.EntriesColumn),
		MarkerQuery:   strings.TrimSpace(dto.MarkerQuery),
		URL:           strings.TrimSpace(dto.URL),
	}

	switch domain.SourceKind(strings.ToLower(strings.TrimSpace(dto.Kind))) {
	case "", domain.SourceSQL:
		spec.Kind = domain.SourceSQL
		if spec.Driver == "" {
			spec.Driver = "sqlite"
		}
		if spec.EntriesColumn == "" {
			spec.EntriesColumn = domain.DefaultEntriesColumn
		}
		if spec.DSN == "" {
			return domain.SourceSpec{}, invalidSource(name, "dsn", "dsn is required for sql sources")
		}
		if spec.EntriesQuery == "" {
			return domain.SourceSpec{}, invalidSource(name, "entries_query", "entries_query is required for sql sources")
		}
		if spec.MarkerQuery == "" {
			return domain.SourceSpec{}, invalidSource(name, "marker_query", "marker_query is required for sql sources")
		}
	case domain.SourceRemote:
		spec.Kind = domain.SourceRemote
		if spec.URL == "" {
			return domain.SourceSpec{}, invalidSource(name, "url", "url is required for remote sources")
		}
	default:
		return domain.SourceSpec{}, zerr.With(zerr.Wrap(domain.ErrUnknownSourceKind, "source "+name), "kind", dto.Kind)
	}

	format, err := domain.ParseFormat(dto.Format)
	if err != nil {
		return domain.SourceSpec{}, zerr.With(zerr.Wrap(err, "source "+name), "format", dto.Format)
	}
	analyzer, err := domain.ParseAnalyzer(dto.Analyzer)
	if err != nil {
		return domain.SourceSpec{}, zerr.With(zerr.Wrap(err, "source "+name), "analyzer", dto.Analyzer)
	}
	spec.Build = domain.BuildOptions{
		Format:   format,
		Expand:   boolOr(dto.Expand, true),
		Lenient:  boolOr(dto.Lenient, false),
		Analyzer: analyzer,
	}

	if spec.Interval, err = parseDuration(name, "interval", dto.Interval, domain.DefaultInterval); err != nil {
		return domain.SourceSpec{}, err
	}
	if spec.FetchTimeout, err = parseDuration(name, "fetch_timeout", dto.FetchTimeout, domain.DefaultFetchTimeout); err != nil {
		return domain.SourceSpec{}, err
	}
	if spec.BuildTimeout, err = parseDuration(name, "build_timeout", dto.BuildTimeout, domain.DefaultBuildTimeout); err != nil {
		return domain.SourceSpec{}, err
	}

	return spec, nil
}

func invalidSource(name, field, reason string) error {
	err := zerr.Wrap(domain.ErrInvalidSource, reason)
	err = zerr.With(err, "source", name)
	return zerr.With(err, "field", field)
}

func parseDuration(name, field, raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		wrapped := zerr.Wrap(domain.ErrInvalidDuration, fmt.Sprintf("source %s: %s must be a positive duration", name, field))
		return 0, zerr.With(wrapped, "value", raw)
	}
	return d, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
