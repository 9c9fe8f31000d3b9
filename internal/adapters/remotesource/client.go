// Package remotesource implements ports.SourceClient for rule files reachable by URL.
package remotesource

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/viant/afs"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceClient = (*Client)(nil)

// Client stats and downloads one URL (http, https, file or mem).
// For file and mem URLs the object's modification time is the change marker.
// HTTP servers may omit Last-Modified, in which case afs reports the request
// time, so http and https markers follow the content digest instead.
type Client struct {
	spec   domain.SourceSpec
	fs     afs.Service
	logger ports.Logger

	mu     sync.Mutex
	seen   bool
	digest uint64
	marker domain.ChangeMarker
}

// New creates a Client backed by the default afs service.
func New(spec domain.SourceSpec, logger ports.Logger) *Client {
	return NewWithService(spec, afs.New(), logger)
}

// NewWithService creates a Client backed by fs.
func NewWithService(spec domain.SourceSpec, fs afs.Service, logger ports.Logger) *Client {
	return &Client{spec: spec, fs: fs, logger: logger}
}

// FetchChangeMarker returns the modification time of the object, or for http and
// https URLs the time the current content was first seen.
// A zero modification time is reported as no signal.
func (c *Client) FetchChangeMarker(ctx context.Context) (domain.ChangeMarker, error) {
	if isHTTP(c.spec.URL) {
		return c.contentMarker(ctx)
	}

	obj, err := c.fs.Object(ctx, c.spec.URL)
	if err != nil {
		return domain.UnknownMarker, c.classify("stat", err)
	}
	return domain.MarkerFromTime(obj.ModTime()), nil
}

// FetchAll downloads the object and returns one entry per non-blank line.
func (c *Client) FetchAll(ctx context.Context) ([]domain.RawEntry, error) {
	start := time.Now()

	data, err := c.fs.DownloadWithURL(ctx, c.spec.URL)
	if err != nil {
		return nil, c.classify("download", err)
	}

	var entries []domain.RawEntry
	for line := range strings.Lines(string(data)) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, domain.RawEntry{Text: line})
	}

	c.logger.Info(fmt.Sprintf("source %s: downloaded %d bytes (%d lines) in %dms",
		c.spec.Name, len(data), len(entries), time.Since(start).Milliseconds()))
	return entries, nil
}

// contentMarker downloads the object and keeps the marker while its digest is unchanged.
// A new digest gets a marker newer than every previous one.
func (c *Client) contentMarker(ctx context.Context) (domain.ChangeMarker, error) {
	data, err := c.fs.DownloadWithURL(ctx, c.spec.URL)
	if err != nil {
		return domain.UnknownMarker, c.classify("download", err)
	}
	digest := xxhash.Sum64(data)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seen && digest == c.digest {
		return c.marker, nil
	}

	next := domain.MarkerFromTime(time.Now())
	if c.seen && !next.After(c.marker) {
		next = domain.NewMarker(c.marker.Value() + 1)
	}
	c.seen = true
	c.digest = digest
	c.marker = next
	return next, nil
}

func isHTTP(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Close does nothing; every fetch is a fresh request.
func (c *Client) Close() error {
	return nil
}

func (c *Client) classify(op string, err error) error {
	kind := domain.KindConnection
	if errors.Is(err, context.DeadlineExceeded) {
		kind = domain.KindTimeout
	}
	wrapped := zerr.With(zerr.Wrap(err, op+" "+c.spec.URL), "source", c.spec.Name)
	return domain.NewReloadError(kind, op, wrapped)
}

// LocalPath returns the filesystem path behind a file URL or a bare path.
func LocalPath(url string) (string, bool) {
	switch {
	case strings.HasPrefix(url, "file://"):
		return filepath.Clean(strings.TrimPrefix(url, "file://")), true
	case !strings.Contains(url, "://") && url != "":
		abs, err := filepath.Abs(url)
		if err != nil {
			return "", false
		}
		return abs, true
	default:
		return "", false
	}
}
