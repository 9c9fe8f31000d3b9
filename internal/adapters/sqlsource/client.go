// Package sqlsource implements ports.SourceClient on top of database/sql.
package sqlsource

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/zerr"

	// Register the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"
	// Register the cgo "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

var _ ports.SourceClient = (*Client)(nil)

// Client reads rules and markers with the configured queries.
// The connection is opened on first use and reopened once after a transport failure.
type Client struct {
	spec   domain.SourceSpec
	logger ports.Logger

	mu sync.Mutex
	db *sql.DB
}

// New creates a Client. No connection is made until the first fetch.
func New(spec domain.SourceSpec, logger ports.Logger) *Client {
	return &Client{spec: spec, logger: logger}
}

// IsDriverRegistered reports whether name is a database/sql driver linked into the binary.
func IsDriverRegistered(name string) bool {
	for _, d := range sql.Drivers() {
		if d == name {
			return true
		}
	}
	return false
}

// FetchAll runs the entries query. NULL values are skipped.
func (c *Client) FetchAll(ctx context.Context) ([]domain.RawEntry, error) {
	start := time.Now()

	var entries []domain.RawEntry
	err := c.withConn(ctx, "fetch entries", func(db *sql.DB) error {
		var err error
		entries, err = c.queryEntries(ctx, db)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("source %s: fetched %d entries in %dms",
		c.spec.Name, len(entries), time.Since(start).Milliseconds()))
	return entries, nil
}

// FetchChangeMarker runs the marker query. NULL or no rows means no signal.
func (c *Client) FetchChangeMarker(ctx context.Context) (domain.ChangeMarker, error) {
	marker := domain.UnknownMarker
	err := c.withConn(ctx, "fetch change marker", func(db *sql.DB) error {
		var err error
		marker, err = c.queryMarker(ctx, db)
		return err
	})
	if err != nil {
		return domain.UnknownMarker, err
	}
	return marker, nil
}

// Close releases the connection pool. The next fetch reconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// withConn runs fn on the shared connection. A transport failure closes the
// connection, reconnects and runs fn exactly once more.
func (c *Client) withConn(ctx context.Context, op string, fn func(db *sql.DB) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	db, err := c.connectLocked(ctx)
	if err != nil {
		return c.classify(op, domain.KindConnection, err)
	}

	err = fn(db)
	if err == nil || !isTransportError(err) {
		return c.classify(op, domain.KindQuery, err)
	}

	c.logger.Warn(fmt.Sprintf("source %s: %s failed on a broken connection, reconnecting: %v", c.spec.Name, op, err))
	_ = c.closeLocked()

	db, err = c.connectLocked(ctx)
	if err != nil {
		return c.classify(op, domain.KindConnection, err)
	}

	err = fn(db)
	if err != nil && isTransportError(err) {
		_ = c.closeLocked()
		return c.classify(op, domain.KindConnection, err)
	}
	return c.classify(op, domain.KindQuery, err)
}

func (c *Client) connectLocked(ctx context.Context) (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}

	db, err := sql.Open(c.spec.Driver, c.dsn())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	c.db = db
	return db, nil
}

// dsn substitutes ${user} and ${password} so credentials can live outside the DSN.
func (c *Client) dsn() string {
	return strings.NewReplacer("${user}", c.spec.User, "${password}", c.spec.Password).Replace(c.spec.DSN)
}

func (c *Client) classify(op string, kind domain.ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = domain.KindTimeout
	}
	wrapped := zerr.With(zerr.Wrap(err, op), "source", c.spec.Name)
	wrapped = zerr.With(wrapped, "driver", c.spec.Driver)
	return domain.NewReloadError(kind, op, wrapped)
}

func isTransportError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
