package sqlsource_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
)

const fakeDriverName = "thesaurus-fake"

func init() {
	sql.Register(fakeDriverName, &fakeDriver{})
}

// fakeBackend scripts the behaviour of one DSN.
type fakeBackend struct {
	mu        sync.Mutex
	opens     int
	openErrs  []error
	queryErrs []error
	columns   []string
	values    [][]driver.Value
}

var (
	backendsMu sync.Mutex
	backends   = map[string]*fakeBackend{}
)

func registerBackend(dsn string, b *fakeBackend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[dsn] = b
}

func (b *fakeBackend) Opens() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

type fakeDriver struct{}

func (d *fakeDriver) Open(dsn string) (driver.Conn, error) {
	backendsMu.Lock()
	b := backends[dsn]
	backendsMu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.opens++
	if len(b.openErrs) > 0 {
		err := b.openErrs[0]
		b.openErrs = b.openErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &fakeConn{backend: b}, nil
}

type fakeConn struct {
	backend *fakeBackend
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }

func (c *fakeConn) QueryContext(_ context.Context, _ string, _ []driver.NamedValue) (driver.Rows, error) {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queryErrs) > 0 {
		err := b.queryErrs[0]
		b.queryErrs = b.queryErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &fakeRows{columns: b.columns, values: b.values}, nil
}

type fakeRows struct {
	columns []string
	values  [][]driver.Value
	pos     int
}

func (r *fakeRows) Columns() []string { return r.columns }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.pos])
	r.pos++
	return nil
}
