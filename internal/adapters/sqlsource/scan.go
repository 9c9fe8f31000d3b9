package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/zerr"
)

var markerTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func (c *Client) queryEntries(ctx context.Context, db *sql.DB) ([]domain.RawEntry, error) {
	rows, err := db.QueryContext(ctx, c.spec.EntriesQuery)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	idx, err := entriesColumnIndex(cols, c.spec.EntriesColumn)
	if err != nil {
		return nil, err
	}

	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(any)
	}
	var text sql.NullString
	dest[idx] = &text

	var entries []domain.RawEntry
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if !text.Valid {
			continue
		}
		entries = append(entries, domain.RawEntry{Text: text.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func entriesColumnIndex(cols []string, want string) (int, error) {
	if len(cols) == 1 {
		return 0, nil
	}
	for i, col := range cols {
		if strings.EqualFold(col, want) {
			return i, nil
		}
	}
	err := zerr.With(zerr.New("entries column not found"), "column", want)
	return 0, zerr.With(err, "columns", strings.Join(cols, ","))
}

func (c *Client) queryMarker(ctx context.Context, db *sql.DB) (domain.ChangeMarker, error) {
	rows, err := db.QueryContext(ctx, c.spec.MarkerQuery)
	if err != nil {
		return domain.UnknownMarker, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return domain.UnknownMarker, err
	}
	if len(cols) != 1 {
		return domain.UnknownMarker, zerr.With(zerr.New("marker query must return one column"), "columns", len(cols))
	}

	marker := domain.UnknownMarker
	for rows.Next() {
		var raw any
		if err := rows.Scan(&raw); err != nil {
			return domain.UnknownMarker, err
		}
		m, err := markerFromValue(raw)
		if err != nil {
			return domain.UnknownMarker, err
		}
		marker = marker.Max(m)
	}
	if err := rows.Err(); err != nil {
		return domain.UnknownMarker, err
	}
	return marker, nil
}

// markerFromValue converts a scanned column value. NULL yields UnknownMarker.
func markerFromValue(raw any) (domain.ChangeMarker, error) {
	switch v := raw.(type) {
	case nil:
		return domain.UnknownMarker, nil
	case time.Time:
		return domain.MarkerFromTime(v), nil
	case int64:
		return domain.NewMarker(v), nil
	case int32:
		return domain.NewMarker(int64(v)), nil
	case int:
		return domain.NewMarker(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return domain.UnknownMarker, zerr.With(zerr.New("marker value overflows int64"), "value", v)
		}
		return domain.NewMarker(int64(v)), nil
	case float64:
		// -2^63 and 2^63 are exact as float64; int64 conversion outside that range is undefined.
		if math.IsNaN(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return domain.UnknownMarker, zerr.With(zerr.New("marker value is not a finite int64"), "value", v)
		}
		return domain.NewMarker(int64(v)), nil
	case []byte:
		return markerFromString(string(v))
	case string:
		return markerFromString(v)
	default:
		return domain.UnknownMarker, zerr.With(zerr.New("unsupported marker type"), "type", fmt.Sprintf("%T", raw))
	}
}

func markerFromString(s string) (domain.ChangeMarker, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.UnknownMarker, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return domain.NewMarker(n), nil
	}
	for _, layout := range markerTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.MarkerFromTime(t), nil
		}
	}
	return domain.UnknownMarker, zerr.With(zerr.New("unparsable marker value"), "value", s)
}
