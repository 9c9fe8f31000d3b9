package domain_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/thesaurus/internal/core/domain"
)

func TestReloadError_Unwrap(t *testing.T) {
	t.Parallel()

	err := domain.NewReloadError(domain.KindQuery, "fetch entries", sql.ErrNoRows)

	assert.ErrorIs(t, err, domain.ErrQuery)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NotErrorIs(t, err, domain.ErrConnection)
	assert.Contains(t, err.Error(), "fetch entries")
	assert.Contains(t, err.Error(), sql.ErrNoRows.Error())
}

func TestNewReloadError_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, domain.NewReloadError(domain.KindQuery, "op", nil))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"nil", nil, domain.KindNone},
		{"reload error", domain.NewReloadError(domain.KindConnection, "ping", errors.New("refused")), domain.KindConnection},
		{"wrapped reload error", fmt.Errorf("cycle: %w", domain.NewReloadError(domain.KindMalformedRule, "", errors.New("x"))), domain.KindMalformedRule},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), domain.KindTimeout},
		{"sentinel", domain.ErrQuery, domain.KindQuery},
		{"other", errors.New("boom"), domain.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.KindOf(tt.err))
		})
	}
}
