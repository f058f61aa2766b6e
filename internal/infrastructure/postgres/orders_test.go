package postgres

import (
	"errors"
	"fmt"
	"testing"

	"recipe-cart/internal/pkg/common"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestInsertError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, insertError("o1", nil))

	dup := fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolation, Message: "duplicate key"})
	assert.ErrorIs(t, insertError("o1", dup), common.ErrConflict)

	other := insertError("o1", errors.New("connection reset"))
	assert.NotErrorIs(t, other, common.ErrConflict)
	assert.Contains(t, other.Error(), "o1")
}
