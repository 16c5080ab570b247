package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), ErrNotFound)

	other := fmt.Errorf("connection refused")
	assert.Equal(t, other, notFound(other))
	assert.False(t, errors.Is(notFound(other), ErrNotFound))
}
