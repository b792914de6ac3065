package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnsCafeRejectsMalformedIDsWithoutQuerying(t *testing.T) {
	repo := NewAccountRepository(nil)

	owns, err := repo.OwnsCafe(context.Background(), uuid.NewString(), "abc")
	require.NoError(t, err)
	assert.False(t, owns)

	owns, err = repo.OwnsCafe(context.Background(), "owner-1", uuid.NewString())
	require.NoError(t, err)
	assert.False(t, owns)
}
