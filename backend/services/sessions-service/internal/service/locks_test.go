package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (l *tableLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func TestTableLocksSerializeOneKey(t *testing.T) {
	locks := newTableLocks()

	unlock, err := locks.lock(context.Background(), "t-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.lock(ctx, "t-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := locks.lock(context.Background(), "t-2")
	require.NoError(t, err)
	other()

	unlock()
	again, err := locks.lock(context.Background(), "t-1")
	require.NoError(t, err)
	again()
	assert.Zero(t, locks.size())
}
