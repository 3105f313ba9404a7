package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	seen, err := m.Seen(ctx, "uid", "client")
	require.NoError(t, err)
	assert.Empty(t, seen)

	require.NoError(t, m.MarkSeen(ctx, "uid", "client", []string{"profile:email", "profile:uid"}))
	require.NoError(t, m.MarkSeen(ctx, "uid", "client", []string{"profile:uid", "profile:avatar"}))

	seen, err = m.Seen(ctx, "uid", "client")
	require.NoError(t, err)
	assert.Equal(t, []string{"profile:email", "profile:uid", "profile:avatar"}, seen)

	other, err := m.Seen(ctx, "uid", "other-client")
	require.NoError(t, err)
	assert.Empty(t, other, "permissions are per client")
}
