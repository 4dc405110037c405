package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRegistryRegisterDiscoverCoordinator(t *testing.T) {
	reg, err := NewFileRegistry(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := reg.DiscoverCoordinator(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	addr := NodeAddress{PrivateIP: "10.0.0.5", InternalPort: 9100, HTTPPort: 9101}
	require.NoError(t, reg.RegisterCoordinator(ctx, addr))

	got, ok, err := reg.DiscoverCoordinator(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, addr, got)

	require.NoError(t, reg.UnregisterCoordinator(ctx))
	_, ok, err = reg.DiscoverCoordinator(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unregistering a missing key is success (idempotent).
	require.NoError(t, reg.UnregisterCoordinator(ctx))
}

func TestFileRegistryBackendsSnapshot(t *testing.T) {
	reg, err := NewFileRegistry(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, reg.RegisterBackend(ctx, "i-1", NodeAddress{PrivateIP: "10.0.0.1", InternalPort: 1}))
	require.NoError(t, reg.RegisterBackend(ctx, "i-2", NodeAddress{PrivateIP: "10.0.0.2", InternalPort: 2}))

	entries, err := reg.DiscoverBackends(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, reg.UnregisterBackend(ctx, "i-1"))
	entries, err = reg.DiscoverBackends(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "i-2", entries[0].InstanceID)
}

func TestNewRegistryFactory(t *testing.T) {
	reg, err := NewRegistry("localhost", t.TempDir())
	require.NoError(t, err)
	_, ok := reg.(*FileRegistry)
	assert.True(t, ok)

	_, err = NewRegistry("aws", t.TempDir())
	assert.ErrorIs(t, err, ErrSSMNotConfigured)
}
