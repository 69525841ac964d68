package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/tickdone/internal/ticktick"
)

func TestServerContextShutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), ticktick.NewClient())
	assert.False(t, sc.IsShutdown())

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	// Shutdown is idempotent.
	require.NoError(t, sc.Shutdown())
}

func TestServerContextClient(t *testing.T) {
	client := ticktick.NewClient()
	sc := NewServerContext(context.Background(), client)
	assert.Same(t, client, sc.Client())

	other := ticktick.NewClient()
	sc.SetClient(other)
	assert.Same(t, other, sc.Client())
}

func TestServerContextInstrumentationUnset(t *testing.T) {
	sc := NewServerContext(context.Background(), ticktick.NewClient())
	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())
}
