package verification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beginTestSession(t *testing.T, orderID string) *Session {
	t.Helper()
	verifier := newTestVerifier(testConfig(300), &fakeRotationStore{suffix: 1}, &fakeRecordSource{}, &fakeNotifier{})
	session, err := verifier.Begin(context.Background(), Order{ID: orderID, Amount: 10}, MethodDecimal)
	require.NoError(t, err)
	t.Cleanup(session.Cancel)
	return session
}

func TestRegistryRejectsLiveDuplicate(t *testing.T) {
	registry := NewRegistry()
	first := beginTestSession(t, "u1_001")
	second := beginTestSession(t, "u1_001")

	assert.True(t, registry.Add("u1_001", first))
	assert.False(t, registry.Add("u1_001", second), "a live session holds the order id")

	got, ok := registry.Get("u1_001")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestRegistryReplacesStoppedSession(t *testing.T) {
	registry := NewRegistry()
	first := beginTestSession(t, "u1_002")
	require.True(t, registry.Add("u1_002", first))

	first.Cancel()
	waitForSession(t, first)

	second := beginTestSession(t, "u1_002")
	assert.True(t, registry.Add("u1_002", second))

	got, ok := registry.Get("u1_002")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestRegistryRemove(t *testing.T) {
	registry := NewRegistry()
	session := beginTestSession(t, "u1_003")
	require.True(t, registry.Add("u1_003", session))

	registry.Remove("u1_003")

	_, ok := registry.Get("u1_003")
	assert.False(t, ok)
}
