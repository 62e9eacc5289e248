package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialProvider_RequestAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("first non-empty source wins", func(t *testing.T) {
		t.Parallel()

		p := NewCredentialProvider(testLogger(), StaticKey(""), StaticKey("  AIzaFirst "), StaticKey("AIzaSecond"))

		ok, err := p.HasAccess(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, p.RequestAccess(ctx))
		assert.Equal(t, "AIzaFirst", p.APIKey())

		ok, err = p.HasAccess(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no key available", func(t *testing.T) {
		t.Parallel()

		p := NewCredentialProvider(testLogger(), StaticKey(""))
		assert.ErrorIs(t, p.RequestAccess(ctx), ErrNoAPIKey)
		assert.Empty(t, p.APIKey())
	})

	t.Run("clear drops the key", func(t *testing.T) {
		t.Parallel()

		p := NewCredentialProvider(testLogger(), StaticKey("AIzaKey"))
		require.NoError(t, p.RequestAccess(ctx))
		p.Clear()

		ok, err := p.HasAccess(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, p.RequestAccess(ctx))
		assert.Equal(t, "AIzaKey", p.APIKey())
	})
}

func TestEnvKey(t *testing.T) {
	t.Setenv("POSTERDROP_TEST_GEMINI_KEY", "AIzaFromEnv")

	p := NewCredentialProvider(testLogger(), EnvKey("POSTERDROP_TEST_GEMINI_KEY"))
	require.NoError(t, p.RequestAccess(context.Background()))
	assert.Equal(t, "AIzaFromEnv", p.APIKey())
}
