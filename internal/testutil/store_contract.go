package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ResultStore mirrors the store contract consumed by the dashboard service.
type ResultStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// RunResultStoreContract exercises the behaviour every result store must
// share.  newStore must return an empty store.
func RunResultStoreContract(t *testing.T, newStore func(t *testing.T) ResultStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("miss on empty store", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.Get(ctx, "mineral_extraction")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("set then get returns identical bytes", func(t *testing.T) {
		s := newStore(t)
		payload := []byte(`{"insights":["a"]}`)
		require.NoError(t, s.Set(ctx, "water_quality", payload))

		v, ok, err := s.Get(ctx, "water_quality")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, payload, v)

		again, _, _ := s.Get(ctx, "water_quality")
		assert.Equal(t, v, again)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "k", []byte("1")))
		require.NoError(t, s.Set(ctx, "k", []byte("2")))
		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("2"), v)
	})

	t.Run("clear empties the store", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "a", []byte("1")))
		require.NoError(t, s.Set(ctx, "b", []byte("2")))
		require.NoError(t, s.Clear(ctx))

		for _, k := range []string{"a", "b"} {
			_, ok, err := s.Get(ctx, k)
			require.NoError(t, err)
			assert.False(t, ok, k)
		}
	})
}

//Personal.AI order the ending
