package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the compare-and-swap semantics every driver must share.
func runStoreContract(t *testing.T, store RecordStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("unwritten collection is empty at version zero", func(t *testing.T) {
		c, err := store.Read(ctx, "fresh")
		require.NoError(t, err)
		assert.Empty(t, c.Records)
		assert.Equal(t, int64(0), c.Version)
	})

	t.Run("write then read round trips records", func(t *testing.T) {
		records := []json.RawMessage{json.RawMessage(`{"id":"a"}`), json.RawMessage(`{"id":"b"}`)}
		v, err := store.Write(ctx, "roundtrip", records, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		c, err := store.Read(ctx, "roundtrip")
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.Version)
		require.Len(t, c.Records, 2)
		assert.JSONEq(t, `{"id":"a"}`, string(c.Records[0]))
		assert.JSONEq(t, `{"id":"b"}`, string(c.Records[1]))
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		_, err := store.Write(ctx, "cas", []json.RawMessage{json.RawMessage(`{"n":1}`)}, 0)
		require.NoError(t, err)

		_, err = store.Write(ctx, "cas", []json.RawMessage{json.RawMessage(`{"n":2}`)}, 0)
		assert.ErrorIs(t, err, ErrVersionConflict)

		v, err := store.Write(ctx, "cas", []json.RawMessage{json.RawMessage(`{"n":3}`)}, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)

		c, err := store.Read(ctx, "cas")
		require.NoError(t, err)
		require.Len(t, c.Records, 1)
		assert.JSONEq(t, `{"n":3}`, string(c.Records[0]))
	})

	t.Run("empty write keeps an empty collection", func(t *testing.T) {
		v, err := store.Write(ctx, "emptied", nil, 0)
		require.NoError(t, err)
		c, err := store.Read(ctx, "emptied")
		require.NoError(t, err)
		assert.Empty(t, c.Records)
		assert.Equal(t, v, c.Version)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
