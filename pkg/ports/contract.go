package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mframework/pkg/document"
	"github.com/aretw0/mframework/pkg/domain"
)

// RunDocumentStoreContract runs a suite of tests to verify that a
// DocumentStore implementation adheres to the interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	sample := func() *document.Document {
		wing := document.New()
		wing.Set("span", 20.0)
		wing.Set("area", 40.5)

		d := document.New()
		d.Set("wing", []any{wing})
		d.Set("name", "glider")
		d.Set("seats", 2)
		return d
	}

	t.Run("Save and Load", func(t *testing.T) {
		doc := sample()
		require.NoError(t, store.Save(ctx, key, doc), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc.Keys(), loaded.Keys(), "key order must survive")
		assert.Equal(t, doc.ToMap(), loaded.ToMap())
	})

	t.Run("Isolation", func(t *testing.T) {
		doc := sample()
		require.NoError(t, store.Save(ctx, key, doc))
		doc.Set("name", "changed")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded.Set("seats", 9)

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		name, _ := again.Get("name")
		seats, _ := again.Get("seats")
		assert.Equal(t, "glider", name)
		assert.Equal(t, 2, seats)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, sample()))
		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")
		assert.NoError(t, store.Delete(ctx, key), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		k1, k2 := key+"-b", key+"-a"
		require.NoError(t, store.Save(ctx, k1, sample()))
		require.NoError(t, store.Save(ctx, k2, sample()))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
		assert.IsNonDecreasing(t, keys)
	})
}
