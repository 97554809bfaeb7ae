package claim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumandra/claimd/pkg/claim"
)

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	store := claim.NewMemStore()

	t.Run("insert assigns fresh ids", func(t *testing.T) {
		a, err := store.Insert(ctx, validClaim())
		require.NoError(t, err)
		require.NotEmpty(t, a.ID)

		b, err := store.Insert(ctx, validClaim())
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("insert rejects invalid records", func(t *testing.T) {
		before := store.Len()

		c := validClaim()
		c.Name = ""
		_, err := store.Insert(ctx, c)
		assert.ErrorIs(t, err, claim.ErrInvalidClaim)
		assert.Equal(t, before, store.Len())
	})

	t.Run("find by subject and attester", func(t *testing.T) {
		c := validClaim()
		c.To = "0xAAA"
		c.Attester = "0xBBB"
		stored, err := store.Insert(ctx, c)
		require.NoError(t, err)

		bySubject, err := store.FindBySubject(ctx, "0xAAA")
		require.NoError(t, err)
		require.Len(t, bySubject, 1)
		assert.Equal(t, stored.ID, bySubject[0].ID)

		byAttester, err := store.FindByAttester(ctx, "0xBBB")
		require.NoError(t, err)
		require.Len(t, byAttester, 1)
		assert.Equal(t, stored.ID, byAttester[0].ID)

		none, err := store.FindBySubject(ctx, "0xNOBODY")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("find by id", func(t *testing.T) {
		stored, err := store.Insert(ctx, validClaim())
		require.NoError(t, err)

		got, err := store.FindByID(ctx, stored.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, stored, *got)

		missing, err := store.FindByID(ctx, "no-such-id")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("delete", func(t *testing.T) {
		stored, err := store.Insert(ctx, validClaim())
		require.NoError(t, err)

		deleted, err := store.DeleteByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		again, err := store.DeleteByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.False(t, again)
	})
}
