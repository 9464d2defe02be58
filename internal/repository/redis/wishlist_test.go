package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWishlistRepo(t *testing.T) (*WishlistRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewWishlistRepository(client), mr
}

func TestWishlistRepository_Get_EmptyIsNotAnError(t *testing.T) {
	repo, _ := setupWishlistRepo(t)

	w, err := repo.Get(context.Background(), "user-001")
	require.NoError(t, err)
	assert.Equal(t, "user-001", w.UserID)
	assert.NotNil(t, w.ProductIDs)
	assert.Empty(t, w.ProductIDs)
}

func TestWishlistRepository_Add_ThenGet(t *testing.T) {
	repo, _ := setupWishlistRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "user-001", "prod-1"))
	require.NoError(t, repo.Add(ctx, "user-001", "prod-2"))

	w, err := repo.Get(ctx, "user-001")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"prod-1", "prod-2"}, w.ProductIDs)
}

func TestWishlistRepository_Add_Idempotent(t *testing.T) {
	repo, _ := setupWishlistRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "user-001", "prod-1"))
	require.NoError(t, repo.Add(ctx, "user-001", "prod-1"))

	w, err := repo.Get(ctx, "user-001")
	require.NoError(t, err)
	assert.Len(t, w.ProductIDs, 1)
}

func TestWishlistRepository_Remove(t *testing.T) {
	repo, _ := setupWishlistRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "user-001", "prod-1"))
	require.NoError(t, repo.Remove(ctx, "user-001", "prod-1"))

	w, err := repo.Get(ctx, "user-001")
	require.NoError(t, err)
	assert.Empty(t, w.ProductIDs)
}

func TestWishlistRepository_Remove_MissingIsNoop(t *testing.T) {
	repo, _ := setupWishlistRepo(t)

	assert.NoError(t, repo.Remove(context.Background(), "user-001", "prod-9"))
}

func TestWishlistRepository_Clear(t *testing.T) {
	repo, mr := setupWishlistRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "user-001", "prod-1"))
	require.NoError(t, repo.Add(ctx, "user-001", "prod-2"))
	require.NoError(t, repo.Clear(ctx, "user-001"))

	assert.False(t, mr.Exists("wishlist:user-001"))
}
