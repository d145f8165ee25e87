package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/usecase"
	"github.com/iho/assetsync/internal/usecase/mocks"
)

func TestCachedItemCatalog_LoadsOnceThenServesFromCache(t *testing.T) {
	calls := 0
	catalog := mocks.NewMockItemCatalog()
	catalog.GetItemFunc = func(ctx context.Context, id string) (*domain.Item, error) {
		calls++
		return laptop(), nil
	}

	cache := mocks.NewMockCache()
	cached := usecase.NewCachedItemCatalog(catalog, cache, time.Minute, nopLogger())

	for i := 0; i < 3; i++ {
		item, err := cached.GetItem(context.Background(), "item-A")
		require.NoError(t, err)
		assert.Equal(t, "1241", item.AssetAccount)
		assert.True(t, item.LastPurchasePrice.Equal(dec("100")))
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Sets)
}

func TestCachedItemCatalog_CacheErrorFallsBack(t *testing.T) {
	cache := mocks.NewMockCache()
	cache.GetFunc = func(ctx context.Context, key string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}

	cached := usecase.NewCachedItemCatalog(mocks.NewMockItemCatalog(laptop()), cache, time.Minute, nopLogger())

	item, err := cached.GetItem(context.Background(), "item-A")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", item.DisplayName)
}

func TestCachedItemCatalog_MissingItemNotCached(t *testing.T) {
	cache := mocks.NewMockCache()
	cached := usecase.NewCachedItemCatalog(mocks.NewMockItemCatalog(), cache, time.Minute, nopLogger())

	_, err := cached.GetItem(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.Equal(t, 0, cache.Sets)
}
