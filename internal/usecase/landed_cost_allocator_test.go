package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/usecase"
	"github.com/iho/assetsync/internal/usecase/mocks"
)

func allocatorItems() *mocks.MockItemCatalog {
	return mocks.NewMockItemCatalog(
		&domain.Item{ID: "item-A", AssetAccount: "1241", LastPurchasePrice: dec("60")},
		&domain.Item{ID: "item-B", AssetAccount: "1241", LastPurchasePrice: dec("40")},
	)
}

func receivedAsset(id, itemID, cost string) *domain.Asset {
	return &domain.Asset{
		ID:                       id,
		SerialNumber:             id,
		ItemID:                   itemID,
		Quantity:                 1,
		Values:                   domain.UniformValues(dec(cost)),
		LocationID:               "loc-1",
		GrandparentTransactionID: "R1",
	}
}

func landedReceipt(costs domain.LandedCosts) *domain.InventoryReceipt {
	return &domain.InventoryReceipt{
		ID:           "R1",
		SubsidiaryID: "7",
		Lines: []domain.ReceiptLine{
			{Index: 0, ItemID: "item-A", Quantity: 1},
			{Index: 1, ItemID: "item-B", Quantity: 1},
		},
		LandedCosts: costs,
	}
}

func newAllocator(receipts *mocks.MockReceiptRepository, items *mocks.MockItemCatalog, assets *mocks.MockAssetRepository, idem usecase.IdempotencyStore) *usecase.LandedCostAllocator {
	return usecase.NewLandedCostAllocator(
		mocks.NewMockTransactionManager(),
		receipts,
		items,
		assets,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockIDGenerator(),
		idem,
		fixedClock{now: testNow},
		nopLogger(),
	)
}

func TestLandedCostAllocator_ProportionalSplit(t *testing.T) {
	assets := mocks.NewMockAssetRepository(
		receivedAsset("asset-A", "item-A", "60"),
		receivedAsset("asset-B", "item-B", "40"),
	)
	receipts := mocks.NewMockReceiptRepository(landedReceipt(domain.LandedCosts{nullDec("20"), {}, nullDec("30")}))

	uc := newAllocator(receipts, allocatorItems(), assets, nil)

	result, err := uc.Allocate(context.Background(), "R1")
	require.NoError(t, err)

	assert.True(t, result.TotalPurchasePrice.Equal(dec("100")))
	assert.True(t, result.TotalLandedCost.Equal(dec("50")))
	require.Len(t, result.Allocations, 2)

	a, _ := assets.GetByID(context.Background(), "asset-A")
	b, _ := assets.GetByID(context.Background(), "asset-B")

	assert.True(t, a.Values.CurrentCost.Equal(dec("90")), "60 + 30, got %s", a.Values.CurrentCost)
	assert.True(t, a.Values.Cost.Equal(dec("90")))
	assert.True(t, a.Values.BookValue.Equal(dec("60")), "book value is untouched")
	assert.True(t, b.Values.CurrentCost.Equal(dec("60")), "40 + 20, got %s", b.Values.CurrentCost)

	total := decimal.Zero
	for _, alloc := range result.Allocations {
		total = total.Add(alloc.Portion)
	}
	assert.True(t, total.Equal(result.TotalLandedCost))
}

func TestLandedCostAllocator_UnmatchedItemGetsNothing(t *testing.T) {
	assets := mocks.NewMockAssetRepository(
		receivedAsset("asset-A", "item-A", "60"),
		receivedAsset("asset-X", "item-X", "10"),
	)
	receipts := mocks.NewMockReceiptRepository(landedReceipt(domain.LandedCosts{nullDec("50")}))

	uc := newAllocator(receipts, allocatorItems(), assets, nil)

	result, err := uc.Allocate(context.Background(), "R1")
	require.NoError(t, err)
	require.Len(t, result.Allocations, 2)
	assert.True(t, result.Allocations[1].Portion.IsZero())

	x, _ := assets.GetByID(context.Background(), "asset-X")
	assert.True(t, x.Values.Cost.Equal(dec("10")))
}

func TestLandedCostAllocator_ZeroPurchasePriceFails(t *testing.T) {
	items := mocks.NewMockItemCatalog(
		&domain.Item{ID: "item-A", LastPurchasePrice: decimal.Zero},
		&domain.Item{ID: "item-B", LastPurchasePrice: decimal.Zero},
	)
	assets := mocks.NewMockAssetRepository(receivedAsset("asset-A", "item-A", "0"))
	receipts := mocks.NewMockReceiptRepository(landedReceipt(domain.LandedCosts{nullDec("50")}))
	idem := mocks.NewMockIdempotencyStore()

	uc := newAllocator(receipts, items, assets, idem)

	_, err := uc.Allocate(context.Background(), "R1")
	require.ErrorIs(t, err, domain.ErrZeroPurchasePrice)

	a, _ := assets.GetByID(context.Background(), "asset-A")
	assert.True(t, a.Values.Cost.IsZero())

	_, claimed := idem.Value("landed-cost:R1:50|-|-|-|-")
	assert.False(t, claimed)
}

func TestLandedCostAllocator_NoAssets(t *testing.T) {
	receipts := mocks.NewMockReceiptRepository(landedReceipt(domain.LandedCosts{nullDec("50")}))
	uc := newAllocator(receipts, allocatorItems(), mocks.NewMockAssetRepository(), nil)

	result, err := uc.Allocate(context.Background(), "R1")
	require.NoError(t, err)
	assert.Empty(t, result.Allocations)
}

func TestLandedCostAllocator_UnknownReceipt(t *testing.T) {
	uc := newAllocator(mocks.NewMockReceiptRepository(), allocatorItems(), mocks.NewMockAssetRepository(), nil)

	_, err := uc.Allocate(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
}

func TestLandedCostAllocator_Redelivery(t *testing.T) {
	t.Run("without store the portion is added again", func(t *testing.T) {
		assets := mocks.NewMockAssetRepository(receivedAsset("asset-A", "item-A", "60"))
		receipts := mocks.NewMockReceiptRepository(landedReceipt(domain.LandedCosts{nullDec("50")}))
		uc := newAllocator(receipts, allocatorItems(), assets, nil)

		for i := 0; i < 2; i++ {
			_, err := uc.Allocate(context.Background(), "R1")
			require.NoError(t, err)
		}

		a, _ := assets.GetByID(context.Background(), "asset-A")
		assert.True(t, a.Values.Cost.Equal(dec("120")), "60 + 30 + 30, got %s", a.Values.Cost)
	})

	t.Run("with store the same values apply once", func(t *testing.T) {
		assets := mocks.NewMockAssetRepository(receivedAsset("asset-A", "item-A", "60"))
		receipts := mocks.NewMockReceiptRepository(landedReceipt(domain.LandedCosts{nullDec("50")}))
		uc := newAllocator(receipts, allocatorItems(), assets, mocks.NewMockIdempotencyStore())

		_, err := uc.Allocate(context.Background(), "R1")
		require.NoError(t, err)

		second, err := uc.Allocate(context.Background(), "R1")
		require.NoError(t, err)
		assert.True(t, second.Duplicate)

		a, _ := assets.GetByID(context.Background(), "asset-A")
		assert.True(t, a.Values.Cost.Equal(dec("90")))
	})
}
