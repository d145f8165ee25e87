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

const (
	destLoc   = "7"
	sourceLoc = "8"
)

func stockAsset(id, location string, quantity int64, cost, book string) *domain.Asset {
	return &domain.Asset{
		ID:                       id,
		Name:                     "Solar Kit",
		Profile:                  domain.DepreciationProfile{AssetType: "104", Method: "3", LifetimeMonths: 60},
		SerialNumber:             "SN100",
		ItemID:                   "item-K",
		Quantity:                 quantity,
		Values:                   domain.Values{Cost: dec(cost), CurrentCost: dec(cost), BookValue: dec(book)},
		LocationID:               location,
		SubsidiaryID:             "8",
		CurrencyID:               "7",
		GrandparentTransactionID: "R1",
		SourceTransactionID:      "R1",
	}
}

func transferReceipt(id string, assignments ...domain.InventoryAssignment) *domain.InventoryReceipt {
	return &domain.InventoryReceipt{
		ID:                 id,
		SubsidiaryID:       "8",
		LocationID:         destLoc,
		TransferLocationID: sourceLoc,
		CreatedFromID:      "to-1",
		Lines:              []domain.ReceiptLine{{Index: 0, ItemID: "item-K", Assignments: assignments}},
	}
}

func newReconciler(assets *mocks.MockAssetRepository, outbox *mocks.MockOutboxRepository, idem usecase.IdempotencyStore) *usecase.TransferReconciler {
	return usecase.NewTransferReconciler(
		mocks.NewMockTransactionManager(),
		assets,
		outbox,
		mocks.NewMockIDGenerator(),
		idem,
		fixedClock{now: testNow},
		nopLogger(),
	)
}

func byID(t *testing.T, repo *mocks.MockAssetRepository, id string) *domain.Asset {
	t.Helper()
	a, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

func TestTransferReconciler_Cases(t *testing.T) {
	tests := []struct {
		name     string
		existing []*domain.Asset
		quantity int64
		wantCase domain.TransferCase
		verify   func(t *testing.T, repo *mocks.MockAssetRepository, outcome usecase.TransferOutcome)
	}{
		{
			name:     "split: partial move with nothing at destination",
			existing: []*domain.Asset{stockAsset("src", sourceLoc, 8, "800", "640")},
			quantity: 5,
			wantCase: domain.TransferCaseSplit,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, outcome usecase.TransferOutcome) {
				src := byID(t, repo, "src")
				assert.Equal(t, int64(3), src.Quantity)
				assert.True(t, src.Values.Equal(domain.Values{Cost: dec("300"), CurrentCost: dec("300"), BookValue: dec("240")}))
				assert.Equal(t, sourceLoc, src.LocationID)

				split := byID(t, repo, outcome.DestinationAssetID)
				assert.Equal(t, int64(5), split.Quantity)
				assert.Equal(t, destLoc, split.LocationID)
				assert.True(t, split.Values.Equal(domain.Values{Cost: dec("500"), CurrentCost: dec("500"), BookValue: dec("400")}))
				assert.Equal(t, "R1", split.GrandparentTransactionID)
				assert.Equal(t, "R2", split.SourceTransactionID)
				assert.Equal(t, "104", split.Profile.AssetType)
				assert.Equal(t, "7", split.CurrencyID)

				// conservation
				assert.True(t, src.Values.Add(split.Values).Equal(domain.Values{Cost: dec("800"), CurrentCost: dec("800"), BookValue: dec("640")}))
			},
		},
		{
			name:     "relocate: full move with nothing at destination",
			existing: []*domain.Asset{stockAsset("src", sourceLoc, 8, "800", "640")},
			quantity: 8,
			wantCase: domain.TransferCaseRelocate,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, _ usecase.TransferOutcome) {
				src := byID(t, repo, "src")
				assert.Equal(t, destLoc, src.LocationID)
				assert.Equal(t, int64(8), src.Quantity)
				assert.True(t, src.Values.Cost.Equal(dec("800")))
				assert.Len(t, repo.All(), 1)
			},
		},
		{
			name: "partial merge into existing destination asset",
			existing: []*domain.Asset{
				stockAsset("dst", destLoc, 2, "100", "90"),
				stockAsset("src", sourceLoc, 8, "800", "640"),
			},
			quantity: 5,
			wantCase: domain.TransferCasePartialMerge,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, _ usecase.TransferOutcome) {
				src := byID(t, repo, "src")
				dst := byID(t, repo, "dst")
				assert.Equal(t, int64(3), src.Quantity)
				assert.Equal(t, int64(7), dst.Quantity)
				assert.True(t, src.Values.Cost.Equal(dec("300")))
				assert.True(t, dst.Values.Cost.Equal(dec("600")))
				assert.True(t, dst.Values.BookValue.Equal(dec("490")))

				removed := dec("800").Sub(src.Values.Cost)
				added := dst.Values.Cost.Sub(dec("100"))
				assert.True(t, removed.Equal(added), "removed %s, added %s", removed, added)
			},
		},
		{
			name: "full merge deactivates source",
			existing: []*domain.Asset{
				stockAsset("dst", destLoc, 2, "100", "90"),
				stockAsset("src", sourceLoc, 8, "800", "640"),
			},
			quantity: 8,
			wantCase: domain.TransferCaseMerge,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, _ usecase.TransferOutcome) {
				src := byID(t, repo, "src")
				dst := byID(t, repo, "dst")
				assert.Equal(t, int64(10), dst.Quantity)
				assert.True(t, dst.Values.Equal(domain.Values{Cost: dec("900"), CurrentCost: dec("900"), BookValue: dec("730")}))
				assert.True(t, src.Inactive)
				assert.Equal(t, int64(8), src.Quantity, "deactivated source keeps its values")
				assert.True(t, src.Values.Cost.Equal(dec("800")))
			},
		},
		{
			name:     "destination only increases quantity without value",
			existing: []*domain.Asset{stockAsset("dst", destLoc, 2, "100", "90")},
			quantity: 5,
			wantCase: domain.TransferCaseOrphanDestination,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, _ usecase.TransferOutcome) {
				dst := byID(t, repo, "dst")
				assert.Equal(t, int64(7), dst.Quantity)
				assert.True(t, dst.Values.Cost.Equal(dec("100")))
			},
		},
		{
			name:     "split conserves value exactly when the share does not divide evenly",
			existing: []*domain.Asset{stockAsset("src", sourceLoc, 3, "100", "100")},
			quantity: 1,
			wantCase: domain.TransferCaseSplit,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, outcome usecase.TransferOutcome) {
				src := byID(t, repo, "src")
				split := byID(t, repo, outcome.DestinationAssetID)

				assert.Equal(t, int64(2), src.Quantity)
				assert.Equal(t, int64(1), split.Quantity)
				assert.False(t, split.Values.Cost.Equal(dec("33.33")), "share is not rounded to cents")

				removed := dec("100").Sub(src.Values.Cost)
				assert.True(t, removed.Equal(split.Values.Cost), "removed %s, added %s", removed, split.Values.Cost)
				assert.True(t, src.Values.Add(split.Values).Equal(domain.Values{Cost: dec("100"), CurrentCost: dec("100"), BookValue: dec("100")}))
			},
		},
		{
			name: "first active asset at each location wins",
			existing: []*domain.Asset{
				stockAsset("dst-a", destLoc, 2, "100", "90"),
				stockAsset("dst-b", destLoc, 1, "50", "50"),
				stockAsset("src-a", sourceLoc, 8, "800", "640"),
				stockAsset("src-b", sourceLoc, 4, "400", "400"),
			},
			quantity: 8,
			wantCase: domain.TransferCaseMerge,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, outcome usecase.TransferOutcome) {
				assert.Equal(t, "src-a", outcome.SourceAssetID)
				assert.Equal(t, "dst-a", outcome.DestinationAssetID)

				assert.Equal(t, int64(10), byID(t, repo, "dst-a").Quantity)
				assert.True(t, byID(t, repo, "src-a").Inactive)

				dstB := byID(t, repo, "dst-b")
				assert.Equal(t, int64(1), dstB.Quantity)
				assert.True(t, dstB.Values.Cost.Equal(dec("50")))

				srcB := byID(t, repo, "src-b")
				assert.False(t, srcB.Inactive)
				assert.Equal(t, int64(4), srcB.Quantity)
				assert.Equal(t, sourceLoc, srcB.LocationID)
			},
		},
		{
			name:     "quantity above the source relocates the whole source",
			existing: []*domain.Asset{stockAsset("src", sourceLoc, 8, "800", "640")},
			quantity: 12,
			wantCase: domain.TransferCaseRelocate,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, outcome usecase.TransferOutcome) {
				assert.Equal(t, int64(12), outcome.Quantity)

				src := byID(t, repo, "src")
				assert.Equal(t, destLoc, src.LocationID)
				assert.Equal(t, int64(8), src.Quantity)
				assert.True(t, src.Values.Cost.Equal(dec("800")))
				assert.Len(t, repo.All(), 1)
			},
		},
		{
			name: "quantity above the source merges the whole source",
			existing: []*domain.Asset{
				stockAsset("dst", destLoc, 2, "100", "90"),
				stockAsset("src", sourceLoc, 8, "800", "640"),
			},
			quantity: 12,
			wantCase: domain.TransferCaseMerge,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, _ usecase.TransferOutcome) {
				dst := byID(t, repo, "dst")
				assert.Equal(t, int64(10), dst.Quantity)
				assert.True(t, dst.Values.Equal(domain.Values{Cost: dec("900"), CurrentCost: dec("900"), BookValue: dec("730")}))
				assert.True(t, byID(t, repo, "src").Inactive)
			},
		},
		{
			name:     "no asset anywhere is skipped",
			quantity: 5,
			wantCase: domain.TransferCaseNone,
			verify: func(t *testing.T, repo *mocks.MockAssetRepository, _ usecase.TransferOutcome) {
				assert.Empty(t, repo.All())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAssetRepository(tt.existing...)
			uc := newReconciler(repo, mocks.NewMockOutboxRepository(), nil)

			receipt := transferReceipt("R2", domain.InventoryAssignment{Number: "SN100", Quantity: tt.quantity})

			result, err := uc.Reconcile(context.Background(), receipt)
			require.NoError(t, err)
			require.Len(t, result.Outcomes, 1)

			outcome := result.Outcomes[0]
			assert.Equal(t, tt.wantCase, outcome.Case)
			tt.verify(t, repo, outcome)
		})
	}
}

func TestTransferReconciler_DeactivationEvent(t *testing.T) {
	repo := mocks.NewMockAssetRepository(
		stockAsset("dst", destLoc, 2, "100", "90"),
		stockAsset("src", sourceLoc, 8, "800", "640"),
	)
	outbox := mocks.NewMockOutboxRepository()
	uc := newReconciler(repo, outbox, nil)

	_, err := uc.Reconcile(context.Background(), transferReceipt("R2", domain.InventoryAssignment{Number: "SN100", Quantity: 8}))
	require.NoError(t, err)

	events := outbox.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTypeAssetUpdated, events[0].EventType)
	assert.Equal(t, "dst", events[0].AggregateID)
	assert.Equal(t, domain.EventTypeAssetDeactivated, events[1].EventType)
	assert.Equal(t, "src", events[1].AggregateID)
}

func TestTransferReconciler_RejectsSameLocation(t *testing.T) {
	uc := newReconciler(mocks.NewMockAssetRepository(), mocks.NewMockOutboxRepository(), nil)

	receipt := transferReceipt("R2", domain.InventoryAssignment{Number: "SN100", Quantity: 1})
	receipt.TransferLocationID = receipt.LocationID

	_, err := uc.Reconcile(context.Background(), receipt)
	assert.ErrorIs(t, err, domain.ErrSameLocation)
}

func TestTransferReconciler_InvalidQuantityIsUnitFailure(t *testing.T) {
	repo := mocks.NewMockAssetRepository(stockAsset("src", sourceLoc, 8, "800", "640"))
	uc := newReconciler(repo, mocks.NewMockOutboxRepository(), nil)

	receipt := transferReceipt("R2", domain.InventoryAssignment{Number: "SN100", Quantity: 0})

	result, err := uc.Reconcile(context.Background(), receipt)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, int64(8), byID(t, repo, "src").Quantity)
}

func TestTransferReconciler_FailedUnitRollsBackOnlyItself(t *testing.T) {
	other := stockAsset("other-src", sourceLoc, 4, "40", "40")
	other.SerialNumber = "SN200"

	repo := mocks.NewMockAssetRepository(stockAsset("src", sourceLoc, 8, "800", "640"), other)

	errLocked := errors.New("row locked")
	repo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, asset *domain.Asset) error {
		if asset.SerialNumber == "SN100" {
			return errLocked
		}
		return nil
	}

	uc := newReconciler(repo, mocks.NewMockOutboxRepository(), nil)

	receipt := transferReceipt("R2",
		domain.InventoryAssignment{Number: "SN100", Quantity: 5},
		domain.InventoryAssignment{Number: "SN200", Quantity: 4},
	)

	result, err := uc.Reconcile(context.Background(), receipt)
	require.ErrorIs(t, err, errLocked)
	require.Len(t, result.Failures, 1)
	require.Len(t, result.Outcomes, 1)

	// The failed split left the source untouched.
	src := byID(t, repo, "src")
	assert.Equal(t, int64(8), src.Quantity)
	assert.True(t, src.Values.Cost.Equal(dec("800")))

	// The sibling unit was relocated.
	assert.Equal(t, destLoc, byID(t, repo, "other-src").LocationID)
}

func TestTransferReconciler_RedeliveryWithoutStoreAppliesTwice(t *testing.T) {
	repo := mocks.NewMockAssetRepository(stockAsset("src", sourceLoc, 8, "800", "640"))
	uc := newReconciler(repo, mocks.NewMockOutboxRepository(), nil)

	receipt := transferReceipt("R2", domain.InventoryAssignment{Number: "SN100", Quantity: 5})

	first, err := uc.Reconcile(context.Background(), receipt)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferCaseSplit, first.Outcomes[0].Case)

	second, err := uc.Reconcile(context.Background(), receipt)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferCaseMerge, second.Outcomes[0].Case)

	assert.True(t, byID(t, repo, "src").Inactive, "second delivery changed state again")
}

func TestTransferReconciler_RedeliveryWithStoreIsSkipped(t *testing.T) {
	repo := mocks.NewMockAssetRepository(stockAsset("src", sourceLoc, 8, "800", "640"))
	idem := mocks.NewMockIdempotencyStore()
	uc := newReconciler(repo, mocks.NewMockOutboxRepository(), idem)

	receipt := transferReceipt("R2", domain.InventoryAssignment{Number: "SN100", Quantity: 5})

	_, err := uc.Reconcile(context.Background(), receipt)
	require.NoError(t, err)

	second, err := uc.Reconcile(context.Background(), receipt)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Duplicates)
	assert.Empty(t, second.Outcomes)

	src := byID(t, repo, "src")
	assert.Equal(t, int64(3), src.Quantity)
	assert.False(t, src.Inactive)
	assert.Len(t, repo.All(), 2)

	v, ok := idem.Value("transfer:R2:0:0:SN100")
	require.True(t, ok)
	assert.Equal(t, string(domain.TransferCaseSplit), v)
}

// cancellingTxManager cancels the delivery context as a unit opens its
// transaction, the way a client disconnect or consumer shutdown would.
type cancellingTxManager struct {
	cancel context.CancelFunc
}

func (m cancellingTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	m.cancel()
	return nil, ctx.Err()
}

func TestTransferReconciler_CancelledUnitReleasesKey(t *testing.T) {
	repo := mocks.NewMockAssetRepository(stockAsset("src", sourceLoc, 8, "800", "640"))
	outbox := mocks.NewMockOutboxRepository()
	idem := mocks.NewMockIdempotencyStore()
	receipt := transferReceipt("R2", domain.InventoryAssignment{Number: "SN100", Quantity: 5})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupted := usecase.NewTransferReconciler(
		cancellingTxManager{cancel: cancel},
		repo,
		outbox,
		mocks.NewMockIDGenerator(),
		idem,
		fixedClock{now: testNow},
		nopLogger(),
	)

	_, err := interrupted.Reconcile(ctx, receipt)
	require.ErrorIs(t, err, context.Canceled)

	_, held := idem.Value("transfer:R2:0:0:SN100")
	assert.False(t, held, "failed unit kept its idempotency key")

	result, err := newReconciler(repo, outbox, idem).Reconcile(context.Background(), receipt)
	require.NoError(t, err)
	assert.Zero(t, result.Duplicates)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, domain.TransferCaseSplit, result.Outcomes[0].Case)
	assert.Equal(t, int64(3), byID(t, repo, "src").Quantity)
}

func TestTransferReconciler_UnfinishedClaimIsNotADuplicate(t *testing.T) {
	repo := mocks.NewMockAssetRepository(stockAsset("src", sourceLoc, 8, "800", "640"))
	idem := mocks.NewMockIdempotencyStore()

	const key = "transfer:R2:0:0:SN100"
	_, _, err := idem.CheckAndSet(context.Background(), key, nil, time.Minute)
	require.NoError(t, err)

	receipt := transferReceipt("R2", domain.InventoryAssignment{Number: "SN100", Quantity: 5})

	result, err := newReconciler(repo, mocks.NewMockOutboxRepository(), idem).Reconcile(context.Background(), receipt)
	require.ErrorIs(t, err, usecase.ErrUnitInProgress)
	assert.Zero(t, result.Duplicates)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, int64(8), byID(t, repo, "src").Quantity)

	v, ok := idem.Value(key)
	require.True(t, ok, "the other delivery's claim must stay in place")
	assert.Equal(t, usecase.IdempotencyProcessing, v)
}
