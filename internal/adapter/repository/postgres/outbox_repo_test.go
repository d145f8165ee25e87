package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/assetsync/internal/domain"
)

func TestOutboxRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	tx := beginTx(t, mock)

	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs("evt-1", "a1", domain.AggregateTypeAsset, domain.EventTypeAssetCreated, pgxmock.AnyArg(), pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := NewOutboxRepository(mock).Create(context.Background(), tx, &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "a1",
		AggregateType: domain.AggregateTypeAsset,
		EventType:     domain.EventTypeAssetCreated,
		Payload:       map[string]any{"asset_id": "a1"},
		CreatedAt:     repoNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mock)
}

func TestOutboxRepositoryGetUnpublished(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published", "published_at",
		}).AddRow("evt-1", "a1", "asset", "asset.created", []byte(`{"asset_id":"a1"}`), repoNow, false, nil))

	events, err := NewOutboxRepository(mock).GetUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 1 || events[0].Payload["asset_id"] != "a1" || events[0].PublishedAt != nil {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestOutboxRepositoryGetUnpublishedRejectsCorruptPayload(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published", "published_at",
		}).AddRow("evt-1", "a1", "asset", "asset.created", []byte(`{"asset_id":`), repoNow, false, nil))

	events, err := NewOutboxRepository(mock).GetUnpublished(context.Background(), 10)
	if err == nil {
		t.Fatalf("expected decode error, got events %+v", events)
	}

	if !strings.Contains(err.Error(), "evt-1") {
		t.Fatalf("expected error to name the event, got %v", err)
	}
}

func TestOutboxRepositoryMarkPublished(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectExec("UPDATE outbox_events SET published").
		WithArgs("evt-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := NewOutboxRepository(mock).MarkPublished(context.Background(), "evt-1", repoNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mock)
}
