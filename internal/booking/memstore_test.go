package booking

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cafechostito/reservation-api/internal/model"
)

func TestMemStoreUpdateStatus(t *testing.T) {
    store := NewMemStore()
    ctx := context.Background()

    rec := model.Reservation{
        Code: "abc", UserID: 1, Date: "2026-09-01", TimeSlot: "12:00",
        PartySize: 2, Status: model.StatusConfirmed,
    }
    require.NoError(t, store.InsertIfCapacityAvailable(ctx, &rec, 30, 10))

    ok, err := store.UpdateStatus(ctx, rec.ID, model.StatusConfirmed, model.StatusCancelled)
    require.NoError(t, err)
    assert.True(t, ok)

    // Wrong current status reports exists-but-unchanged.
    ok, err = store.UpdateStatus(ctx, rec.ID, model.StatusConfirmed, model.StatusCompleted)
    require.NoError(t, err)
    assert.False(t, ok)

    _, err = store.UpdateStatus(ctx, 42, model.StatusConfirmed, model.StatusCancelled)
    assert.ErrorIs(t, err, ErrNotFound)

    got, err := store.GetByID(ctx, rec.ID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusCancelled, got.Status)
}

func TestMemStoreCancelledRowsFreeCapacity(t *testing.T) {
    store := NewMemStore()
    ctx := context.Background()

    // Fill one table's worth, cancel it, and verify the slot reopens.
    rec := model.Reservation{
        Code: "a", UserID: 1, Date: "2026-09-01", TimeSlot: "12:00",
        PartySize: 2, Status: model.StatusConfirmed,
    }
    require.NoError(t, store.InsertIfCapacityAvailable(ctx, &rec, 2, 1))

    blocked := model.Reservation{
        Code: "b", UserID: 2, Date: "2026-09-01", TimeSlot: "12:00",
        PartySize: 2, Status: model.StatusConfirmed,
    }
    assert.ErrorIs(t, store.InsertIfCapacityAvailable(ctx, &blocked, 2, 1), ErrNoCapacity)

    _, err := store.UpdateStatus(ctx, rec.ID, model.StatusConfirmed, model.StatusCancelled)
    require.NoError(t, err)
    assert.NoError(t, store.InsertIfCapacityAvailable(ctx, &blocked, 2, 1))
}
