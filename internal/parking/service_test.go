package parking_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/internal/parking"
	"github.com/society-admin/backend/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func slotByID(t *testing.T, svc *parking.Service, id int64) (found bool, occupied bool, name *string) {
	t.Helper()
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	for _, s := range list {
		if s.ID == id {
			return true, s.IsOccupied, s.BookedByName
		}
	}
	return false, false, nil
}

func TestList_OrderedBySlotNumber(t *testing.T) {
	svc := parking.NewService(testutil.NewParking(10), nil)
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 10)
	for i, s := range list {
		assert.Equal(t, i+1, s.SlotNumber)
		assert.False(t, s.IsOccupied)
		assert.Nil(t, s.BookedByName)
	}
}

func TestList_StorageError(t *testing.T) {
	store := testutil.NewParking(3)
	store.ListHook = func() error { return errors.New("connection refused") }
	_, err := parking.NewService(store, nil).List(context.Background())
	var se *apperr.StorageError
	require.ErrorAs(t, err, &se)
}

func TestSetOccupancy_BookFreeSlot(t *testing.T) {
	svc := parking.NewService(testutil.NewParking(10), nil)
	actor := uuid.New()

	slot, err := svc.SetOccupancy(context.Background(), parking.SetOccupancyParams{
		SlotID: ptr(int64(3)), IsOccupied: ptr(true), OccupantName: ptr("Asha"), ActorID: &actor,
	})
	require.NoError(t, err)
	assert.Equal(t, actor, *slot.UpdatedBy)

	found, occupied, name := slotByID(t, svc, 3)
	require.True(t, found)
	assert.True(t, occupied)
	require.NotNil(t, name)
	assert.Equal(t, "Asha", *name)
}

func TestSetOccupancy_ReleaseClearsName(t *testing.T) {
	svc := parking.NewService(testutil.NewParking(10), nil)
	ctx := context.Background()

	_, err := svc.SetOccupancy(ctx, parking.SetOccupancyParams{SlotID: ptr(int64(3)), IsOccupied: ptr(true), OccupantName: ptr("Asha")})
	require.NoError(t, err)

	for _, name := range []*string{nil, ptr("Ravi")} {
		slot, err := svc.SetOccupancy(ctx, parking.SetOccupancyParams{SlotID: ptr(int64(3)), IsOccupied: ptr(false), OccupantName: name})
		require.NoError(t, err)
		assert.Nil(t, slot.UpdatedBy)

		_, occupied, booked := slotByID(t, svc, 3)
		assert.False(t, occupied)
		assert.Nil(t, booked, "release clears the occupant regardless of any name passed")
	}
}

func TestSetOccupancy_BlankNameStoredAsNull(t *testing.T) {
	svc := parking.NewService(testutil.NewParking(2), nil)
	slot, err := svc.SetOccupancy(context.Background(), parking.SetOccupancyParams{SlotID: ptr(int64(1)), IsOccupied: ptr(true), OccupantName: ptr("  ")})
	require.NoError(t, err)
	assert.True(t, slot.IsOccupied)
	assert.Nil(t, slot.BookedByName)
}

func TestSetOccupancy_InvalidInput(t *testing.T) {
	store := testutil.NewParking(2)
	svc := parking.NewService(store, nil)
	var invalid *apperr.InvalidInputError

	_, err := svc.SetOccupancy(context.Background(), parking.SetOccupancyParams{IsOccupied: ptr(true)})
	require.ErrorAs(t, err, &invalid)
	_, err = svc.SetOccupancy(context.Background(), parking.SetOccupancyParams{SlotID: ptr(int64(1))})
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, store.Applied)
}

func TestSetOccupancy_Errors(t *testing.T) {
	store := testutil.NewParking(2)
	svc := parking.NewService(store, nil)

	_, err := svc.SetOccupancy(context.Background(), parking.SetOccupancyParams{SlotID: ptr(int64(9)), IsOccupied: ptr(true)})
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)

	store.SetHook = func(int64, models.OccupancyUpdate) error { return errors.New("disk full") }
	_, err = svc.SetOccupancy(context.Background(), parking.SetOccupancyParams{SlotID: ptr(int64(1)), IsOccupied: ptr(true)})
	var se *apperr.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "disk full", err.Error())
}

// Two concurrent bookings of the same free slot both succeed; the later write
// silently replaces the earlier occupant. This is expected, if undesirable.
func TestSetOccupancy_ConcurrentBookingLastWriterWins(t *testing.T) {
	for round := 0; round < 25; round++ {
		store := testutil.NewParking(10)
		svc := parking.NewService(store, nil)
		ctx := context.Background()

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, name := range []string{"Asha", "Ravi"} {
			wg.Add(1)
			go func(i int, name string) {
				defer wg.Done()
				_, errs[i] = svc.SetOccupancy(ctx, parking.SetOccupancyParams{SlotID: ptr(int64(5)), IsOccupied: ptr(true), OccupantName: ptr(name)})
			}(i, name)
		}
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1], "the second booking is not rejected")
		require.Len(t, store.Applied, 2)

		last, ok := store.LastApplied()
		require.True(t, ok)
		final := store.Slot(5)
		assert.True(t, final.IsOccupied)
		require.NotNil(t, final.BookedByName)
		assert.Equal(t, *last.BookedByName, *final.BookedByName)
		assert.Contains(t, []string{"Asha", "Ravi"}, *final.BookedByName)
	}
}
