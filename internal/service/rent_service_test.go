package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/rentmate/internal/models"
	"github.com/mmynk/rentmate/internal/roster"
	"github.com/mmynk/rentmate/internal/storage/memory"
)

func newTestService(t *testing.T) (*RentService, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := NewRentService(context.Background(), store, Options{AllowNegativeBills: true})
	return svc, store
}

func setupFlat9(t *testing.T, svc *RentService) (alice, bob, carol models.Roommate) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.SetRoom(ctx, "Flat 9", 9000))
	var err error
	alice, err = svc.AddRoommate(ctx, "Alice", "9876543210")
	require.NoError(t, err)
	bob, err = svc.AddRoommate(ctx, "Bob", "9876543211")
	require.NoError(t, err)
	carol, err = svc.AddRoommate(ctx, "Carol", "9876543212")
	require.NoError(t, err)
	return alice, bob, carol
}

func TestSummary(t *testing.T) {
	svc, _ := newTestService(t)
	alice, _, _ := setupFlat9(t, svc)
	ctx := context.Background()

	sum := svc.Summary()
	assert.InDelta(t, 3000, sum.BaseRent, 1e-9)
	require.Len(t, sum.Shares, 3)
	for _, sh := range sum.Shares {
		assert.InDelta(t, 3000, sh.FinalAmount, 1e-9)
	}

	require.NoError(t, svc.RecordBillPayment(ctx, alice.ID, models.BillWater, "500"))
	sum = svc.Summary()
	assert.InDelta(t, 2500, sum.Shares[0].FinalAmount, 1e-9)
	assert.InDelta(t, 3000, sum.Shares[1].FinalAmount, 1e-9)
	assert.InDelta(t, 3000, sum.Shares[2].FinalAmount, 1e-9)
}

func TestValidationRejectionsAreNoOps(t *testing.T) {
	svc, _ := newTestService(t)
	setupFlat9(t, svc)
	ctx := context.Background()

	_, err := svc.AddRoommate(ctx, "", "9876543213")
	assert.ErrorIs(t, err, roster.ErrEmptyName)
	assert.Len(t, svc.Summary().Room.Roommates, 3)

	err = svc.RecordBillPayment(ctx, "unknown-id", models.BillEB, "100")
	assert.ErrorIs(t, err, roster.ErrUnknownRoommate)
	for _, rm := range svc.Summary().Room.Roommates {
		assert.Zero(t, rm.EBPaid)
	}
}

func TestCloseMonthTransaction(t *testing.T) {
	svc, store := newTestService(t)
	alice, _, _ := setupFlat9(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.RecordBillPayment(ctx, alice.ID, models.BillWater, "500"))

	rec, err := svc.CloseMonth(ctx, "March", 2025)
	require.NoError(t, err)

	// The snapshot carries the pre-reset accumulators.
	require.Len(t, rec.Calculations, 3)
	assert.InDelta(t, 500, rec.Calculations[0].WaterBill, 1e-9)
	assert.InDelta(t, 2500, rec.Calculations[0].FinalAmount, 1e-9)

	// The live roster is reset, and both snapshots were persisted together.
	for _, rm := range svc.Summary().Room.Roommates {
		assert.Zero(t, rm.WaterPaid)
	}
	savedRoom, ok, err := store.LoadRoom(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, savedRoom.Roommates[0].WaterPaid, "persisted room must be the reset one")
	savedRecs, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, savedRecs, 1)
	assert.Equal(t, rec.ID, savedRecs[0].ID)

	_, err = svc.CloseMonth(ctx, "  ", 2025)
	assert.ErrorIs(t, err, ErrEmptyMonth)
}

func TestCloseMonthReplaceAndEvict(t *testing.T) {
	svc, _ := newTestService(t)
	alice, _, _ := setupFlat9(t, svc)
	ctx := context.Background()

	// Scenario E: re-closing March replaces the record with new figures.
	require.NoError(t, svc.RecordBillPayment(ctx, alice.ID, models.BillWater, "500"))
	_, err := svc.CloseMonth(ctx, "March", 2025)
	require.NoError(t, err)
	require.NoError(t, svc.RecordBillPayment(ctx, alice.ID, models.BillWater, "900"))
	_, err = svc.CloseMonth(ctx, "March", 2025)
	require.NoError(t, err)

	recs := svc.Records()
	require.Len(t, recs, 1)
	assert.InDelta(t, 900, recs[0].Calculations[0].WaterBill, 1e-9)

	// Scenario F: six distinct months retain only the last five.
	for _, m := range []string{"April", "May", "June", "July", "August"} {
		_, err := svc.CloseMonth(ctx, m, 2025)
		require.NoError(t, err)
	}
	recs = svc.Records()
	require.Len(t, recs, 5)
	assert.Equal(t, "April", recs[0].Month)
	assert.Equal(t, "August", recs[4].Month)
}

func TestStorageFailureDoesNotRollBack(t *testing.T) {
	svc, store := newTestService(t)
	setupFlat9(t, svc)
	ctx := context.Background()

	store.FailWrites(assert.AnError)

	rm, err := svc.AddRoommate(ctx, "Dave", "9876543213")
	require.NoError(t, err, "a storage failure is never surfaced to the mutation")
	assert.NotEmpty(t, rm.ID)
	assert.Len(t, svc.Summary().Room.Roommates, 4)
}

func TestReloadRoundTrip(t *testing.T) {
	svc, store := newTestService(t)
	alice, _, _ := setupFlat9(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.RecordBillPayment(ctx, alice.ID, models.BillEB, "300"))
	_, err := svc.CloseMonth(ctx, "February", 2025)
	require.NoError(t, err)
	require.NoError(t, svc.RecordBillPayment(ctx, alice.ID, models.BillWater, "150"))

	// A new service over the same store observes identical state.
	reloaded := NewRentService(ctx, store, Options{AllowNegativeBills: true})
	assert.Equal(t, svc.Summary(), reloaded.Summary())
	assert.Equal(t, svc.Records(), reloaded.Records())
}

func TestClearAll(t *testing.T) {
	svc, store := newTestService(t)
	setupFlat9(t, svc)
	ctx := context.Background()

	_, err := svc.CloseMonth(ctx, "March", 2025)
	require.NoError(t, err)

	svc.ClearAll(ctx)

	assert.Equal(t, models.Room{}, svc.Summary().Room)
	assert.Empty(t, svc.Records())
	_, ok, err := store.LoadRoom(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "persisted keys must be removed")
}

func TestUnconfiguredRoomIsNotPersisted(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// No room name yet: nothing worth saving.
	_, err := svc.AddRoommate(ctx, "Alice", "9876543210")
	require.NoError(t, err)
	_, ok, err := store.LoadRoom(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
