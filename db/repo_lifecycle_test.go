package db

import (
	"context"
	"testing"
	"time"

	"depotrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutCheckinRoundtrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)

	due := time.Now().UTC().Add(72 * time.Hour)
	out, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID:      it.ID,
		UserID:      u.ID,
		Destination: "Site A",
		ReturnDate:  &due,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TxActive, out.Status)
	assert.Equal(t, models.ActionCheckout, out.ActionType)

	got, err := r.FindItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInUse, got.Status)

	in, err := r.CheckinItem(ctx, CheckinInput{ItemID: it.ID, UserID: u.ID, Condition: "good"})
	require.NoError(t, err)
	assert.Equal(t, models.TxCompleted, in.Status)
	assert.Contains(t, in.CheckinNotes, "Condition: good")

	got, err = r.FindItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInStock, got.Status)

	// The old checkout is closed with a real return timestamp.
	closed, err := r.FindTransactionByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxCompleted, closed.Status)
	assert.NotNil(t, closed.ActualReturnDate)

	cur, err := r.CurrentTransaction(ctx, it.ID)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestCheckoutValidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	due := time.Now().UTC().Add(24 * time.Hour)

	_, err := r.CheckoutItem(ctx, CheckoutInput{ItemID: it.ID, UserID: u.ID, ReturnDate: &due})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = r.CheckoutItem(ctx, CheckoutInput{ItemID: it.ID, UserID: u.ID, Destination: "Site A"})
	assert.Equal(t, KindValidation, KindOf(err))

	// Nothing was written.
	got, err := r.FindItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInStock, got.Status)
	history, err := r.ItemHistory(ctx, it.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDoubleCheckoutFails(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	due := time.Now().UTC().Add(24 * time.Hour)

	_, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &due,
	})
	require.NoError(t, err)

	_, err = r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site B", ReturnDate: &due,
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	history, err := r.ItemHistory(ctx, it.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestConcurrentCheckoutExactlyOneWins(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	other := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	due := time.Now().UTC().Add(24 * time.Hour)

	start := make(chan struct{})
	errs := make(chan error, 2)
	for _, userID := range []string{u.ID, other.ID} {
		go func(uid string) {
			<-start
			_, err := r.CheckoutItem(ctx, CheckoutInput{
				ItemID: it.ID, UserID: uid, Destination: "Site A", ReturnDate: &due,
			})
			errs <- err
		}(userID)
	}
	close(start)

	var won, lost int
	for i := 0; i < 2; i++ {
		if err := <-errs; err == nil {
			won++
		} else {
			lost++
			kind := KindOf(err)
			assert.Contains(t, []ErrorKind{KindConflict, KindInvalidState}, kind, "loser error: %v", err)
		}
	}
	assert.Equal(t, 1, won, "exactly one checkout succeeds")
	assert.Equal(t, 1, lost)

	got, err := r.FindItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInUse, got.Status)

	var open int64
	require.NoError(t, r.DB.Model(&models.Transaction{}).
		Where("item_id = ? AND status IN ?", it.ID, []models.TransactionStatus{models.TxActive, models.TxOverdue}).
		Count(&open).Error)
	assert.EqualValues(t, 1, open, "one open transaction after the race")
}

func TestCheckinWithoutOpenCheckout(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)

	_, err := r.CheckinItem(ctx, CheckinInput{ItemID: it.ID, UserID: u.ID})
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestMaintenanceCycle(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)

	out, err := r.SendToMaintenance(ctx, it.ID, u.ID, "flaky switch")
	require.NoError(t, err)
	assert.Equal(t, models.TxActive, out.Status)
	assert.Nil(t, out.ReturnDate, "maintenance carries no return date")

	got, err := r.FindItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInMaintenance, got.Status)

	// No return date means the sweep never touches it.
	n, err := r.SweepOverdue(ctx, time.Now().UTC().Add(365*24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	// An item in maintenance cannot be checked out.
	due := time.Now().UTC().Add(24 * time.Hour)
	_, err = r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &due,
	})
	assert.Equal(t, KindInvalidState, KindOf(err))

	back, err := r.ReturnFromMaintenance(ctx, it.ID, u.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Returned from maintenance", back.CheckinNotes)

	got, err = r.FindItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInStock, got.Status)

	closed, err := r.FindTransactionByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxCompleted, closed.Status)
}

func TestDeleteItemGuards(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	due := time.Now().UTC().Add(24 * time.Hour)

	_, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &due,
	})
	require.NoError(t, err)

	err = r.DeleteItem(ctx, it.ID)
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = r.CheckinItem(ctx, CheckinInput{ItemID: it.ID, UserID: u.ID})
	require.NoError(t, err)

	require.NoError(t, r.DeleteItem(ctx, it.ID))
	_, err = r.FindItemByID(ctx, it.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	history, err := r.ItemHistory(ctx, it.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history, "history rows go with the item")
}

func TestCompleteTransaction(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	due := time.Now().UTC().Add(24 * time.Hour)

	out, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &due,
	})
	require.NoError(t, err)

	done, err := r.CompleteTransaction(ctx, out.ID, u.ID, "all good")
	require.NoError(t, err)
	assert.Equal(t, models.TxCompleted, done.Status)
	assert.NotNil(t, done.ActualReturnDate)
	assert.Equal(t, "all good", done.CheckinNotes)

	got, err := r.FindItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInStock, got.Status)

	// Completing twice is an error, not a no-op.
	_, err = r.CompleteTransaction(ctx, out.ID, u.ID, "")
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestCancelTransactionLeavesItemStatus(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	due := time.Now().UTC().Add(24 * time.Hour)

	out, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &due,
	})
	require.NoError(t, err)

	_, err = r.CancelTransaction(ctx, out.ID, u.ID, "")
	assert.Equal(t, KindValidation, KindOf(err), "reason is required")

	cancelled, err := r.CancelTransaction(ctx, out.ID, u.ID, "created by mistake")
	require.NoError(t, err)
	assert.Equal(t, models.TxCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Notes, "Cancelled: created by mistake")

	// The item stays in_use for manual review.
	got, err := r.FindItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInUse, got.Status)

	_, err = r.CancelTransaction(ctx, out.ID, u.ID, "again")
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestExtendReturnDate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	due := time.Now().UTC().Add(48 * time.Hour)

	out, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &due,
	})
	require.NoError(t, err)

	_, err = r.ExtendReturnDate(ctx, out.ID, due.Add(-24*time.Hour))
	assert.Equal(t, KindInvalidState, KindOf(err), "must move forward")

	newDue := due.Add(5 * 24 * time.Hour)
	ext, err := r.ExtendReturnDate(ctx, out.ID, newDue)
	require.NoError(t, err)
	require.NotNil(t, ext.ReturnDate)
	assert.True(t, ext.ReturnDate.Equal(newDue))
	assert.Contains(t, ext.Notes, "Return date extended")
}

func TestExtendOverdueFails(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	past := time.Now().UTC().Add(-24 * time.Hour)

	out, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &past,
	})
	require.NoError(t, err)

	_, err = r.ExtendReturnDate(ctx, out.ID, time.Now().UTC().Add(24*time.Hour))
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestSweepOverdue(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)

	now := time.Now().UTC()
	fiveDaysAgo := now.Add(-5 * 24 * time.Hour)
	out, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &fiveDaysAgo,
	})
	require.NoError(t, err)

	n, err := r.SweepOverdue(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// Idempotent: second run finds nothing left to flip.
	n, err = r.SweepOverdue(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	flipped, err := r.FindTransactionByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxOverdue, flipped.Status)
	assert.Equal(t, 5, flipped.DaysOverdue(now))

	rows, err := r.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, it.ID, rows[0].ItemID)

	// An overdue item can still be checked in.
	_, err = r.CheckinItem(ctx, CheckinInput{ItemID: it.ID, UserID: u.ID})
	require.NoError(t, err)
	got, err := r.FindItemByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInStock, got.Status)
}

func TestUpdateTransactionOnlyWhileOpen(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	due := time.Now().UTC().Add(24 * time.Hour)

	out, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &due,
	})
	require.NoError(t, err)

	dest := "Site B"
	upd, err := r.UpdateTransaction(ctx, out.ID, UpdateTransactionInput{Destination: &dest})
	require.NoError(t, err)
	assert.Equal(t, "Site B", upd.Destination)

	// The return date cannot move backwards through a plain update.
	earlier := due.Add(-12 * time.Hour)
	_, err = r.UpdateTransaction(ctx, out.ID, UpdateTransactionInput{ReturnDate: &earlier})
	assert.Equal(t, KindInvalidState, KindOf(err))

	later := due.Add(24 * time.Hour)
	upd, err = r.UpdateTransaction(ctx, out.ID, UpdateTransactionInput{ReturnDate: &later})
	require.NoError(t, err)
	require.NotNil(t, upd.ReturnDate)
	assert.True(t, upd.ReturnDate.Equal(later))

	_, err = r.CompleteTransaction(ctx, out.ID, u.ID, "")
	require.NoError(t, err)

	_, err = r.UpdateTransaction(ctx, out.ID, UpdateTransactionInput{Destination: &dest})
	assert.Equal(t, KindInvalidState, KindOf(err))
}
