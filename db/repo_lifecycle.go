package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"depotrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Every operation in this file runs as one database transaction: the
// transaction-record writes and the item-status write commit or roll
// back together. Item status is flipped with a guarded conditional
// UPDATE (the row must still be in the expected status), and the
// partial unique index on open transactions backstops the "one open
// transaction per item" invariant, so a concurrent checkout loser
// fails instead of double-allocating.

type CheckoutInput struct {
	ItemID      string
	UserID      string
	Destination string
	ReturnDate  *time.Time
	Reason      string
	Notes       string
}

func (r *Repo) CheckoutItem(ctx context.Context, in CheckoutInput) (*models.Transaction, error) {
	if strings.TrimSpace(in.Destination) == "" {
		return nil, validation("destination is required")
	}
	if in.ReturnDate == nil {
		return nil, validation("return date is required")
	}

	var created *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		it, err := itemForUpdate(tx, in.ItemID)
		if err != nil {
			return err
		}

		if err := flipItemStatus(tx, it, models.OpCheckout); err != nil {
			return err
		}

		t := &models.Transaction{
			ID:             uuid.NewString(),
			ActionType:     models.ActionCheckout,
			Status:         models.TxActive,
			Destination:    in.Destination,
			ReturnDate:     in.ReturnDate,
			CheckoutReason: in.Reason,
			Notes:          in.Notes,
			ItemID:         it.ID,
			UserID:         in.UserID,
			WarehouseID:    &it.WarehouseID,
		}
		if err := tx.Create(t).Error; err != nil {
			if duplicate(err) {
				return conflict("item already has an open transaction")
			}
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type CheckinInput struct {
	ItemID    string
	UserID    string
	Notes     string
	Condition string
}

func (r *Repo) CheckinItem(ctx context.Context, in CheckinInput) (*models.Transaction, error) {
	var created *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		it, err := itemForUpdate(tx, in.ItemID)
		if err != nil {
			return err
		}

		cur, err := openTransaction(tx, it.ID)
		if err != nil {
			return err
		}
		if cur == nil || !cur.Checkout() {
			return invalidState("item has no open checkout transaction")
		}

		if err := flipItemStatus(tx, it, models.OpCheckin); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.Transaction{}).
			Where("id = ? AND status IN ?", cur.ID, []models.TransactionStatus{models.TxActive, models.TxOverdue}).
			Updates(map[string]interface{}{
				"status":             models.TxCompleted,
				"actual_return_date": now,
			}).Error; err != nil {
			return err
		}

		notes := in.Notes
		if in.Condition != "" {
			notes = strings.TrimSpace(notes + " Condition: " + in.Condition)
		}
		t := &models.Transaction{
			ID:           uuid.NewString(),
			ActionType:   models.ActionCheckin,
			Status:       models.TxCompleted,
			CheckinNotes: notes,
			ItemID:       it.ID,
			UserID:       in.UserID,
			WarehouseID:  &it.WarehouseID,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SendToMaintenance opens a checkout-shaped transaction with no return
// date; maintenance stays out of the overdue sweep.
func (r *Repo) SendToMaintenance(ctx context.Context, itemID, userID, notes string) (*models.Transaction, error) {
	var created *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		it, err := itemForUpdate(tx, itemID)
		if err != nil {
			return err
		}

		if err := flipItemStatus(tx, it, models.OpSendToMaintenance); err != nil {
			return err
		}

		t := &models.Transaction{
			ID:             uuid.NewString(),
			ActionType:     models.ActionCheckout,
			Status:         models.TxActive,
			Destination:    "Maintenance",
			CheckoutReason: "Sent to maintenance",
			Notes:          notes,
			ItemID:         it.ID,
			UserID:         userID,
			WarehouseID:    &it.WarehouseID,
		}
		if err := tx.Create(t).Error; err != nil {
			if duplicate(err) {
				return conflict("item already has an open transaction")
			}
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *Repo) ReturnFromMaintenance(ctx context.Context, itemID, userID, notes string) (*models.Transaction, error) {
	var created *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		it, err := itemForUpdate(tx, itemID)
		if err != nil {
			return err
		}

		if err := flipItemStatus(tx, it, models.OpReturnFromMaintenance); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.Transaction{}).
			Where("item_id = ? AND status IN ?", it.ID, []models.TransactionStatus{models.TxActive, models.TxOverdue}).
			Updates(map[string]interface{}{
				"status":             models.TxCompleted,
				"actual_return_date": now,
			}).Error; err != nil {
			return err
		}

		if notes == "" {
			notes = "Returned from maintenance"
		}
		t := &models.Transaction{
			ID:           uuid.NewString(),
			ActionType:   models.ActionCheckin,
			Status:       models.TxCompleted,
			CheckinNotes: notes,
			ItemID:       it.ID,
			UserID:       userID,
			WarehouseID:  &it.WarehouseID,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteItem refuses while an open transaction exists; history rows go
// with the item.
func (r *Repo) DeleteItem(ctx context.Context, itemID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := itemForUpdate(tx, itemID); err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.Transaction{}).
			Where("item_id = ? AND status IN ?", itemID, []models.TransactionStatus{models.TxActive, models.TxOverdue}).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return conflict("item has an open transaction")
		}

		if err := tx.Where("item_id = ?", itemID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, "id = ?", itemID).Error
	})
}

// CompleteTransaction closes an active checkout without recording a
// separate checkin transaction. Completing twice fails: the guard on
// status makes the second call an invalid-state error, not a no-op.
func (r *Repo) CompleteTransaction(ctx context.Context, txID, actingUserID, notes string) (*models.Transaction, error) {
	var out *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := transactionByID(tx, txID)
		if err != nil {
			return err
		}
		if !t.CanComplete() {
			return invalidState("transaction is not an active checkout")
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", t.ID, models.TxActive).
			Updates(map[string]interface{}{
				"status":             models.TxCompleted,
				"actual_return_date": now,
				"checkin_notes":      notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidState("transaction is not an active checkout")
		}

		// Release the item only if it is still checked out.
		if err := tx.Model(&models.Item{}).
			Where("id = ? AND status = ?", t.ItemID, models.ItemInUse).
			Update("status", models.ItemInStock).Error; err != nil {
			return err
		}

		t.Status = models.TxCompleted
		t.ActualReturnDate = &now
		t.CheckinNotes = notes
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CancelTransaction marks an open transaction cancelled. It deliberately
// does not revert the item's status: a cancelled checkout leaves the
// item flagged for manual review rather than silently back in stock.
func (r *Repo) CancelTransaction(ctx context.Context, txID, actingUserID, reason string) (*models.Transaction, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, validation("cancellation reason is required")
	}

	var out *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := transactionByID(tx, txID)
		if err != nil {
			return err
		}
		if !t.CanCancel() {
			return invalidState("only an open transaction can be cancelled")
		}

		notes := strings.TrimSpace(t.Notes + " Cancelled: " + reason)
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status IN ?", t.ID, []models.TransactionStatus{models.TxActive, models.TxOverdue}).
			Updates(map[string]interface{}{
				"status": models.TxCancelled,
				"notes":  notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidState("only an open transaction can be cancelled")
		}

		t.Status = models.TxCancelled
		t.Notes = notes
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ExtendReturnDate(ctx context.Context, txID string, newDate time.Time) (*models.Transaction, error) {
	var out *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := transactionByID(tx, txID)
		if err != nil {
			return err
		}
		if !t.CanExtendReturnDate() {
			return invalidState("return date can only be extended on an active checkout")
		}
		now := time.Now().UTC()
		if t.PastDue(now) {
			return invalidState("transaction is already overdue")
		}
		if !newDate.After(*t.ReturnDate) {
			return invalidState("new return date must be later than the current one")
		}

		note := fmt.Sprintf("Return date extended from %s to %s.",
			t.ReturnDate.Format("2006-01-02"), newDate.Format("2006-01-02"))
		notes := strings.TrimSpace(t.Notes + " " + note)
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", t.ID, models.TxActive).
			Updates(map[string]interface{}{
				"return_date": newDate,
				"notes":       notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidState("return date can only be extended on an active checkout")
		}

		t.ReturnDate = &newDate
		t.Notes = notes
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SweepOverdue flips every active checkout whose return date has passed
// to overdue. Idempotent: a second run with the same now finds nothing
// active left to flip.
func (r *Repo) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Transaction{}).
		Where("action_type = ? AND status = ? AND return_date IS NOT NULL AND return_date < ?",
			models.ActionCheckout, models.TxActive, now).
		Update("status", models.TxOverdue)
	return res.RowsAffected, res.Error
}

// CurrentTransaction returns the item's single open transaction, or nil.
func (r *Repo) CurrentTransaction(ctx context.Context, itemID string) (*models.Transaction, error) {
	return openTransaction(r.DB.WithContext(ctx), itemID)
}

// --- shared guards ---

func itemForUpdate(tx *gorm.DB, id string) (*models.Item, error) {
	var it models.Item
	if err := tx.First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("item not found")
		}
		return nil, err
	}
	return &it, nil
}

// flipItemStatus performs the compare-and-set on the item's status
// column. Zero rows affected means the item moved out of the expected
// status since it was read, so the caller lost the race or the
// precondition never held.
func flipItemStatus(tx *gorm.DB, it *models.Item, op models.ItemOp) error {
	next, ok := it.Status.Next(op)
	if !ok {
		return invalidState(fmt.Sprintf("item is %s: %s not allowed", it.Status, op))
	}
	res := tx.Model(&models.Item{}).
		Where("id = ? AND status = ?", it.ID, it.Status).
		Update("status", next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return conflict("item status changed concurrently")
	}
	it.Status = next
	return nil
}

func openTransaction(tx *gorm.DB, itemID string) (*models.Transaction, error) {
	var t models.Transaction
	err := tx.
		Where("item_id = ? AND status IN ?", itemID, []models.TransactionStatus{models.TxActive, models.TxOverdue}).
		Order("created_at DESC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func transactionByID(tx *gorm.DB, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := tx.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("transaction not found")
		}
		return nil, err
	}
	return &t, nil
}
