package models

import "time"

// ActionType distinguishes an item leaving custody from one returning.
type ActionType string

const (
	ActionCheckout ActionType = "checkout"
	ActionCheckin  ActionType = "checkin"
)

func (a ActionType) Valid() bool { return a == ActionCheckout || a == ActionCheckin }

type TransactionStatus string

const (
	TxActive    TransactionStatus = "active"
	TxCompleted TransactionStatus = "completed"
	TxOverdue   TransactionStatus = "overdue"
	TxCancelled TransactionStatus = "cancelled"
)

// Open reports whether the status counts as the item's current transaction.
func (s TransactionStatus) Open() bool { return s == TxActive || s == TxOverdue }

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxActive, TxCompleted, TxOverdue, TxCancelled:
		return true
	}
	return false
}

type Transaction struct {
	ID               string            `gorm:"type:uuid;primaryKey" json:"id"`
	ActionType       ActionType        `gorm:"size:10;not null;index" json:"actionType"`
	Status           TransactionStatus `gorm:"size:10;not null;default:'active';index:idx_transactions_item_status" json:"status"`
	Destination      string            `gorm:"type:text" json:"destination,omitempty"`
	ReturnDate       *time.Time        `gorm:"index" json:"returnDate,omitempty"`
	ActualReturnDate *time.Time        `json:"actualReturnDate,omitempty"`
	Notes            string            `gorm:"type:text" json:"notes,omitempty"`
	CheckoutReason   string            `gorm:"type:text" json:"checkoutReason,omitempty"`
	CheckinNotes     string            `gorm:"type:text" json:"checkinNotes,omitempty"`
	ItemID           string            `gorm:"type:uuid;not null;index:idx_transactions_item_status" json:"itemId"`
	UserID           string            `gorm:"type:uuid;not null;index" json:"userId"`
	WarehouseID      *string           `gorm:"type:uuid;index" json:"warehouseId,omitempty"`
	CreatedAt        time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (Transaction) TableName() string { return TransactionTable }

func (t *Transaction) Checkout() bool { return t.ActionType == ActionCheckout }
func (t *Transaction) Checkin() bool  { return t.ActionType == ActionCheckin }

// PastDue reports whether an open checkout's return date has passed.
// Maintenance checkouts carry no return date and are never past due.
func (t *Transaction) PastDue(now time.Time) bool {
	if !t.Checkout() || !t.Status.Open() || t.ReturnDate == nil {
		return false
	}
	return t.ReturnDate.Before(now)
}

// DaysOverdue is the whole days between the return date and now,
// zero when the transaction is not past due.
func (t *Transaction) DaysOverdue(now time.Time) int {
	if !t.PastDue(now) {
		return 0
	}
	d := wholeDaysBetween(*t.ReturnDate, now)
	if d < 0 {
		return 0
	}
	return d
}

// DaysUntilReturn is nil when no return is expected.
func (t *Transaction) DaysUntilReturn(now time.Time) *int {
	if t.ReturnDate == nil || t.Status == TxCompleted {
		return nil
	}
	d := wholeDaysBetween(now, *t.ReturnDate)
	return &d
}

// LateReturn reports whether a completed checkout came back after its
// return date.
func (t *Transaction) LateReturn() bool {
	if t.Status != TxCompleted || t.ActualReturnDate == nil || t.ReturnDate == nil {
		return false
	}
	return t.ActualReturnDate.After(*t.ReturnDate)
}

func (t *Transaction) CanComplete() bool {
	return t.Checkout() && t.Status == TxActive
}

func (t *Transaction) CanExtendReturnDate() bool {
	return t.Checkout() && t.Status == TxActive && t.ReturnDate != nil
}

func (t *Transaction) CanCancel() bool { return t.Status.Open() }

func wholeDaysBetween(from, to time.Time) int {
	f := from.UTC().Truncate(24 * time.Hour)
	o := to.UTC().Truncate(24 * time.Hour)
	return int(o.Sub(f).Hours() / 24)
}
