package db

import (
	"context"
	"strings"
	"time"

	"depotrack/models"

	"gorm.io/gorm"
)

// TransactionRow is a transaction joined with the names callers show.
type TransactionRow struct {
	ID               string                   `json:"id"`
	ActionType       models.ActionType        `json:"actionType"`
	Status           models.TransactionStatus `json:"status"`
	Destination      string                   `json:"destination,omitempty"`
	ReturnDate       *time.Time               `json:"returnDate,omitempty"`
	ActualReturnDate *time.Time               `json:"actualReturnDate,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
	CheckoutReason   string                   `json:"checkoutReason,omitempty"`
	CheckinNotes     string                   `json:"checkinNotes,omitempty"`
	ItemID           string                   `json:"itemId"`
	ItemName         string                   `json:"itemName"`
	ItemCategory     string                   `json:"itemCategory"`
	UserID           string                   `json:"userId"`
	UserName         string                   `json:"userName"`
	WarehouseName    *string                  `json:"warehouseName,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

type TransactionsQuery struct {
	Status     string
	ActionType string
	UserID     string
	ItemID     string
	StartDate  *time.Time
	EndDate    *time.Time
	Overdue    bool
	Page       int
	Size       int
}

type PagedTransactions struct {
	Total int64            `json:"total"`
	Items []TransactionRow `json:"items"`
}

func (r *Repo) ListTransactions(ctx context.Context, q TransactionsQuery) (*PagedTransactions, error) {
	q.Page, q.Size = normalizePage(q.Page, q.Size)
	offset := (q.Page - 1) * q.Size

	base := r.DB.WithContext(ctx).Table(models.TransactionTable + " t")
	if q.Status != "" {
		base = base.Where("t.status = ?", q.Status)
	}
	if q.ActionType != "" {
		base = base.Where("t.action_type = ?", q.ActionType)
	}
	if q.UserID != "" {
		base = base.Where("t.user_id = ?", q.UserID)
	}
	if q.ItemID != "" {
		base = base.Where("t.item_id = ?", q.ItemID)
	}
	if q.StartDate != nil {
		base = base.Where("t.created_at >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		base = base.Where("t.created_at <= ?", *q.EndDate)
	}
	if q.Overdue {
		base = base.Where("t.status = ?", models.TxOverdue)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []TransactionRow
	if err := base.Session(&gorm.Session{}).
		Select(transactionRowSelect).
		Joins("JOIN " + models.ItemTable + " i ON i.id = t.item_id").
		Joins("JOIN " + models.UserTable + " u ON u.id = t.user_id").
		Joins("LEFT JOIN " + models.WarehouseTable + " w ON w.id = t.warehouse_id").
		Order("t.created_at DESC").
		Offset(offset).
		Limit(q.Size).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &PagedTransactions{Total: total, Items: rows}, nil
}

const transactionRowSelect = `
	t.id, t.action_type, t.status, t.destination, t.return_date,
	t.actual_return_date, t.notes, t.checkout_reason, t.checkin_notes,
	t.item_id, t.user_id, t.created_at, t.updated_at,
	i.name AS item_name, i.category AS item_category,
	u.name AS user_name,
	w.name AS warehouse_name
`

func (r *Repo) FindTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	return transactionByID(r.DB.WithContext(ctx), id)
}

// ListOverdue returns overdue transactions, most urgent first.
func (r *Repo) ListOverdue(ctx context.Context) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := r.DB.WithContext(ctx).Table(models.TransactionTable+" t").
		Select(transactionRowSelect).
		Joins("JOIN "+models.ItemTable+" i ON i.id = t.item_id").
		Joins("JOIN "+models.UserTable+" u ON u.id = t.user_id").
		Joins("LEFT JOIN "+models.WarehouseTable+" w ON w.id = t.warehouse_id").
		Where("t.status = ?", models.TxOverdue).
		Order("t.return_date ASC").
		Scan(&rows).Error
	return rows, err
}

// ItemHistory is the item's recent transaction trail, newest first.
func (r *Repo) ItemHistory(ctx context.Context, itemID string, limit int) ([]TransactionRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []TransactionRow
	err := r.DB.WithContext(ctx).Table(models.TransactionTable+" t").
		Select(transactionRowSelect).
		Joins("JOIN "+models.ItemTable+" i ON i.id = t.item_id").
		Joins("JOIN "+models.UserTable+" u ON u.id = t.user_id").
		Joins("LEFT JOIN "+models.WarehouseTable+" w ON w.id = t.warehouse_id").
		Where("t.item_id = ?", itemID).
		Order("t.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type UpdateTransactionInput struct {
	Destination *string
	ReturnDate  *time.Time
	Notes       *string
}

// UpdateTransaction edits the mutable fields of an open transaction.
// Completed and cancelled transactions are immutable except for notes.
func (r *Repo) UpdateTransaction(ctx context.Context, id string, in UpdateTransactionInput) (*models.Transaction, error) {
	var out *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := transactionByID(tx, id)
		if err != nil {
			return err
		}
		if in.Notes != nil {
			t.Notes = *in.Notes
		}
		if in.Destination != nil || in.ReturnDate != nil {
			if !t.Status.Open() {
				return invalidState("only an open transaction can be modified")
			}
			if in.Destination != nil {
				if t.Checkout() && strings.TrimSpace(*in.Destination) == "" {
					return validation("destination is required")
				}
				t.Destination = *in.Destination
			}
			if in.ReturnDate != nil {
				// Same rule as ExtendReturnDate: the date only moves
				// forward, so the overdue guard cannot be sidestepped.
				if t.ReturnDate != nil && !in.ReturnDate.After(*t.ReturnDate) {
					return invalidState("new return date must be later than the current one")
				}
				t.ReturnDate = in.ReturnDate
			}
		}
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type TransactionStats struct {
	TotalTransactions int64           `json:"totalTransactions"`
	ActiveCheckouts   int64           `json:"activeCheckouts"`
	OverdueCheckouts  int64           `json:"overdueCheckouts"`
	CompletedToday    int64           `json:"completedToday"`
	TotalValueOut     float64         `json:"totalValueOut"`
	CategoryBreakdown []CategoryCount `json:"categoryBreakdown"`
	TopUsers          []UserCount     `json:"topUsers"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type UserCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func (r *Repo) TransactionStatistics(ctx context.Context, now time.Time) (*TransactionStats, error) {
	db := r.DB.WithContext(ctx)
	stats := &TransactionStats{}

	if err := db.Model(&models.Transaction{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, err
	}
	open := []models.TransactionStatus{models.TxActive, models.TxOverdue}
	if err := db.Model(&models.Transaction{}).
		Where("action_type = ? AND status IN ?", models.ActionCheckout, open).
		Count(&stats.ActiveCheckouts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Transaction{}).
		Where("status = ?", models.TxOverdue).
		Count(&stats.OverdueCheckouts).Error; err != nil {
		return nil, err
	}

	dayStart := now.UTC().Truncate(24 * time.Hour)
	if err := db.Model(&models.Transaction{}).
		Where("status = ? AND actual_return_date >= ?", models.TxCompleted, dayStart).
		Count(&stats.CompletedToday).Error; err != nil {
		return nil, err
	}

	if err := db.Table(models.TransactionTable+" t").
		Joins("JOIN "+models.ItemTable+" i ON i.id = t.item_id").
		Where("t.action_type = ? AND t.status IN ?", models.ActionCheckout, open).
		Select("COALESCE(SUM(i.value), 0)").
		Scan(&stats.TotalValueOut).Error; err != nil {
		return nil, err
	}

	if err := db.Table(models.TransactionTable + " t").
		Joins("JOIN " + models.ItemTable + " i ON i.id = t.item_id").
		Select("i.category AS category, COUNT(*) AS count").
		Group("i.category").
		Order("count DESC").
		Scan(&stats.CategoryBreakdown).Error; err != nil {
		return nil, err
	}

	if err := db.Table(models.TransactionTable + " t").
		Joins("JOIN " + models.UserTable + " u ON u.id = t.user_id").
		Select("u.name AS name, COUNT(*) AS count").
		Group("u.name").
		Order("count DESC").
		Limit(10).
		Scan(&stats.TopUsers).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
