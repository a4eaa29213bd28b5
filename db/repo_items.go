package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"depotrack/models"
	"depotrack/qr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateItemInput struct {
	Name         string
	SerialNumber *string
	Category     string
	Description  string
	Brand        string
	Model        string
	Value        *float64
	PurchaseDate *time.Time
	WarrantyDate *time.Time
	WarehouseID  string
}

func (r *Repo) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	if err := validateItemFields(in.Name, in.Category, in.Value); err != nil {
		return nil, err
	}
	if _, err := r.FindWarehouseByID(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	code, err := qr.GenerateCode(qr.ItemPrefix, func(c string) (bool, error) {
		return r.qrCodeExists(ctx, &models.Item{}, c)
	})
	if err != nil {
		return nil, err
	}

	it := &models.Item{
		ID:           uuid.NewString(),
		Name:         in.Name,
		SerialNumber: in.SerialNumber,
		Category:     in.Category,
		Description:  in.Description,
		Brand:        in.Brand,
		Model:        in.Model,
		Value:        in.Value,
		PurchaseDate: in.PurchaseDate,
		WarrantyDate: in.WarrantyDate,
		Status:       models.ItemInStock,
		QRCode:       code,
		WarehouseID:  in.WarehouseID,
	}
	if err := r.DB.WithContext(ctx).Create(it).Error; err != nil {
		if duplicate(err) {
			return nil, validation("serial number is already taken")
		}
		return nil, err
	}
	return it, nil
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("item not found")
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) FindItemByQRCode(ctx context.Context, code string) (*models.Item, error) {
	var it models.Item
	err := r.DB.WithContext(ctx).Where("qr_code = ?", code).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("item not found")
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

type UpdateItemInput struct {
	Name         *string
	SerialNumber *string
	Category     *string
	Description  *string
	Brand        *string
	Model        *string
	Value        *float64
	PurchaseDate *time.Time
	WarrantyDate *time.Time
	WarehouseID  *string
}

// UpdateItem edits descriptive fields only; status moves through the
// lifecycle operations, never through a plain update.
func (r *Repo) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (*models.Item, error) {
	it, err := r.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.SerialNumber != nil {
		it.SerialNumber = in.SerialNumber
	}
	if in.Category != nil {
		it.Category = *in.Category
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	if in.Brand != nil {
		it.Brand = *in.Brand
	}
	if in.Model != nil {
		it.Model = *in.Model
	}
	if in.Value != nil {
		it.Value = in.Value
	}
	if in.PurchaseDate != nil {
		it.PurchaseDate = in.PurchaseDate
	}
	if in.WarrantyDate != nil {
		it.WarrantyDate = in.WarrantyDate
	}
	if in.WarehouseID != nil {
		if _, err := r.FindWarehouseByID(ctx, *in.WarehouseID); err != nil {
			return nil, err
		}
		it.WarehouseID = *in.WarehouseID
	}
	if err := validateItemFields(it.Name, it.Category, it.Value); err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Save(it).Error; err != nil {
		if duplicate(err) {
			return nil, validation("serial number is already taken")
		}
		return nil, err
	}
	return it, nil
}

// ItemRow is an item joined with its current open transaction, if any.
type ItemRow struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	SerialNumber *string           `json:"serialNumber,omitempty"`
	Category     string            `json:"category"`
	Brand        string            `json:"brand,omitempty"`
	Model        string            `json:"model,omitempty"`
	Value        *float64          `json:"value,omitempty"`
	Status       models.ItemStatus `json:"status"`
	QRCode       string            `json:"qrCode"`
	WarehouseID  string            `json:"warehouseId"`
	Warehouse    string            `json:"warehouse"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`

	TransactionID *string    `json:"transactionId,omitempty"`
	HolderID      *string    `json:"holderId,omitempty"`
	HolderName    *string    `json:"holderName,omitempty"`
	Destination   *string    `json:"destination,omitempty"`
	CheckedOutAt  *time.Time `json:"checkedOutAt,omitempty"`
	ReturnDate    *time.Time `json:"returnDate,omitempty"`
	Overdue       bool       `json:"overdue"`
}

type ItemsQuery struct {
	Q           string
	Status      string
	Category    string
	Brand       string
	WarehouseID string
	Page        int
	Size        int
}

type PagedItems struct {
	Total int64     `json:"total"`
	Items []ItemRow `json:"items"`
}

func (r *Repo) ListItems(ctx context.Context, q ItemsQuery) (*PagedItems, error) {
	q.Page, q.Size = normalizePage(q.Page, q.Size)
	offset := (q.Page - 1) * q.Size

	db := r.DB.WithContext(ctx)

	base := db.Table(models.ItemTable + " i")
	if s := strings.TrimSpace(q.Q); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		base = base.Where(
			"LOWER(i.name) LIKE ? OR LOWER(i.serial_number) LIKE ? OR LOWER(i.category) LIKE ? OR LOWER(i.brand) LIKE ? OR LOWER(i.model) LIKE ?",
			pat, pat, pat, pat, pat)
	}
	if q.Status != "" {
		base = base.Where("i.status = ?", q.Status)
	}
	if q.Category != "" {
		base = base.Where("i.category = ?", q.Category)
	}
	if q.Brand != "" {
		base = base.Where("i.brand = ?", q.Brand)
	}
	if q.WarehouseID != "" {
		base = base.Where("i.warehouse_id = ?", q.WarehouseID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []ItemRow
	if err := base.Session(&gorm.Session{}).
		Select(`
			i.id, i.name, i.serial_number, i.category, i.brand, i.model, i.value,
			i.status, i.qr_code, i.warehouse_id, i.created_at, i.updated_at,
			w.name AS warehouse,
			ot.id          AS transaction_id,
			ot.user_id     AS holder_id,
			u.name         AS holder_name,
			ot.destination AS destination,
			ot.created_at  AS checked_out_at,
			ot.return_date AS return_date,
			CASE WHEN ot.status = 'overdue' THEN TRUE ELSE FALSE END AS overdue
		`).
		Joins("LEFT JOIN " + models.WarehouseTable + " w ON w.id = i.warehouse_id").
		Joins("LEFT JOIN " + models.TransactionTable + " ot ON ot.item_id = i.id AND ot.status IN ('active', 'overdue')").
		Joins("LEFT JOIN " + models.UserTable + " u ON u.id = ot.user_id").
		Order("i.updated_at DESC").
		Offset(offset).
		Limit(q.Size).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return &PagedItems{Total: total, Items: rows}, nil
}

func (r *Repo) ItemCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Distinct().Order("category").Pluck("category", &out).Error
	return out, err
}

func (r *Repo) ItemBrands(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("brand <> ''").
		Distinct().Order("brand").Pluck("brand", &out).Error
	return out, err
}

func validateItemFields(name, category string, value *float64) error {
	if n := strings.TrimSpace(name); len(n) < 2 || len(n) > 100 {
		return validation("name must be between 2 and 100 characters")
	}
	if c := strings.TrimSpace(category); len(c) < 2 || len(c) > 50 {
		return validation("category must be between 2 and 50 characters")
	}
	if value != nil && *value <= 0 {
		return validation("value must be greater than zero")
	}
	return nil
}

func (r *Repo) qrCodeExists(ctx context.Context, model interface{}, code string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(model).Where("qr_code = ?", code).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
