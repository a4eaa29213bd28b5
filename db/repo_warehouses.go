package db

import (
	"context"
	"errors"
	"strings"

	"depotrack/models"
	"depotrack/qr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateWarehouseInput struct {
	Name        string
	Location    string
	Description string
	Capacity    *int64
}

func (r *Repo) CreateWarehouse(ctx context.Context, in CreateWarehouseInput) (*models.Warehouse, error) {
	if err := validateWarehouseFields(in.Name, in.Location, in.Capacity); err != nil {
		return nil, err
	}

	code, err := qr.GenerateCode(qr.WarehousePrefix, func(c string) (bool, error) {
		return r.qrCodeExists(ctx, &models.Warehouse{}, c)
	})
	if err != nil {
		return nil, err
	}

	w := &models.Warehouse{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		Capacity:    in.Capacity,
		Status:      models.WarehouseActive,
		QRCode:      code,
	}
	if err := r.DB.WithContext(ctx).Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

func (r *Repo) FindWarehouseByID(ctx context.Context, id string) (*models.Warehouse, error) {
	var w models.Warehouse
	if err := r.DB.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("warehouse not found")
		}
		return nil, err
	}
	return &w, nil
}

func (r *Repo) FindWarehouseByQRCode(ctx context.Context, code string) (*models.Warehouse, error) {
	var w models.Warehouse
	err := r.DB.WithContext(ctx).Where("qr_code = ?", code).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("warehouse not found")
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

type UpdateWarehouseInput struct {
	Name        *string
	Location    *string
	Description *string
	Capacity    *int64
	Status      *models.WarehouseStatus
}

func (r *Repo) UpdateWarehouse(ctx context.Context, id string, in UpdateWarehouseInput) (*models.Warehouse, error) {
	w, err := r.FindWarehouseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		w.Name = *in.Name
	}
	if in.Location != nil {
		w.Location = *in.Location
	}
	if in.Description != nil {
		w.Description = *in.Description
	}
	if in.Capacity != nil {
		w.Capacity = in.Capacity
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, validation("status must be active or inactive")
		}
		w.Status = *in.Status
	}
	if err := validateWarehouseFields(w.Name, w.Location, w.Capacity); err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Save(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWarehouse refuses while the warehouse still contains items.
func (r *Repo) DeleteWarehouse(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w models.Warehouse
		if err := tx.First(&w, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("warehouse not found")
			}
			return err
		}
		var n int64
		if err := tx.Model(&models.Item{}).Where("warehouse_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return conflict("warehouse still contains items")
		}
		return tx.Delete(&w).Error
	})
}

type ListWarehousesResult struct {
	Warehouses []models.Warehouse `json:"warehouses"`
	Total      int64              `json:"total"`
}

func (r *Repo) ListWarehouses(ctx context.Context, q string, page, size int) (ListWarehousesResult, error) {
	page, size = normalizePage(page, size)

	tx := r.DB.WithContext(ctx).Model(&models.Warehouse{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListWarehousesResult{}, err
	}

	var ws []models.Warehouse
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&ws).Error; err != nil {
		return ListWarehousesResult{}, err
	}
	return ListWarehousesResult{Warehouses: ws, Total: total}, nil
}

// ActiveWarehouses returns active warehouses ordered by name, for
// filter dropdowns.
func (r *Repo) ActiveWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var ws []models.Warehouse
	err := r.DB.WithContext(ctx).
		Where("status = ?", models.WarehouseActive).
		Order("name").
		Find(&ws).Error
	return ws, err
}

// WarehouseStats is the occupancy summary for one warehouse.
type WarehouseStats struct {
	TotalItems         int64   `json:"totalItems"`
	ItemsInStock       int64   `json:"itemsInStock"`
	ItemsInUse         int64   `json:"itemsInUse"`
	ItemsInMaintenance int64   `json:"itemsInMaintenance"`
	OccupancyRate      float64 `json:"occupancyRate"`
	AvailableCapacity  *int64  `json:"availableCapacity,omitempty"`
}

func (r *Repo) WarehouseStatistics(ctx context.Context, w *models.Warehouse) (*WarehouseStats, error) {
	type statusCount struct {
		Status models.ItemStatus
		Count  int64
	}
	var counts []statusCount
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Select("status, COUNT(*) AS count").
		Where("warehouse_id = ?", w.ID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	stats := &WarehouseStats{}
	for _, c := range counts {
		stats.TotalItems += c.Count
		switch c.Status {
		case models.ItemInStock:
			stats.ItemsInStock = c.Count
		case models.ItemInUse:
			stats.ItemsInUse = c.Count
		case models.ItemInMaintenance:
			stats.ItemsInMaintenance = c.Count
		}
	}
	stats.OccupancyRate = w.OccupancyRate(stats.TotalItems)
	stats.AvailableCapacity = w.AvailableCapacity(stats.TotalItems)
	return stats, nil
}

func validateWarehouseFields(name, location string, capacity *int64) error {
	if n := strings.TrimSpace(name); len(n) < 2 || len(n) > 100 {
		return validation("name must be between 2 and 100 characters")
	}
	if l := strings.TrimSpace(location); len(l) < 5 || len(l) > 255 {
		return validation("location must be between 5 and 255 characters")
	}
	if capacity != nil && *capacity <= 0 {
		return validation("capacity must be greater than zero")
	}
	return nil
}
