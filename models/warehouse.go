package models

import "time"

type WarehouseStatus string

const (
	WarehouseActive   WarehouseStatus = "active"
	WarehouseInactive WarehouseStatus = "inactive"
)

func (s WarehouseStatus) Valid() bool {
	return s == WarehouseActive || s == WarehouseInactive
}

type Warehouse struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null;index" json:"name"`
	Location    string          `gorm:"type:text;not null" json:"location"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Capacity    *int64          `json:"capacity,omitempty"`
	Status      WarehouseStatus `gorm:"size:10;not null;default:'active';index" json:"status"`
	QRCode      string          `gorm:"size:32;uniqueIndex;not null" json:"qrCode"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Warehouse) TableName() string { return WarehouseTable }

// OccupancyRate is the item count as a percentage of capacity,
// zero when no capacity is set.
func (w *Warehouse) OccupancyRate(totalItems int64) float64 {
	if w.Capacity == nil || *w.Capacity == 0 {
		return 0
	}
	return float64(totalItems) / float64(*w.Capacity) * 100
}

// AvailableCapacity is nil when the warehouse has no capacity limit.
func (w *Warehouse) AvailableCapacity(totalItems int64) *int64 {
	if w.Capacity == nil {
		return nil
	}
	free := *w.Capacity - totalItems
	if free < 0 {
		free = 0
	}
	return &free
}
