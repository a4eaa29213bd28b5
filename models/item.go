package models

import "time"

const (
	ItemTable        = "items"
	TransactionTable = "transactions"
	UserTable        = "users"
	WarehouseTable   = "warehouses"
	ScanLogTable     = "scan_logs"
)

// ItemStatus is the closed set of item states.
type ItemStatus string

const (
	ItemInStock       ItemStatus = "in_stock"
	ItemInUse         ItemStatus = "in_use"
	ItemInMaintenance ItemStatus = "in_maintenance"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemInStock, ItemInUse, ItemInMaintenance:
		return true
	}
	return false
}

// ItemOp is a status-changing operation on an item.
type ItemOp string

const (
	OpCheckout              ItemOp = "checkout"
	OpCheckin               ItemOp = "checkin"
	OpSendToMaintenance     ItemOp = "send_to_maintenance"
	OpReturnFromMaintenance ItemOp = "return_from_maintenance"
)

// itemTransitions is the transition table: (current status, op) -> next status.
// An operation missing from a row is not allowed in that status.
var itemTransitions = map[ItemStatus]map[ItemOp]ItemStatus{
	ItemInStock: {
		OpCheckout:          ItemInUse,
		OpSendToMaintenance: ItemInMaintenance,
	},
	ItemInUse: {
		OpCheckin: ItemInStock,
	},
	ItemInMaintenance: {
		OpReturnFromMaintenance: ItemInStock,
	},
}

// Next returns the status op leads to from s, and whether op is allowed.
func (s ItemStatus) Next(op ItemOp) (ItemStatus, bool) {
	next, ok := itemTransitions[s][op]
	return next, ok
}

type Item struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null;index" json:"name"`
	SerialNumber *string    `gorm:"size:120;uniqueIndex" json:"serialNumber,omitempty"`
	Category     string     `gorm:"size:50;not null;index" json:"category"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	Brand        string     `gorm:"size:100;index" json:"brand,omitempty"`
	Model        string     `gorm:"size:100" json:"model,omitempty"`
	Value        *float64   `json:"value,omitempty"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty"`
	WarrantyDate *time.Time `json:"warrantyDate,omitempty"`
	Status       ItemStatus `gorm:"size:20;not null;default:'in_stock';index" json:"status"`
	QRCode       string     `gorm:"size:32;uniqueIndex;not null" json:"qrCode"`
	WarehouseID  string     `gorm:"type:uuid;index;not null" json:"warehouseId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }

func (i *Item) AvailableForCheckout() bool { return i.Status == ItemInStock }
func (i *Item) CheckedOut() bool           { return i.Status == ItemInUse }
func (i *Item) InMaintenance() bool        { return i.Status == ItemInMaintenance }

// WarrantyValid reports whether the warranty covers the given day.
func (i *Item) WarrantyValid(now time.Time) bool {
	return i.WarrantyDate != nil && i.WarrantyDate.After(now)
}
