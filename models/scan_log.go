package models

import "time"

// ScanLog is the audit trail of QR scans, one row per resolved scan.
type ScanLog struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;index;not null" json:"userId"`
	QRCode     string    `gorm:"size:32;not null" json:"qrCode"`
	TargetType string    `gorm:"size:20;not null" json:"targetType"` // "item" or "warehouse"
	TargetID   string    `gorm:"type:uuid;not null" json:"targetId"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (ScanLog) TableName() string { return ScanLogTable }
