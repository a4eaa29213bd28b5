package db

import (
	"context"
	"fmt"

	"depotrack/models"

	"github.com/google/uuid"
)

func (r *Repo) LogScan(ctx context.Context, userID, qrCode, targetType, targetID string) (*models.ScanLog, error) {
	entry := &models.ScanLog{
		ID:         uuid.NewString(),
		UserID:     userID,
		QRCode:     qrCode,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("insert scan log: %w", err)
	}
	return entry, nil
}

// RecentScans returns the user's latest scans, newest first.
func (r *Repo) RecentScans(ctx context.Context, userID string, limit int) ([]models.ScanLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var scans []models.ScanLog
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&scans).Error
	return scans, err
}
