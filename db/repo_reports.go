package db

import (
	"context"
	"time"

	"depotrack/models"
)

// DashboardStats is the landing-page summary.
type DashboardStats struct {
	TotalItems         int64 `json:"totalItems"`
	ItemsInStock       int64 `json:"itemsInStock"`
	ItemsInUse         int64 `json:"itemsInUse"`
	ItemsInMaintenance int64 `json:"itemsInMaintenance"`
	TotalWarehouses    int64 `json:"totalWarehouses"`
	TotalUsers         int64 `json:"totalUsers"`
	ActiveCheckouts    int64 `json:"activeCheckouts"`
	OverdueCount       int64 `json:"overdueCount"`
	DueThisWeek        int64 `json:"dueThisWeek"`

	RecentTransactions []TransactionRow `json:"recentTransactions"`
}

func (r *Repo) DashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := r.DB.WithContext(ctx)

	type statusCount struct {
		Status models.ItemStatus
		Count  int64
	}
	var counts []statusCount
	if err := db.Model(&models.Item{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
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

	if err := db.Model(&models.Warehouse{}).Count(&stats.TotalWarehouses).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Transaction{}).
		Where("action_type = ? AND status = ?", models.ActionCheckout, models.TxActive).
		Count(&stats.ActiveCheckouts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Transaction{}).
		Where("status = ?", models.TxOverdue).
		Count(&stats.OverdueCount).Error; err != nil {
		return nil, err
	}
	weekEnd := now.Add(7 * 24 * time.Hour)
	if err := db.Model(&models.Transaction{}).
		Where("action_type = ? AND status = ? AND return_date IS NOT NULL AND return_date >= ? AND return_date < ?",
			models.ActionCheckout, models.TxActive, now, weekEnd).
		Count(&stats.DueThisWeek).Error; err != nil {
		return nil, err
	}

	recent, err := r.ListTransactions(ctx, TransactionsQuery{Page: 1, Size: 10})
	if err != nil {
		return nil, err
	}
	stats.RecentTransactions = recent.Items

	return stats, nil
}

// MovementRow is one day of checkout/checkin activity.
type MovementRow struct {
	Day       string `json:"day"`
	Checkouts int64  `json:"checkouts"`
	Checkins  int64  `json:"checkins"`
}

type MovementReport struct {
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate"`
	TotalCheckouts int64         `json:"totalCheckouts"`
	TotalCheckins  int64         `json:"totalCheckins"`
	Days           []MovementRow `json:"days"`
}

// ItemMovements counts checkouts and checkins per day over the range.
// Days with no activity are omitted.
func (r *Repo) ItemMovements(ctx context.Context, start, end time.Time) (*MovementReport, error) {
	type bucket struct {
		Day        string
		ActionType models.ActionType
		Count      int64
	}
	var buckets []bucket
	if err := r.DB.WithContext(ctx).Model(&models.Transaction{}).
		Select("DATE(created_at) AS day, action_type, COUNT(*) AS count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("DATE(created_at), action_type").
		Order("day").
		Scan(&buckets).Error; err != nil {
		return nil, err
	}

	report := &MovementReport{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Days:      []MovementRow{},
	}
	byDay := map[string]int{}
	for _, b := range buckets {
		i, ok := byDay[b.Day]
		if !ok {
			report.Days = append(report.Days, MovementRow{Day: b.Day})
			i = len(report.Days) - 1
			byDay[b.Day] = i
		}
		switch b.ActionType {
		case models.ActionCheckout:
			report.Days[i].Checkouts = b.Count
			report.TotalCheckouts += b.Count
		case models.ActionCheckin:
			report.Days[i].Checkins = b.Count
			report.TotalCheckins += b.Count
		}
	}
	return report, nil
}

// WarehouseOccupancyRow is one line of the occupancy report.
type WarehouseOccupancyRow struct {
	WarehouseID   string                 `json:"warehouseId"`
	Name          string                 `json:"name"`
	Location      string                 `json:"location"`
	Status        models.WarehouseStatus `json:"status"`
	Capacity      *int64                 `json:"capacity,omitempty"`
	ItemCount     int64                  `json:"itemCount"`
	OccupancyRate float64                `json:"occupancyRate"`
}

func (r *Repo) WarehouseOccupancy(ctx context.Context) ([]WarehouseOccupancyRow, error) {
	var ws []models.Warehouse
	if err := r.DB.WithContext(ctx).Order("name").Find(&ws).Error; err != nil {
		return nil, err
	}

	type itemCount struct {
		WarehouseID string
		Count       int64
	}
	var counts []itemCount
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Select("warehouse_id, COUNT(*) AS count").
		Group("warehouse_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byWarehouse := make(map[string]int64, len(counts))
	for _, c := range counts {
		byWarehouse[c.WarehouseID] = c.Count
	}

	out := make([]WarehouseOccupancyRow, 0, len(ws))
	for _, w := range ws {
		n := byWarehouse[w.ID]
		out = append(out, WarehouseOccupancyRow{
			WarehouseID:   w.ID,
			Name:          w.Name,
			Location:      w.Location,
			Status:        w.Status,
			Capacity:      w.Capacity,
			ItemCount:     n,
			OccupancyRate: w.OccupancyRate(n),
		})
	}
	return out, nil
}
