package controllers

import (
	"fmt"
	"net/http"
	"time"

	"depotrack/app"
	"depotrack/models"

	"github.com/gin-gonic/gin"
)

// ReportController is admin-only; the router guards the whole group.
type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// GET /api/v1/reports/dashboard
func (rc *ReportController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()
	if _, err := rc.Repo.SweepOverdue(ctx, now); err != nil {
		respondError(c, err)
		return
	}
	stats, err := rc.Repo.DashboardStats(ctx, now)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats, "")
}

// GET /api/v1/reports/warehouse_occupancy
func (rc *ReportController) WarehouseOccupancy(c *gin.Context) {
	rows, err := rc.Repo.WarehouseOccupancy(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, app.H{"warehouses": rows}, "")
}

// GET /api/v1/reports/item_movements
func (rc *ReportController) ItemMovements(c *gin.Context) {
	now := time.Now().UTC()
	start := now.Add(-30 * 24 * time.Hour)
	end := now
	if s := c.Query("startDate"); s != "" {
		if d, err := time.Parse("2006-01-02", s); err == nil {
			start = d
		}
	}
	if s := c.Query("endDate"); s != "" {
		if d, err := time.Parse("2006-01-02", s); err == nil {
			end = d.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if end.Before(start) {
		respondBadRequest(c, "endDate must not be before startDate")
		return
	}

	report, err := rc.Repo.ItemMovements(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, report, "")
}

// GET /api/v1/reports/export/pdf
func (rc *ReportController) ExportPDF(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()
	if _, err := rc.Repo.SweepOverdue(ctx, now); err != nil {
		respondError(c, err)
		return
	}
	stats, err := rc.Repo.DashboardStats(ctx, now)
	if err != nil {
		respondError(c, err)
		return
	}
	overdue, err := rc.Repo.ListOverdue(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := summaryPDF(now, stats, overdue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=inventory_report_%s.pdf", now.Format("2006-01-02")))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GET /api/v1/reports/overdue_items
func (rc *ReportController) OverdueItems(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()
	if _, err := rc.Repo.SweepOverdue(ctx, now); err != nil {
		respondError(c, err)
		return
	}
	rows, err := rc.Repo.ListOverdue(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	type overdueRow struct {
		ItemID      string     `json:"itemId"`
		ItemName    string     `json:"itemName"`
		Category    string     `json:"category"`
		HolderName  string     `json:"holderName"`
		Destination string     `json:"destination,omitempty"`
		ReturnDate  *time.Time `json:"returnDate"`
		DaysOverdue int        `json:"daysOverdue"`
	}
	out := make([]overdueRow, 0, len(rows))
	for _, row := range rows {
		t := models.Transaction{
			ActionType: row.ActionType,
			Status:     row.Status,
			ReturnDate: row.ReturnDate,
		}
		out = append(out, overdueRow{
			ItemID:      row.ItemID,
			ItemName:    row.ItemName,
			Category:    row.ItemCategory,
			HolderName:  row.UserName,
			Destination: row.Destination,
			ReturnDate:  row.ReturnDate,
			DaysOverdue: t.DaysOverdue(now),
		})
	}
	respondSuccess(c, http.StatusOK, app.H{"items": out, "count": len(out)}, "")
}
