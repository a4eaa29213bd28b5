package controllers

import (
	"net/http"
	"time"

	"depotrack/app"
	"depotrack/db"
	"depotrack/models"

	"github.com/gin-gonic/gin"
)

type TransactionController struct{ *Srv }

func NewTransactionController(s *Srv) *TransactionController {
	return &TransactionController{Srv: s}
}

// GET /api/v1/transactions
func (tc *TransactionController) List(c *gin.Context) {
	page, size := pageParams(c)
	q := db.TransactionsQuery{
		Status:     c.Query("status"),
		ActionType: c.Query("actionType"),
		UserID:     c.Query("userId"),
		ItemID:     c.Query("itemId"),
		Overdue:    c.Query("overdue") == "true",
		Page:       page,
		Size:       size,
	}
	if s := c.Query("startDate"); s != "" {
		if d, err := time.Parse("2006-01-02", s); err == nil {
			q.StartDate = &d
		}
	}
	if s := c.Query("endDate"); s != "" {
		if d, err := time.Parse("2006-01-02", s); err == nil {
			end := d.Add(24*time.Hour - time.Nanosecond)
			q.EndDate = &end
		}
	}

	res, err := tc.Repo.ListTransactions(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, app.H{
		"items":      res.Items,
		"pagination": paginate(res.Total, page, size),
	}, "")
}

// GET /api/v1/transactions/:id
func (tc *TransactionController) Get(c *gin.Context) {
	t, err := tc.Repo.FindTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, t, "")
}

// POST /api/v1/transactions
//
// Creating a transaction goes through the item lifecycle so the status
// invariant is enforced at one call site, never via a raw row insert.
func (tc *TransactionController) Create(c *gin.Context) {
	var in struct {
		ItemID      string     `json:"itemId" binding:"required"`
		ActionType  string     `json:"actionType" binding:"required"`
		Destination string     `json:"destination"`
		ReturnDate  *time.Time `json:"returnDate"`
		Notes       string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	userID := app.CurrentUserID(c)
	switch models.ActionType(in.ActionType) {
	case models.ActionCheckout:
		t, err := tc.Repo.CheckoutItem(c.Request.Context(), db.CheckoutInput{
			ItemID:      in.ItemID,
			UserID:      userID,
			Destination: in.Destination,
			ReturnDate:  in.ReturnDate,
			Notes:       in.Notes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusCreated, t, "transaction created")
	case models.ActionCheckin:
		t, err := tc.Repo.CheckinItem(c.Request.Context(), db.CheckinInput{
			ItemID: in.ItemID,
			UserID: userID,
			Notes:  in.Notes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusCreated, t, "transaction created")
	default:
		respondBadRequest(c, "actionType must be checkout or checkin")
	}
}

// PATCH /api/v1/transactions/:id
func (tc *TransactionController) Update(c *gin.Context) {
	t, err := tc.Repo.FindTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !tc.mayModify(c, t) {
		respondForbidden(c)
		return
	}

	var in struct {
		Destination *string    `json:"destination"`
		ReturnDate  *time.Time `json:"returnDate"`
		Notes       *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	out, err := tc.Repo.UpdateTransaction(c.Request.Context(), t.ID, db.UpdateTransactionInput{
		Destination: in.Destination,
		ReturnDate:  in.ReturnDate,
		Notes:       in.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out, "transaction updated")
}

// POST /api/v1/transactions/:id/complete
func (tc *TransactionController) Complete(c *gin.Context) {
	t, err := tc.Repo.FindTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !tc.mayModify(c, t) {
		respondForbidden(c)
		return
	}

	var in struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&in)
	out, err := tc.Repo.CompleteTransaction(c.Request.Context(), t.ID, app.CurrentUserID(c), in.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out, "transaction completed")
}

// POST /api/v1/transactions/:id/cancel
func (tc *TransactionController) Cancel(c *gin.Context) {
	t, err := tc.Repo.FindTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !tc.mayModify(c, t) {
		respondForbidden(c)
		return
	}

	var in struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&in)
	out, err := tc.Repo.CancelTransaction(c.Request.Context(), t.ID, app.CurrentUserID(c), in.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out, "transaction cancelled")
}

// POST /api/v1/transactions/:id/extend
func (tc *TransactionController) Extend(c *gin.Context) {
	t, err := tc.Repo.FindTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !tc.mayModify(c, t) {
		respondForbidden(c)
		return
	}

	var in struct {
		ReturnDate time.Time `json:"returnDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	out, err := tc.Repo.ExtendReturnDate(c.Request.Context(), t.ID, in.ReturnDate)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out, "return date extended")
}

// GET /api/v1/transactions/overdue
func (tc *TransactionController) Overdue(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()
	// Sweep first so the listing never shows a stale active status.
	if _, err := tc.Repo.SweepOverdue(ctx, now); err != nil {
		respondError(c, err)
		return
	}
	rows, err := tc.Repo.ListOverdue(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	type overdueRow struct {
		db.TransactionRow
		DaysOverdue int `json:"daysOverdue"`
	}
	out := make([]overdueRow, 0, len(rows))
	for _, row := range rows {
		t := models.Transaction{
			ActionType: row.ActionType,
			Status:     row.Status,
			ReturnDate: row.ReturnDate,
		}
		out = append(out, overdueRow{TransactionRow: row, DaysOverdue: t.DaysOverdue(now)})
	}
	respondSuccess(c, http.StatusOK, app.H{"items": out}, "")
}

// GET /api/v1/transactions/statistics  (admin)
func (tc *TransactionController) Statistics(c *gin.Context) {
	stats, err := tc.Repo.TransactionStatistics(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats, "")
}

// owner-or-admin rule for complete/cancel/update
func (tc *TransactionController) mayModify(c *gin.Context, t *models.Transaction) bool {
	return app.IsAdmin(c) || t.UserID == app.CurrentUserID(c)
}
