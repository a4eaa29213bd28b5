package controllers

import (
	"fmt"
	"net/http"
	"time"

	"depotrack/app"
	"depotrack/db"
	"depotrack/qr"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// GET /api/v1/items
func (ic *ItemController) List(c *gin.Context) {
	page, size := pageParams(c)
	q := db.ItemsQuery{
		Q:           c.Query("search"),
		Status:      c.Query("status"),
		Category:    c.Query("category"),
		Brand:       c.Query("brand"),
		WarehouseID: c.Query("warehouseId"),
		Page:        page,
		Size:        size,
	}
	res, err := ic.Repo.ListItems(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, app.H{
		"items":      res.Items,
		"pagination": paginate(res.Total, page, size),
	}, "")
}

// GET /api/v1/items/:id
func (ic *ItemController) Get(c *gin.Context) {
	ctx := c.Request.Context()
	it, err := ic.Repo.FindItemByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	history, err := ic.Repo.ItemHistory(ctx, it.ID, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	cur, err := ic.Repo.CurrentTransaction(ctx, it.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, app.H{
		"item":               it,
		"currentTransaction": cur,
		"history":            history,
	}, "")
}

type itemInput struct {
	Name         string     `json:"name" binding:"required"`
	SerialNumber *string    `json:"serialNumber"`
	Category     string     `json:"category" binding:"required"`
	Description  string     `json:"description"`
	Brand        string     `json:"brand"`
	Model        string     `json:"model"`
	Value        *float64   `json:"value"`
	PurchaseDate *time.Time `json:"purchaseDate"`
	WarrantyDate *time.Time `json:"warrantyDate"`
	WarehouseID  string     `json:"warehouseId" binding:"required"`
}

// POST /api/v1/items  (admin)
func (ic *ItemController) Create(c *gin.Context) {
	var in itemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	it, err := ic.Repo.CreateItem(c.Request.Context(), db.CreateItemInput{
		Name:         in.Name,
		SerialNumber: in.SerialNumber,
		Category:     in.Category,
		Description:  in.Description,
		Brand:        in.Brand,
		Model:        in.Model,
		Value:        in.Value,
		PurchaseDate: in.PurchaseDate,
		WarrantyDate: in.WarrantyDate,
		WarehouseID:  in.WarehouseID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, it, "item created")
}

// PUT /api/v1/items/:id  (admin)
func (ic *ItemController) Update(c *gin.Context) {
	var in struct {
		Name         *string    `json:"name"`
		SerialNumber *string    `json:"serialNumber"`
		Category     *string    `json:"category"`
		Description  *string    `json:"description"`
		Brand        *string    `json:"brand"`
		Model        *string    `json:"model"`
		Value        *float64   `json:"value"`
		PurchaseDate *time.Time `json:"purchaseDate"`
		WarrantyDate *time.Time `json:"warrantyDate"`
		WarehouseID  *string    `json:"warehouseId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	it, err := ic.Repo.UpdateItem(c.Request.Context(), c.Param("id"), db.UpdateItemInput{
		Name:         in.Name,
		SerialNumber: in.SerialNumber,
		Category:     in.Category,
		Description:  in.Description,
		Brand:        in.Brand,
		Model:        in.Model,
		Value:        in.Value,
		PurchaseDate: in.PurchaseDate,
		WarrantyDate: in.WarrantyDate,
		WarehouseID:  in.WarehouseID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, it, "item updated")
}

// DELETE /api/v1/items/:id  (admin)
func (ic *ItemController) Delete(c *gin.Context) {
	if err := ic.Repo.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "item deleted")
}

// POST /api/v1/items/:id/checkout
func (ic *ItemController) Checkout(c *gin.Context) {
	var in struct {
		Destination string     `json:"destination"`
		ReturnDate  *time.Time `json:"returnDate"`
		Reason      string     `json:"reason"`
		Notes       string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	t, err := ic.Repo.CheckoutItem(c.Request.Context(), db.CheckoutInput{
		ItemID:      c.Param("id"),
		UserID:      app.CurrentUserID(c),
		Destination: in.Destination,
		ReturnDate:  in.ReturnDate,
		Reason:      in.Reason,
		Notes:       in.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, t, "item checked out")
}

// POST /api/v1/items/:id/checkin
func (ic *ItemController) Checkin(c *gin.Context) {
	var in struct {
		Notes     string `json:"notes"`
		Condition string `json:"condition"`
	}
	_ = c.ShouldBindJSON(&in)
	t, err := ic.Repo.CheckinItem(c.Request.Context(), db.CheckinInput{
		ItemID:    c.Param("id"),
		UserID:    app.CurrentUserID(c),
		Notes:     in.Notes,
		Condition: in.Condition,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, t, "item checked in")
}

// POST /api/v1/items/:id/maintenance
func (ic *ItemController) SendToMaintenance(c *gin.Context) {
	var in struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&in)
	t, err := ic.Repo.SendToMaintenance(c.Request.Context(), c.Param("id"), app.CurrentUserID(c), in.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, t, "item sent to maintenance")
}

// POST /api/v1/items/:id/maintenance/return
func (ic *ItemController) ReturnFromMaintenance(c *gin.Context) {
	var in struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&in)
	t, err := ic.Repo.ReturnFromMaintenance(c.Request.Context(), c.Param("id"), app.CurrentUserID(c), in.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, t, "item returned from maintenance")
}

// GET /api/v1/items/:id/qr_code
func (ic *ItemController) QRCodePNG(c *gin.Context) {
	it, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	png, err := qr.ImagePNG(ic.Cfg.BaseURL, it.QRCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GET /api/v1/items/:id/qr_code_pdf
func (ic *ItemController) QRCodePDF(c *gin.Context) {
	it, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	subtitle := it.Category
	if it.SerialNumber != nil {
		subtitle = fmt.Sprintf("S/N: %s", *it.SerialNumber)
	}
	pdf, err := qr.LabelPDF(ic.Cfg.BaseURL, qr.Label{Title: it.Name, Subtitle: subtitle, Code: it.QRCode})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=item_%s_qr.pdf", it.QRCode))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GET /api/v1/items/categories
func (ic *ItemController) Categories(c *gin.Context) {
	out, err := ic.Repo.ItemCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out, "")
}

// GET /api/v1/items/brands
func (ic *ItemController) Brands(c *gin.Context) {
	out, err := ic.Repo.ItemBrands(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, out, "")
}
