package controllers

import (
	"fmt"
	"net/http"

	"depotrack/app"
	"depotrack/db"
	"depotrack/models"
	"depotrack/qr"

	"github.com/gin-gonic/gin"
)

type WarehouseController struct{ *Srv }

func NewWarehouseController(s *Srv) *WarehouseController {
	return &WarehouseController{Srv: s}
}

// GET /api/v1/warehouses
func (wc *WarehouseController) List(c *gin.Context) {
	page, size := pageParams(c)
	res, err := wc.Repo.ListWarehouses(c.Request.Context(), c.Query("search"), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, app.H{
		"warehouses": res.Warehouses,
		"pagination": paginate(res.Total, page, size),
	}, "")
}

// GET /api/v1/warehouses/:id
func (wc *WarehouseController) Get(c *gin.Context) {
	ctx := c.Request.Context()
	w, err := wc.Repo.FindWarehouseByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := wc.Repo.WarehouseStatistics(ctx, w)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, app.H{"warehouse": w, "statistics": stats}, "")
}

// POST /api/v1/warehouses  (admin)
func (wc *WarehouseController) Create(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required"`
		Location    string `json:"location" binding:"required"`
		Description string `json:"description"`
		Capacity    *int64 `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	w, err := wc.Repo.CreateWarehouse(c.Request.Context(), db.CreateWarehouseInput{
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		Capacity:    in.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, w, "warehouse created")
}

// PUT /api/v1/warehouses/:id  (admin)
func (wc *WarehouseController) Update(c *gin.Context) {
	var in struct {
		Name        *string                 `json:"name"`
		Location    *string                 `json:"location"`
		Description *string                 `json:"description"`
		Capacity    *int64                  `json:"capacity"`
		Status      *models.WarehouseStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	w, err := wc.Repo.UpdateWarehouse(c.Request.Context(), c.Param("id"), db.UpdateWarehouseInput{
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		Capacity:    in.Capacity,
		Status:      in.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, w, "warehouse updated")
}

// DELETE /api/v1/warehouses/:id  (admin)
func (wc *WarehouseController) Delete(c *gin.Context) {
	if err := wc.Repo.DeleteWarehouse(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "warehouse deleted")
}

// GET /api/v1/warehouses/:id/items
func (wc *WarehouseController) Items(c *gin.Context) {
	page, size := pageParams(c)
	if _, err := wc.Repo.FindWarehouseByID(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	res, err := wc.Repo.ListItems(c.Request.Context(), db.ItemsQuery{
		WarehouseID: c.Param("id"),
		Status:      c.Query("status"),
		Page:        page,
		Size:        size,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, app.H{
		"items":      res.Items,
		"pagination": paginate(res.Total, page, size),
	}, "")
}

// GET /api/v1/warehouses/:id/qr_code
func (wc *WarehouseController) QRCodePNG(c *gin.Context) {
	w, err := wc.Repo.FindWarehouseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	png, err := qr.ImagePNG(wc.Cfg.BaseURL, w.QRCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GET /api/v1/warehouses/:id/qr_code_pdf
func (wc *WarehouseController) QRCodePDF(c *gin.Context) {
	w, err := wc.Repo.FindWarehouseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, err := qr.LabelPDF(wc.Cfg.BaseURL, qr.Label{Title: w.Name, Subtitle: w.Location, Code: w.QRCode})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=warehouse_%s_qr.pdf", w.QRCode))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
