package controllers

import (
	"net/http"
	"strings"

	"depotrack/app"
	"depotrack/db"
	"depotrack/models"
	"depotrack/qr"

	"github.com/gin-gonic/gin"
)

type SearchController struct{ *Srv }

func NewSearchController(s *Srv) *SearchController { return &SearchController{Srv: s} }

// GET /api/v1/search?q=
func (sc *SearchController) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondBadRequest(c, "q is required")
		return
	}
	ctx := c.Request.Context()

	items, err := sc.Repo.ListItems(ctx, db.ItemsQuery{Q: q, Page: 1, Size: 20})
	if err != nil {
		respondError(c, err)
		return
	}
	warehouses, err := sc.Repo.ListWarehouses(ctx, q, 1, 20)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, app.H{
		"query":      q,
		"items":      items.Items,
		"warehouses": warehouses.Warehouses,
		"totalCount": items.Total + warehouses.Total,
	}, "")
}

// GET /api/v1/search/suggestions?q=
func (sc *SearchController) Suggestions(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < 2 {
		respondSuccess(c, http.StatusOK, app.H{"suggestions": []string{}}, "")
		return
	}
	ctx := c.Request.Context()

	items, err := sc.Repo.ListItems(ctx, db.ItemsQuery{Q: q, Page: 1, Size: 5})
	if err != nil {
		respondError(c, err)
		return
	}
	warehouses, err := sc.Repo.ListWarehouses(ctx, q, 1, 5)
	if err != nil {
		respondError(c, err)
		return
	}

	suggestions := make([]app.H, 0, len(items.Items)+len(warehouses.Warehouses))
	for _, it := range items.Items {
		suggestions = append(suggestions, app.H{"type": "item", "id": it.ID, "label": it.Name})
	}
	for _, w := range warehouses.Warehouses {
		suggestions = append(suggestions, app.H{"type": "warehouse", "id": w.ID, "label": w.Name})
	}
	respondSuccess(c, http.StatusOK, app.H{"suggestions": suggestions}, "")
}

// GET /api/v1/search/filters
//
// The filter values the list screens offer: distinct categories and
// brands, active warehouses, and the closed status sets.
func (sc *SearchController) Filters(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := sc.Repo.ItemCategories(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	brands, err := sc.Repo.ItemBrands(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	warehouses, err := sc.Repo.ActiveWarehouses(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	whs := make([]app.H, 0, len(warehouses))
	for _, w := range warehouses {
		whs = append(whs, app.H{"id": w.ID, "name": w.Name})
	}

	respondSuccess(c, http.StatusOK, app.H{
		"categories": categories,
		"brands":     brands,
		"warehouses": whs,
		"statuses": app.H{
			"items":        []models.ItemStatus{models.ItemInStock, models.ItemInUse, models.ItemInMaintenance},
			"transactions": []models.TransactionStatus{models.TxActive, models.TxCompleted, models.TxOverdue, models.TxCancelled},
		},
		"actionTypes": []models.ActionType{models.ActionCheckout, models.ActionCheckin},
	}, "")
}

// GET /api/v1/search/qr/:code
func (sc *SearchController) QRLookup(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	ctx := c.Request.Context()

	switch {
	case strings.HasPrefix(code, qr.ItemPrefix+"-"):
		it, err := sc.Repo.FindItemByQRCode(ctx, code)
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, app.H{"type": "item", "item": it}, "")
	case strings.HasPrefix(code, qr.WarehousePrefix+"-"):
		w, err := sc.Repo.FindWarehouseByQRCode(ctx, code)
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, app.H{"type": "warehouse", "warehouse": w}, "")
	default:
		respondBadRequest(c, "unrecognized QR code format")
	}
}
