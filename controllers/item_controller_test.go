package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"depotrack/db"
	"depotrack/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemRouter(s *Srv, u *models.User) *gin.Engine {
	r := gin.New()
	ic := NewItemController(s)
	g := r.Group("/api/v1/items", asUser(u))
	g.GET("", ic.List)
	g.GET("/:id", ic.Get)
	g.POST("", ic.Create)
	g.POST("/:id/checkout", ic.Checkout)
	g.POST("/:id/checkin", ic.Checkin)
	g.DELETE("/:id", ic.Delete)
	g.GET("/:id/qr_code", ic.QRCodePNG)
	return r
}

func seedWarehouseAndItem(t *testing.T, s *Srv) (*models.Warehouse, *models.Item) {
	t.Helper()
	ctx := context.Background()
	w, err := s.Repo.CreateWarehouse(ctx, db.CreateWarehouseInput{
		Name:     "Main Depot",
		Location: "12 Harbour Street",
	})
	require.NoError(t, err)
	it, err := s.Repo.CreateItem(ctx, db.CreateItemInput{
		Name:        "Cordless Drill",
		Category:    "Power Tools",
		WarehouseID: w.ID,
	})
	require.NoError(t, err)
	return w, it
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestItemCheckoutEndpoint(t *testing.T) {
	s := newTestSrv(t)
	u := testUser(t, s, models.RoleStaff)
	_, it := seedWarehouseAndItem(t, s)
	r := itemRouter(s, u)

	due := time.Now().UTC().Add(72 * time.Hour)
	w := doJSON(r, http.MethodPost, "/api/v1/items/"+it.ID+"/checkout", gin.H{
		"destination": "Site A",
		"returnDate":  due.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	// Second checkout of the same item is refused.
	w = doJSON(r, http.MethodPost, "/api/v1/items/"+it.ID+"/checkout", gin.H{
		"destination": "Site B",
		"returnDate":  due.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Missing destination is a validation failure.
	_, other := seedWarehouseAndItem(t, s)
	w = doJSON(r, http.MethodPost, "/api/v1/items/"+other.ID+"/checkout", gin.H{
		"returnDate": due.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestItemCheckinEndpoint(t *testing.T) {
	s := newTestSrv(t)
	u := testUser(t, s, models.RoleStaff)
	_, it := seedWarehouseAndItem(t, s)
	r := itemRouter(s, u)

	// Checkin before checkout is an invalid state.
	w := doJSON(r, http.MethodPost, "/api/v1/items/"+it.ID+"/checkin", gin.H{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	due := time.Now().UTC().Add(72 * time.Hour)
	w = doJSON(r, http.MethodPost, "/api/v1/items/"+it.ID+"/checkout", gin.H{
		"destination": "Site A",
		"returnDate":  due.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/items/"+it.ID+"/checkin", gin.H{"condition": "good"})
	assert.Equal(t, http.StatusCreated, w.Code)

	got, err := s.Repo.FindItemByID(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemInStock, got.Status)
}

func TestItemDeleteConflict(t *testing.T) {
	s := newTestSrv(t)
	u := testUser(t, s, models.RoleAdmin)
	_, it := seedWarehouseAndItem(t, s)
	r := itemRouter(s, u)

	due := time.Now().UTC().Add(72 * time.Hour)
	w := doJSON(r, http.MethodPost, "/api/v1/items/"+it.ID+"/checkout", gin.H{
		"destination": "Site A",
		"returnDate":  due.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/items/"+it.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestItemGetAndList(t *testing.T) {
	s := newTestSrv(t)
	u := testUser(t, s, models.RoleStaff)
	_, it := seedWarehouseAndItem(t, s)
	r := itemRouter(s, u)

	w := doJSON(r, http.MethodGet, "/api/v1/items/"+it.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Item    models.Item       `json:"item"`
			History []json.RawMessage `json:"history"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, it.ID, body.Data.Item.ID)
	assert.Empty(t, body.Data.History)

	w = doJSON(r, http.MethodGet, "/api/v1/items?search=drill", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalCount":1`)

	w = doJSON(r, http.MethodGet, "/api/v1/items/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemQRCodeEndpoint(t *testing.T) {
	s := newTestSrv(t)
	u := testUser(t, s, models.RoleStaff)
	_, it := seedWarehouseAndItem(t, s)
	r := itemRouter(s, u)

	w := doJSON(r, http.MethodGet, "/api/v1/items/"+it.ID+"/qr_code", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}
