package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"depotrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItem(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	w := seedWarehouse(t, r)

	serial := "SN-0042"
	value := 249.90
	it, err := r.CreateItem(ctx, CreateItemInput{
		Name:         "Angle Grinder",
		SerialNumber: &serial,
		Category:     "Power Tools",
		Brand:        "Bosch",
		Value:        &value,
		WarehouseID:  w.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ItemInStock, it.Status)
	assert.True(t, strings.HasPrefix(it.QRCode, "IT-"))
	assert.Len(t, it.QRCode, 11)

	// Duplicate serial number is rejected.
	_, err = r.CreateItem(ctx, CreateItemInput{
		Name:         "Angle Grinder B",
		SerialNumber: &serial,
		Category:     "Power Tools",
		WarehouseID:  w.ID,
	})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateItemValidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	w := seedWarehouse(t, r)

	_, err := r.CreateItem(ctx, CreateItemInput{Name: "X", Category: "Power Tools", WarehouseID: w.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = r.CreateItem(ctx, CreateItemInput{Name: "Drill", Category: "T", WarehouseID: w.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	bad := -1.0
	_, err = r.CreateItem(ctx, CreateItemInput{Name: "Drill", Category: "Power Tools", Value: &bad, WarehouseID: w.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = r.CreateItem(ctx, CreateItemInput{Name: "Drill", Category: "Power Tools", WarehouseID: "missing"})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateItemNeverTouchesStatus(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)
	due := time.Now().UTC().Add(24 * time.Hour)

	_, err := r.CheckoutItem(ctx, CheckoutInput{
		ItemID: it.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &due,
	})
	require.NoError(t, err)

	name := "Cordless Drill 18V"
	upd, err := r.UpdateItem(ctx, it.ID, UpdateItemInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, upd.Name)
	assert.Equal(t, models.ItemInUse, upd.Status)
}

func TestListItems(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r)
	w := seedWarehouse(t, r)

	drill := seedItem(t, r, w.ID)
	_, err := r.CreateItem(ctx, CreateItemInput{
		Name:        "Laser Level",
		Category:    "Measuring",
		Brand:       "Leica",
		WarehouseID: w.ID,
	})
	require.NoError(t, err)

	due := time.Now().UTC().Add(24 * time.Hour)
	_, err = r.CheckoutItem(ctx, CheckoutInput{
		ItemID: drill.ID, UserID: u.ID, Destination: "Site A", ReturnDate: &due,
	})
	require.NoError(t, err)

	all, err := r.ListItems(ctx, ItemsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	// The checked-out row carries its holder.
	var row *ItemRow
	for i := range all.Items {
		if all.Items[i].ID == drill.ID {
			row = &all.Items[i]
		}
	}
	require.NotNil(t, row)
	assert.Equal(t, models.ItemInUse, row.Status)
	require.NotNil(t, row.HolderName)
	assert.Equal(t, u.Name, *row.HolderName)
	assert.False(t, row.Overdue)

	byStatus, err := r.ListItems(ctx, ItemsQuery{Status: string(models.ItemInStock)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byStatus.Total)

	bySearch, err := r.ListItems(ctx, ItemsQuery{Q: "laser"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, bySearch.Total)
	assert.Equal(t, "Laser Level", bySearch.Items[0].Name)

	byBrand, err := r.ListItems(ctx, ItemsQuery{Brand: "Leica"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byBrand.Total)
}

func TestItemCategoriesAndBrands(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	w := seedWarehouse(t, r)

	seedItem(t, r, w.ID)
	_, err := r.CreateItem(ctx, CreateItemInput{
		Name: "Laser Level", Category: "Measuring", Brand: "Leica", WarehouseID: w.ID,
	})
	require.NoError(t, err)
	_, err = r.CreateItem(ctx, CreateItemInput{
		Name: "Tape Measure", Category: "Measuring", WarehouseID: w.ID,
	})
	require.NoError(t, err)

	cats, err := r.ItemCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Measuring", "Power Tools"}, cats)

	brands, err := r.ItemBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Leica"}, brands, "blank brands are skipped")
}

func TestFindItemByQRCode(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	w := seedWarehouse(t, r)
	it := seedItem(t, r, w.ID)

	got, err := r.FindItemByQRCode(ctx, it.QRCode)
	require.NoError(t, err)
	assert.Equal(t, it.ID, got.ID)

	_, err = r.FindItemByQRCode(ctx, "IT-NOPENOPE")
	assert.Equal(t, KindNotFound, KindOf(err))
}
