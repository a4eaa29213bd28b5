package routes

import (
	"net/http"
	"time"

	"depotrack/app"
	"depotrack/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(a *app.App) {
	srv := controllers.GetSrv(a)

	auth := controllers.NewAuthController(srv)
	items := controllers.NewItemController(srv)
	txs := controllers.NewTransactionController(srv)
	warehouses := controllers.NewWarehouseController(srv)
	scanner := controllers.NewScannerController(srv)
	search := controllers.NewSearchController(srv)
	users := controllers.NewUserController(srv)
	reports := controllers.NewReportController(srv)

	a.Router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, app.H{"status": "ok"})
	})

	authMW := app.AuthRequired(a.AppSessions(), srv.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(srv.Repo, a.RDB, 5*time.Minute)

	v1 := a.Router.Group("/api/v1")

	v1.POST("/auth/login", auth.Login)
	v1.POST("/auth/logout", auth.Logout)

	authed := v1.Group("", authMW, seenMW)
	{
		authed.GET("/auth/me", auth.Me)

		i := authed.Group("/items")
		{
			i.GET("", items.List)
			i.GET("/categories", items.Categories)
			i.GET("/brands", items.Brands)
			i.GET("/:id", items.Get)
			i.POST("", adminMW, items.Create)
			i.PUT("/:id", adminMW, items.Update)
			i.DELETE("/:id", adminMW, items.Delete)
			i.POST("/:id/checkout", items.Checkout)
			i.POST("/:id/checkin", items.Checkin)
			i.POST("/:id/maintenance", items.SendToMaintenance)
			i.POST("/:id/maintenance/return", items.ReturnFromMaintenance)
			i.GET("/:id/qr_code", items.QRCodePNG)
			i.GET("/:id/qr_code_pdf", items.QRCodePDF)
		}

		t := authed.Group("/transactions")
		{
			t.GET("", txs.List)
			t.GET("/overdue", txs.Overdue)
			t.GET("/statistics", adminMW, txs.Statistics)
			t.GET("/:id", txs.Get)
			t.POST("", txs.Create)
			t.PATCH("/:id", txs.Update)
			t.POST("/:id/complete", txs.Complete)
			t.POST("/:id/cancel", txs.Cancel)
			t.POST("/:id/extend", txs.Extend)
		}

		w := authed.Group("/warehouses")
		{
			w.GET("", warehouses.List)
			w.GET("/:id", warehouses.Get)
			w.POST("", adminMW, warehouses.Create)
			w.PUT("/:id", adminMW, warehouses.Update)
			w.DELETE("/:id", adminMW, warehouses.Delete)
			w.GET("/:id/items", warehouses.Items)
			w.GET("/:id/qr_code", warehouses.QRCodePNG)
			w.GET("/:id/qr_code_pdf", warehouses.QRCodePDF)
		}

		sc := authed.Group("/qr_scanner")
		{
			sc.POST("/scan", scanner.Scan)
			sc.POST("/quick_action", scanner.QuickAction)
			sc.GET("/history", scanner.History)
			sc.POST("/bulk_scan", scanner.BulkScan)
		}

		s := authed.Group("/search")
		{
			s.GET("", search.Search)
			s.GET("/suggestions", search.Suggestions)
			s.GET("/filters", search.Filters)
			s.GET("/qr/:code", search.QRLookup)
		}

		u := authed.Group("/users", adminMW)
		{
			u.GET("", users.List)
			u.GET("/:id", users.Get)
			u.POST("", users.Create)
			u.PUT("/:id", users.Update)
			u.DELETE("/:id", users.Delete)
		}

		r := authed.Group("/reports", adminMW)
		{
			r.GET("/dashboard", reports.Dashboard)
			r.GET("/warehouse_occupancy", reports.WarehouseOccupancy)
			r.GET("/overdue_items", reports.OverdueItems)
			r.GET("/item_movements", reports.ItemMovements)
			r.GET("/export/pdf", reports.ExportPDF)
		}
	}
}
