package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"depotrack/app"
	"depotrack/db"
	"depotrack/qr"

	"github.com/gin-gonic/gin"
)

type ScannerController struct{ *Srv }

func NewScannerController(s *Srv) *ScannerController {
	return &ScannerController{Srv: s}
}

// resolveCode looks a QR code up by its prefix and logs the scan.
func (sc *ScannerController) resolveCode(c *gin.Context, code string) (app.H, error) {
	ctx := c.Request.Context()
	userID := app.CurrentUserID(c)

	switch {
	case strings.HasPrefix(code, qr.ItemPrefix+"-"):
		it, err := sc.Repo.FindItemByQRCode(ctx, code)
		if err != nil {
			return nil, err
		}
		cur, err := sc.Repo.CurrentTransaction(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		_, _ = sc.Repo.LogScan(ctx, userID, code, "item", it.ID)
		return app.H{"type": "item", "item": it, "currentTransaction": cur}, nil
	case strings.HasPrefix(code, qr.WarehousePrefix+"-"):
		w, err := sc.Repo.FindWarehouseByQRCode(ctx, code)
		if err != nil {
			return nil, err
		}
		stats, err := sc.Repo.WarehouseStatistics(ctx, w)
		if err != nil {
			return nil, err
		}
		_, _ = sc.Repo.LogScan(ctx, userID, code, "warehouse", w.ID)
		return app.H{"type": "warehouse", "warehouse": w, "statistics": stats}, nil
	default:
		return nil, db.ValidationError("unrecognized QR code format")
	}
}

// POST /api/v1/qr_scanner/scan
func (sc *ScannerController) Scan(c *gin.Context) {
	var in struct {
		QRCode string `json:"qrCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	data, err := sc.resolveCode(c, strings.TrimSpace(in.QRCode))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, data, "")
}

// POST /api/v1/qr_scanner/quick_action
//
// Item actions straight off a scan: checkout gets a seven day default
// return date when none is supplied.
func (sc *ScannerController) QuickAction(c *gin.Context) {
	var in struct {
		QRCode      string     `json:"qrCode" binding:"required"`
		Action      string     `json:"action" binding:"required"`
		Destination string     `json:"destination"`
		ReturnDate  *time.Time `json:"returnDate"`
		Notes       string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	userID := app.CurrentUserID(c)
	it, err := sc.Repo.FindItemByQRCode(ctx, strings.TrimSpace(in.QRCode))
	if err != nil {
		respondError(c, err)
		return
	}
	_, _ = sc.Repo.LogScan(ctx, userID, it.QRCode, "item", it.ID)

	switch in.Action {
	case "checkout":
		returnDate := in.ReturnDate
		if returnDate == nil {
			d := time.Now().UTC().Add(7 * 24 * time.Hour)
			returnDate = &d
		}
		destination := in.Destination
		if strings.TrimSpace(destination) == "" {
			destination = "Field use"
		}
		t, err := sc.Repo.CheckoutItem(ctx, db.CheckoutInput{
			ItemID:      it.ID,
			UserID:      userID,
			Destination: destination,
			ReturnDate:  returnDate,
			Notes:       in.Notes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusCreated, t, "item checked out")
	case "checkin":
		t, err := sc.Repo.CheckinItem(ctx, db.CheckinInput{
			ItemID: it.ID,
			UserID: userID,
			Notes:  in.Notes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusCreated, t, "item checked in")
	case "info":
		cur, err := sc.Repo.CurrentTransaction(ctx, it.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		history, err := sc.Repo.ItemHistory(ctx, it.ID, 10)
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, app.H{
			"item":               it,
			"currentTransaction": cur,
			"history":            history,
		}, "")
	default:
		respondBadRequest(c, "action must be checkout, checkin or info")
	}
}

// GET /api/v1/qr_scanner/history
func (sc *ScannerController) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	scans, err := sc.Repo.RecentScans(c.Request.Context(), app.CurrentUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, app.H{"scans": scans}, "")
}

// POST /api/v1/qr_scanner/bulk_scan
//
// Resolves a batch of codes in one call; per-code failures come back in
// the results list instead of failing the whole request.
func (sc *ScannerController) BulkScan(c *gin.Context) {
	var in struct {
		QRCodes []string `json:"qrCodes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if len(in.QRCodes) == 0 || len(in.QRCodes) > 100 {
		respondBadRequest(c, "qrCodes must contain between 1 and 100 codes")
		return
	}

	results := make([]app.H, 0, len(in.QRCodes))
	for _, code := range in.QRCodes {
		code = strings.TrimSpace(code)
		data, err := sc.resolveCode(c, code)
		if err != nil {
			results = append(results, app.H{"qrCode": code, "found": false, "error": err.Error()})
			continue
		}
		data["qrCode"] = code
		data["found"] = true
		results = append(results, data)
	}
	respondSuccess(c, http.StatusOK, app.H{"results": results}, "")
}
