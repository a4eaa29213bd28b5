package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"depotrack/app"
	"depotrack/db"
	"depotrack/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Srv struct {
	Repo    *db.Repo
	AppSess *session.AppSessionStore
	Cfg     app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:    db.NewRepo(a.DB),
		AppSess: a.AppSessions(),
		Cfg:     a.Config,
	}
}

// --- session helpers ---

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID, ip, ua string) error {
	_ = s.Repo.TouchUserLogin(ctx, userID, ip, ua) // bookkeeping only
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}

func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// --- response envelope ---

func respondSuccess(c *gin.Context, status int, data interface{}, message string) {
	body := app.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError maps the error taxonomy to fixed HTTP statuses:
// validation and invalid-state 422, conflict 409, not-found 404,
// anything unclassified 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch db.KindOf(err) {
	case db.KindValidation, db.KindInvalidState:
		status = http.StatusUnprocessableEntity
	case db.KindConflict:
		status = http.StatusConflict
	case db.KindNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, app.H{"success": false, "error": err.Error()})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, app.H{"success": false, "error": msg})
}

func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, app.H{"success": false, "error": "forbidden"})
}

// pagination block mirrored on every list response
type pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	PerPage     int   `json:"perPage"`
}

func paginate(total int64, page, size int) pagination {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	pages := int((total + int64(size) - 1) / int64(size))
	return pagination{CurrentPage: page, TotalPages: pages, TotalCount: total, PerPage: size}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return page, size
}
