package app

import (
	"net/http"

	"depotrack/db"
	"depotrack/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// AuthRequired resolves the session cookie to a user and stores the
// identity in the request context.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"success": false, "error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"success": false, "error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"success": false, "error": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("userName", u.Name)
		c.Set("isAdmin", u.Admin())
		c.Next()
	}
}

// AdminOnly gates a route to admin users; run after AuthRequired.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if admin, ok := c.Get("isAdmin"); !ok || admin != true {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"success": false, "error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, set by AuthRequired.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get("userID")
	id, _ := v.(string)
	return id
}

// IsAdmin reports whether the authenticated user has the admin role.
func IsAdmin(c *gin.Context) bool {
	v, _ := c.Get("isAdmin")
	admin, _ := v.(bool)
	return admin
}
