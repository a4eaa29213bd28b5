package controllers

import (
	"net/http"

	"depotrack/app"
	"depotrack/models"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /api/v1/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil || !u.CheckPassword(in.Password) {
		c.JSON(http.StatusUnauthorized, app.H{"success": false, "error": "invalid email or password"})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, userData(u), "logged in")
}

// POST /api/v1/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	ac.clearAppCookie(c.Writer)
	respondSuccess(c, http.StatusOK, nil, "logged out")
}

// GET /api/v1/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	u, err := ac.Repo.FindUserByID(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, userData(u), "")
}

func userData(u *models.User) app.H {
	return app.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
		"permissions": app.H{
			"canManageUsers":      u.Admin(),
			"canViewReports":      u.Admin(),
			"canManageWarehouses": u.Admin(),
			"canManageItems":      true,
			"canScanQRCodes":      true,
		},
	}
}
