package controllers

import (
	"net/http"

	"depotrack/app"
	"depotrack/db"
	"depotrack/models"

	"github.com/gin-gonic/gin"
)

// UserController is admin-only; the router guards the whole group.
type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/v1/users
func (uc *UserController) List(c *gin.Context) {
	page, size := pageParams(c)
	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("search"), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	users := make([]app.H, 0, len(res.Users))
	for i := range res.Users {
		users = append(users, userData(&res.Users[i]))
	}
	respondSuccess(c, http.StatusOK, app.H{
		"users":      users,
		"pagination": paginate(res.Total, page, size),
	}, "")
}

// GET /api/v1/users/:id
func (uc *UserController) Get(c *gin.Context) {
	u, err := uc.Repo.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, userData(u), "")
}

// POST /api/v1/users
func (uc *UserController) Create(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	u, err := uc.Repo.CreateUser(c.Request.Context(), db.CreateUserInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     models.Role(in.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, userData(u), "user created")
}

// PUT /api/v1/users/:id
func (uc *UserController) Update(c *gin.Context) {
	var in struct {
		Name     *string      `json:"name"`
		Email    *string      `json:"email"`
		Password *string      `json:"password"`
		Role     *models.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	u, err := uc.Repo.UpdateUser(c.Request.Context(), c.Param("id"), db.UpdateUserInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, userData(u), "user updated")
}

// DELETE /api/v1/users/:id
//
// Refuses self-delete, and revokes the target's sessions so a deleted
// account cannot keep an authenticated cookie alive.
func (uc *UserController) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == app.CurrentUserID(c) {
		respondBadRequest(c, "cannot delete your own account")
		return
	}
	ctx := c.Request.Context()
	if err := uc.Repo.DeleteUserByID(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	_ = uc.AppSess.RevokeAllForUser(ctx, id)
	respondSuccess(c, http.StatusOK, nil, "user deleted")
}
