package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"depotrack/app"
	"depotrack/db"
	"depotrack/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestSrv(t *testing.T) *Srv {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return &Srv{
		Repo: db.NewRepo(conn),
		Cfg:  app.Config{BaseURL: "http://localhost:5173"},
	}
}

// asUser stands in for the auth middleware in tests.
func asUser(u *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", u.ID)
		c.Set("userName", u.Name)
		c.Set("isAdmin", u.Admin())
		c.Next()
	}
}

func testUser(t *testing.T, s *Srv, role models.Role) *models.User {
	t.Helper()
	u, err := s.Repo.CreateUser(context.Background(), db.CreateUserInput{
		Name:     "Test User",
		Email:    uuid.NewString() + "@example.com",
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func init() { gin.SetMode(gin.TestMode) }

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&db.Error{Kind: db.KindValidation, Msg: "bad"}, http.StatusUnprocessableEntity},
		{&db.Error{Kind: db.KindInvalidState, Msg: "bad"}, http.StatusUnprocessableEntity},
		{&db.Error{Kind: db.KindConflict, Msg: "bad"}, http.StatusConflict},
		{&db.Error{Kind: db.KindNotFound, Msg: "bad"}, http.StatusNotFound},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)
		assert.Equal(t, tc.want, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestPaginate(t *testing.T) {
	p := paginate(45, 2, 20)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.EqualValues(t, 45, p.TotalCount)
	assert.Equal(t, 20, p.PerPage)

	p = paginate(0, 0, 0)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 20, p.PerPage)
}
