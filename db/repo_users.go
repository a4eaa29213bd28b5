package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"depotrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

func (r *Repo) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validation("name is required")
	}
	email := models.NormalizeEmail(in.Email)
	if email == "" {
		return nil, validation("email is required")
	}
	if len(in.Password) < 8 {
		return nil, validation("password must be at least 8 characters")
	}
	if in.Role == "" {
		in.Role = models.RoleStaff
	}
	if !in.Role.Valid() {
		return nil, validation("role must be staff or admin")
	}

	u := &models.User{ID: uuid.NewString(), Name: in.Name, Email: email, Role: in.Role}
	if err := u.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if duplicate(err) {
			return nil, validation("email is already taken")
		}
		return nil, err
	}
	return u, nil
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *models.Role
}

func (r *Repo) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	u, err := r.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, validation("name cannot be empty")
		}
		u.Name = *in.Name
	}
	if in.Email != nil {
		email := models.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, validation("email cannot be empty")
		}
		u.Email = email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, validation("role must be staff or admin")
		}
		u.Role = *in.Role
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, validation("password must be at least 8 characters")
		}
		if err := u.SetPassword(*in.Password); err != nil {
			return nil, err
		}
	}
	if err := r.DB.WithContext(ctx).Save(u).Error; err != nil {
		if duplicate(err) {
			return nil, validation("email is already taken")
		}
		return nil, err
	}
	return u, nil
}

func (r *Repo) DeleteUserByID(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("user not found")
	}
	return nil
}

type ListUsersResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	page, size = normalizePage(page, size)

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *Repo) TouchUserLogin(ctx context.Context, userID, ip, ua string) error {
	now := time.Now().UTC()
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"last_seen_at":  now,
			"sign_in_count": gorm.Expr("COALESCE(sign_in_count, 0) + 1"),
			"last_login_ip": ip,
			"last_login_ua": ua,
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", time.Now().UTC()).Error
}
