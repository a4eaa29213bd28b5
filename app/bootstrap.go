package app

import (
	"context"
	"log"

	"depotrack/db"
	"depotrack/models"
)

// BootstrapFirstAdmin creates the initial admin account from the
// environment when the users table is empty.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountUsers(ctx)
	if err != nil {
		log.Printf("bootstrap: counting users: %v", err)
		return
	}
	if n > 0 {
		return
	}

	u, err := repo.CreateUser(ctx, db.CreateUserInput{
		Name:     "Administrator",
		Email:    cfg.BootstrapEmail,
		Password: cfg.BootstrapPassword,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		log.Printf("bootstrap: creating admin failed: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] No users found, created admin account for %s", u.Email)
}
