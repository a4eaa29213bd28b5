package app

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"depotrack/db"
	"depotrack/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Shorthand aliases for handlers.
type Ctx = gin.Context
type H = gin.H

// App aggregates the service dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	appSess *session.AppSessionStore
}

// Config is read from environment variables.
type Config struct {
	RedisAddr         string
	RedisPwd          string
	WebOrigin         string
	BaseURL           string // absolute URL QR codes point back to
	SessionTTL        time.Duration
	SweepInterval     time.Duration
	BootstrapEmail    string
	BootstrapPassword string
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if s := os.Getenv("SESSION_TTL_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
	}
	sweep := 10 * time.Minute
	if s := os.Getenv("SWEEP_INTERVAL_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			sweep = time.Duration(n) * time.Second
		}
	}

	origin := get("WEB_ORIGIN", "http://localhost:5173")
	return Config{
		RedisAddr:         get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:          os.Getenv("REDIS_PASSWORD"),
		WebOrigin:         origin,
		BaseURL:           get("BASE_URL", origin),
		SessionTTL:        ttl,
		SweepInterval:     sweep,
		BootstrapEmail:    os.Getenv("ADMIN_EMAIL"),
		BootstrapPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}
