package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"depotrack/app"
	"depotrack/config"
	"depotrack/db"
	"depotrack/routes"
)

func main() {
	config.LoadEnv()

	a := app.MustNew()
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := db.NewRepo(a.DB)
	app.BootstrapFirstAdmin(ctx, a.Config, repo)
	app.StartOverdueSweeper(ctx, repo, a.Config.SweepInterval)

	routes.RegisterRoutes(a)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	if err := a.Router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
