package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file when present; real deployments set the
// environment directly.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}
}
