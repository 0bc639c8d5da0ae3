package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv pulls a local .env file into the process environment when present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}
