package main

import (
	"github.com/joho/godotenv"

	"github.com/emiliopalmerini/enrollwatch/internal/cli"
)

func main() {
	// A missing .env is fine; configuration falls back to the environment.
	_ = godotenv.Load()

	cli.Execute()
}
