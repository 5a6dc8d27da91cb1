package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/wellfetch/withings-cli/internal/adapters/driving/cli"
)

func main() {
	// Pick up WITHINGS_* variables from a local .env file if one exists.
	// The CLI works from the real environment otherwise.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
