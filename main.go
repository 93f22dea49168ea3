package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"lightimer/internal/cli"
)

func main() {
	// A local .env may set LIGHTIMER_CONFIG
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
