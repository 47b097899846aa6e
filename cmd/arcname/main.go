package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Pick up GEMINI_API_KEY from a local .env when present.
	_ = godotenv.Load()

	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
