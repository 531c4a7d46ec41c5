package main

import (
	"fmt"
	"os"

	"gas-deposit/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
