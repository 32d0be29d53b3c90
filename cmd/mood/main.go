// ABOUTME: Entry point for the mood binary.
// ABOUTME: Loads .env overrides and executes the root Cobra command.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
