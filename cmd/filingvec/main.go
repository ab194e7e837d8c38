// Command filingvec indexes financial filings and searches them semantically.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/cli"
)

func main() {
	// A .env file in the working directory may supply provider API keys.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
