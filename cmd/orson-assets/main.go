// Command orson-assets resolves the site's media slots to files on disk and
// writes the asset manifest.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/orson-vision/orson-assets/internal/adapters/driving/cli"
)

func main() {
	loadEnv()
	cli.SetBootstrapper(bootstrap)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

// loadEnv reads .env.local then .env. Variables already set in the
// environment are never overridden, and missing files are ignored.
func loadEnv() {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}
}
