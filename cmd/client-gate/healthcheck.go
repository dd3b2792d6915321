package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// healthcheckCmd is the Docker healthcheck for the distroless image. It reads
// only PORT and skips .env loading.
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe the local /health endpoint",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		return runHealthcheck()
	},
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
