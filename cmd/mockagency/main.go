package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/vcxkit/agent/internal/mockagency"
)

// A stand-in agency for local development: bring it up, point
// VCX_AGENCY_URL at it, and the bootstrap flow runs end to end
// without a real agency.
func main() {
	addr := os.Getenv("MOCK_AGENCY_ADDR")
	if addr == "" {
		addr = ":9000"
	}

	failures := 0
	if v := os.Getenv("MOCK_AGENCY_FAILURES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fmt.Fprintf(os.Stderr, "MOCK_AGENCY_FAILURES must be a non-negative integer, got %q\n", v)
			os.Exit(1)
		}
		failures = n
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	srv := mockagency.New(mockagency.Options{Failures: failures}, logger)

	logger.Info("mock agency listening", "addr", addr, "startup_failures", failures)
	if err := srv.Run(addr); err != nil {
		logger.Error("mock agency stopped", "err", err)
		os.Exit(1)
	}
}
