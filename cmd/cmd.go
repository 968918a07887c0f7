// Package cmd provides CLI commands for the StackGuide backend.
//
// Commands:
//   - serve: HTTP API server (document upload, listing, feedback)
//   - version: build information
//
// Signal handling and graceful shutdown are implemented via context
// cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Therealjustindude/stack-guide/internal/log"
)

// Execute is the main entry point for the stackguide binary.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(log.New(log.Config{
		Level: level,
		JSON:  os.Getenv("STACKGUIDE_LOG_JSON") != "",
	}))

	if len(os.Args) < 2 {
		return runServe()
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("stackguide - StackGuide backend service")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  stackguide                 Start the HTTP API server (default: 127.0.0.1:8081)")
	fmt.Println("  stackguide serve [addr]    Start the HTTP API server on addr")
	fmt.Println("  stackguide --version       Show version information")
	fmt.Println("  stackguide --help          Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  STACKGUIDE_UPLOAD_DIR      Upload directory (default: ./uploads)")
	fmt.Println("  DATABASE_URL               Enable the feedback store (postgres://...)")
	fmt.Println("  DEBUG                      Enable debug logging")
	fmt.Println("  STACKGUIDE_LOG_JSON        Log in JSON format instead of text")
}
