// Command shipdash builds the daily shipment dashboard from a CSV export.
//
// Usage:
//
//	shipdash build   [--input file] [--secondary file] [--out-dir dir] [--formats html,xlsx,pdf]
//	shipdash serve   [--input file]
//	shipdash inspect [--input file]
//
// Settings come from SHIPDASH_CONFIG (YAML), a .env file and the environment;
// flags override them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/shipdash/internal/core"
	"github.com/JonMunkholm/shipdash/internal/logging"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // usage, configuration, render or write failure
	exitLoad    = 2 // *core.LoadError
	exitEmpty   = 3 // *core.EmptyDatasetError
)

func main() {
	// .env never overrides variables already set in the environment.
	envErr := godotenv.Load()

	// Until the configuration is loaded, log from the environment alone.
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if envErr == nil {
		slog.Debug("loaded .env file")
	}
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		ue := core.NewUserError(err)
		fmt.Fprintln(stderr, core.FormatUserError(ue))
		fmt.Fprintf(stderr, "  cause: %v\n", ue.Technical)
		return exitCode(ue)
	}
	return exitOK
}

func exitCode(err error) int {
	var le *core.LoadError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &le):
		return exitLoad
	case errors.Is(err, core.ErrEmptyDataset):
		return exitEmpty
	default:
		return exitFailure
	}
}
