// Package main provides the entry point for the cargo-protologic cargo subcommand.
package main

import (
	"context"
	"os"

	"github.com/protologic/cargo-protologic/internal/cli"
	"github.com/protologic/cargo-protologic/internal/signal"
)

// Set via ldflags at release time.
var (
	version = "" //nolint:gochecknoglobals // ldflags target
	commit  = "" //nolint:gochecknoglobals // ldflags target
	date    = "" //nolint:gochecknoglobals // ldflags target
)

func main() {
	os.Exit(run())
}

func run() int {
	handler := signal.NewHandler(context.Background())
	defer handler.Stop()
	defer cli.CloseLogFile()

	err := cli.Execute(handler.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if code := handler.ExitCode(); code != 0 {
		return code
	}
	return cli.ExitCodeForError(err)
}
