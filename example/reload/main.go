// SPDX-License-Identifier: MIT

// Command reload is a minimal devreload demo: it watches the current
// directory and exits with code 3 when a Go file changes, so a shell
// loop can rebuild and restart it.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/go-strut/strut/devreload"
	"github.com/go-strut/strut/log"
)

func main() {
	dirs := pflag.StringSlice("dir", []string{"."}, "directories to watch")
	pflag.Parse()

	log.Configure(log.Config{Service: "strut-reload"})
	logger := log.WithComponent("reload")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := devreload.New(devreload.Config{
		Dirs:       *dirs,
		Extensions: []string{".go"},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create watcher")
	}
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("watcher failed")
	}
}
