// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Program jfmt formats JSON documents.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/creachadair/jfmt/internal/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command.SetColor(os.Stderr)
	if err := command.Command().Run(ctx, os.Args); err != nil {
		if !errors.Is(err, command.ErrFailed) {
			command.Error(os.Stderr, "%v", err)
		}
		stop()
		os.Exit(1)
	}
}
