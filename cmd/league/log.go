package main

import (
	"log/slog"
	"os"

	"github.com/alex65536/league/internal/util/slogx"
	"github.com/alex65536/league/internal/util/style"
)

func makeLogger(o *Options) *slog.Logger {
	level := slog.LevelInfo
	if o.Debug {
		level = slog.LevelDebug
	}
	return slogx.New(os.Stderr, o.JSON || !style.IsStderrTTY(), level)
}
