package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gnames/screenload/cmd"
	"github.com/lmittmann/tint"
)

func main() {
	handle := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(handle)
	cmd.Execute()
}
