package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/konf/cli"
	"github.com/ardnew/konf/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:])
	if err != nil {
		log.Error("run failed", slog.Any("error", err)) // uses LogValue
		os.Exit(1)
	}
}
