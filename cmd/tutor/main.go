package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/verlato/mathtutor/internal/buildinfo"
	"github.com/verlato/mathtutor/internal/logging"
	"github.com/verlato/mathtutor/internal/tutor/cli"
	"github.com/verlato/mathtutor/internal/tutor/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
