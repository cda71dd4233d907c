package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"techpulse/internal/app"
)

//go:embed all:web
var frontendFiles embed.FS

func main() {
	frontend, err := fs.Sub(frontendFiles, "web")
	if err != nil {
		slog.Error("failed to load embedded frontend", "error", err)
		os.Exit(1)
	}

	application, err := app.NewApplication(frontend)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		application.Logger.Error("application failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
