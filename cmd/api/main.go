package main

import (
	"pitchmate-backend/internal/bootstrap"
	"pitchmate-backend/internal/shared/config"
	"pitchmate-backend/internal/shared/server"
	"pitchmate-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Fatal("bootstrap failed", map[string]any{"error": err.Error()})
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("starting API server", map[string]any{"addr": addr, "env": cfg.Env})

	if err := app.Router.Run(addr); err != nil {
		telemetry.Fatal("server error", map[string]any{"error": err.Error()})
	}
}
