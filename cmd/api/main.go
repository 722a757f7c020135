package main

import (
	"log"

	"interview-coach/internal/bootstrap"
	"interview-coach/internal/shared/config"
	"interview-coach/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app := bootstrap.Build(cfg)
	r := server.NewRouter(cfg,
		app.ConversationsHandler,
		app.UploadsHandler,
		app.SpeechHandler,
	)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
