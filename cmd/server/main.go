package main

import (
	"log"

	"taskflow/internal/config"
	"taskflow/internal/logger"
	"taskflow/internal/server"
)

// @title           Taskflow API
// @version         1.0
// @description     Users own projects, projects contain tasks, tasks carry comments.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	s, err := server.Init(cfg, zl)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
