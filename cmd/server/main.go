package main

import (
	"github.com/sirupsen/logrus"

	_ "noteboard/docs"
	"noteboard/internal/config"
	"noteboard/internal/server"
)

// @title           Noteboard API
// @version         1.0
// @description     API for managing collaborative note boards.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Server initialization failed")
	}

	s.Run()
}
