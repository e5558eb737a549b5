package main

import (
	"github.com/sirupsen/logrus"

	"noteboard/internal/config"
	"noteboard/internal/relay"
)

func main() {
	cfg := config.Load()

	if cfg.RelaySecret == "" {
		logrus.Fatal("RELAY_SECRET must be set")
	}

	s := relay.NewServer(cfg.RelaySecret)
	s.Run(cfg.RelayPort)
}
