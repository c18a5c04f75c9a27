package main

import (
	"os"

	"github.com/cltl/micro-portraits/internal/config"
	"github.com/cltl/micro-portraits/internal/server"
	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	cfg, err := config.Load("")
	if err != nil {
		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{}))
		logger.Error("[Server] Invalid configuration", "err", err)
		os.Exit(1)
	}

	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  cfg.Log.Debug,
		Prefix: "server",
	}))
	defer logger.Close()

	server.Init(cfg)
}
