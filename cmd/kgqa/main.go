package main

import (
	"context"
	"os/signal"
	"syscall"

	"kgqa/internal/util"
	"kgqa/pkg/logger"
	"kgqa/pkg/logger/console"
)

func main() {
	util.LoadEnv()
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		Prefix: "kgqa",
	}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Fatal("Command failed", "err", err)
	}
}
