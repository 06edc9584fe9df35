package main

import (
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/khushalsehrawat/ecomm/internal/config"
	"github.com/khushalsehrawat/ecomm/internal/server"
	"github.com/khushalsehrawat/ecomm/pkg/log"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		panic(err)
	}

	if err := log.Init(log.Options{
		Level:      cfg.Log.Level,
		Mode:       cfg.Log.Mode,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		panic(err)
	}
	defer log.Sync()

	app := iris.New()
	server.RegisterRoutes(app, cfg)

	addr := cfg.Server.Addr()
	zap.L().Info("api server listening", zap.String("addr", addr))
	if err := app.Run(
		iris.Addr(addr),
		iris.WithOptimizations,
		iris.WithoutServerError(iris.ErrServerClosed),
	); err != nil {
		zap.L().Fatal("api server exited", zap.Error(err))
	}
}
