// @title Brain Bee Quiz API
// @version 1.0
// @description Brain Bee 训练测验服务：AI 出题、判题与会话历史。

// @host localhost:8080
// @BasePath /

package main

import (
	"log"

	"brainbee_backend/internal/app"
	"brainbee_backend/internal/config"
	"brainbee_backend/pkg/configwatcher"
	"brainbee_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		application.ApplyConfig(newCfg)
	})

	application.Run()
}
