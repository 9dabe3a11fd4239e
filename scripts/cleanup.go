// 手动触发存储清理脚本
//
// 该功能已通过 POST /cleanup 暴露在主应用中。此脚本用于在服务器不运行时
// 手动清理，例如定时任务或存储配额告警后的一次性处理。
//
// 用法: go run scripts/cleanup.go

package main

import (
	"context"
	"log"

	"brainbee_backend/internal/config"
	"brainbee_backend/internal/store"
	"brainbee_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	var remote store.RemoteStore
	switch cfg.Storage.Type {
	case "minio":
		remote, err = store.NewMinioRemoteStore(&cfg.Storage)
	case "oss":
		remote, err = store.NewOSSRemoteStore(&cfg.Storage)
	default:
		log.Fatal("远端存储未配置，无需清理")
	}
	if err != nil {
		log.Fatalf("远端存储初始化失败: %v", err)
	}

	resilient := store.NewResilientStore(remote, store.NewMemoryStore(), "memory", cfg.Quiz, cfg.Storage.Timeout())

	deleted, err := resilient.Cleanup(context.Background(), cfg.Session.Retention())
	if err != nil {
		log.Fatalf("清理未完成: %v", err)
	}
	log.Printf("清理完成，删除 %d 个过期对象", deleted)
}
