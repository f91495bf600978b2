package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"prepconnect_service/internal/file/app"
	"prepconnect_service/internal/file/repository"
	"prepconnect_service/internal/file/router"
	"prepconnect_service/pkg/config"
	"prepconnect_service/pkg/database"
	"prepconnect_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.FileService, config.EnvConfig.FileServiceLogPath)
	cfg := config.LoadConfig[config.File](config.EnvConfig.FileService, config.EnvConfig.FileServiceYAMLPath)

	// 1. 建立 MinIO 連線 (檔案內容)
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to minio after retries", zap.Error(err))
	}

	// 2. 建立 KV backend (metadata)
	ctx := context.Background()
	kv, cleanup := newKVStore(ctx, cfg.KV, cfg.Redis)
	defer cleanup()

	// 3. 初始化 Repository 與 UseCase
	fileStore := repository.NewKVFileStore(kv)
	fileUC := app.NewFileUseCase(fileStore, minioClient)

	// 4. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.FileServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// 注册路由
	router.RegisterRoutes(r, app.NewFileHandler(fileUC))

	// Listen
	port := ":" + cfg.Port
	log.Printf("File Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}

// newKVStore 依設定挑 KV backend, 回傳 store 與收尾函數
func newKVStore(ctx context.Context, kvCfg config.KVConfig, redisCfg config.RedisConfig) (database.KVStore, func()) {
	switch kvCfg.Backend {
	case "redis":
		masterName, sentinel := config.GetRedisSetting()
		redisClient, err := database.NewRedisClient(masterName, sentinel, redisCfg.RedisDB)
		if err != nil {
			logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
		}
		return database.NewRedisKVStore(redisClient), func() { redisClient.Close() }

	case "mongo":
		uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", kvCfg.Mongo.User, kvCfg.Mongo.Password, kvCfg.Mongo.Host, kvCfg.Mongo.Port)
		mongo, err := database.NewMongoDB(ctx,
			database.Connection{
				ConnectStr:    uri,
				RetryCount:    kvCfg.Mongo.RetryCount,
				RetryInterval: time.Duration(kvCfg.Mongo.RetryInterval),
			},
			kvCfg.Mongo.Database)
		if err != nil {
			logger.Log.Fatal("Unable to connect to mongoDB database after retries", zap.Error(err))
		}
		return database.NewMongoKVStore(mongo.Database, "kv_records"), func() { mongo.Close(ctx) }

	case "memory":
		logger.Log.Warn("using in-memory KV backend, data is lost on restart")
		return database.NewMemoryKVStore(), func() {}

	default:
		logger.Log.Fatal(fmt.Sprintf("unknown kv backend : %s", kvCfg.Backend))
		return nil, nil
	}
}
