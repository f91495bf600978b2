package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	connectapp "prepconnect_service/internal/connect/app"
	connectrepo "prepconnect_service/internal/connect/repository"
	"prepconnect_service/internal/message/app"
	"prepconnect_service/internal/message/repository"
	"prepconnect_service/internal/message/router"
	memberrepo "prepconnect_service/internal/member/repository"
	postapp "prepconnect_service/internal/post/app"
	postrepo "prepconnect_service/internal/post/repository"
	"prepconnect_service/pkg/config"
	"prepconnect_service/pkg/database"
	"prepconnect_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MessageService, config.EnvConfig.MessageServiceLogPath)
	cfg := config.LoadConfig[config.Message](config.EnvConfig.MessageService, config.EnvConfig.MessageServiceYAMLPath)

	// 1. 建立 KV backend (redis / mongo / memory)
	ctx := context.Background()
	kv, redisClient, cleanup := newKVStore(ctx, cfg.KV, cfg.Redis)
	defer cleanup()

	// 2. 初始化 Repository
	store := repository.NewKVMessageStore(kv, cfg.MessageTTL)
	requestStore := connectrepo.NewKVRequestStore(kv)
	postStore := postrepo.NewKVPostStore(kv)
	// post 的作者快照讀共用 KV namespace 裡的 profile record
	profileRepo := memberrepo.NewKVProfileRepository(kv)

	// 3. redis 有的話順便接 Pub/Sub 推播
	var (
		pubsub    *repository.RedisPubSub
		publisher repository.Publisher
	)
	if redisClient != nil {
		pubsub = repository.NewRedisPubSub(redisClient)
		publisher = pubsub
	}

	// 4. 初始化 UseCases
	messageUC := app.NewMessageUseCase(store, publisher)
	requestUC := connectapp.NewRequestUseCase(requestStore)
	postUC := postapp.NewPostUseCase(postStore, profileRepo)

	// 5. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MessageServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// 注册路由
	var wsHandler *app.MessageWebsocketHandler
	if pubsub != nil {
		wsHandler = app.NewMessageWebsocketHandler(pubsub)
	}
	router.RegisterRoutes(r, cfg.Polling, app.NewMessageHandler(messageUC), connectapp.NewRequestHandler(requestUC), postapp.NewPostHandler(postUC), wsHandler)

	// Listen
	port := ":" + cfg.Port
	log.Printf("Message Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}

// newKVStore 依設定挑 KV backend, 回傳 store 與收尾函數
// backend 是 redis 時順便把 client 交回去給 Pub/Sub 共用
func newKVStore(ctx context.Context, kvCfg config.KVConfig, redisCfg config.RedisConfig) (database.KVStore, *redis.Client, func()) {
	switch kvCfg.Backend {
	case "redis":
		masterName, sentinel := config.GetRedisSetting()
		redisClient, err := database.NewRedisClient(masterName, sentinel, redisCfg.RedisDB)
		if err != nil {
			logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
		}
		return database.NewRedisKVStore(redisClient), redisClient, func() { redisClient.Close() }

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
			logger.Log.Fatal(
				"Unable to connect to mongoDB database after retries",
				zap.String("address", fmt.Sprintf("[%s]", uri)),
				zap.Error(err),
			)
		}
		return database.NewMongoKVStore(mongo.Database, "kv_records"), nil, func() { mongo.Close(ctx) }

	case "memory":
		logger.Log.Warn("using in-memory KV backend, data is lost on restart")
		return database.NewMemoryKVStore(), nil, func() {}

	default:
		logger.Log.Fatal(fmt.Sprintf("unknown kv backend : %s", kvCfg.Backend))
		return nil, nil, nil
	}
}
