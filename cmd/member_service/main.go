package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"prepconnect_service/internal/member/app"
	"prepconnect_service/internal/member/domain"
	"prepconnect_service/internal/member/repository"
	"prepconnect_service/internal/member/router"
	"prepconnect_service/pkg/config"
	"prepconnect_service/pkg/database"
	"prepconnect_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MemberService, config.EnvConfig.MemberServiceLogPath)
	cfg := config.LoadConfig[config.Member](config.EnvConfig.MemberService, config.EnvConfig.MemberServiceYAMLPath)

	// 1. 建立 PostgreSQL 連線 (帳號)
	pgConnStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgConnStr,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to database after retries",
			zap.String("address", fmt.Sprintf("[%s]", pgConnStr)),
			zap.Error(err),
		)
	}
	defer pool.Close()

	// 2. 建立 Redis 連線 (session)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// 3. 建立 KV backend (profile 目錄)
	ctx := context.Background()
	kv, cleanup := newKVStore(ctx, cfg.KV, redisClient)
	defer cleanup()

	// 4. 初始化 Repository 與 UseCase
	accountRepo := repository.NewAccountRepository(pool)
	profileRepo := repository.NewKVProfileRepository(kv)
	sessionRepo := database.NewRedisRepository[domain.UserSession](redisClient)

	memberUC := app.NewMemberUseCase(accountRepo, profileRepo, cfg.SessionTTL, sessionRepo, config.EnvConfig.MemberService)

	// 5. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MemberServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// 注册路由
	router.RegisterRoutes(r, app.NewMemberHandler(memberUC))

	// Listen
	port := ":" + cfg.Port
	log.Printf("Member Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}

// newKVStore 依設定挑 KV backend, redis 時直接共用 session 的 client
func newKVStore(ctx context.Context, kvCfg config.KVConfig, redisClient *redis.Client) (database.KVStore, func()) {
	switch kvCfg.Backend {
	case "redis":
		return database.NewRedisKVStore(redisClient), func() {}

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
