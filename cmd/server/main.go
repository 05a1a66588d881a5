package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/cache"
	"github.com/moodlog/internal/config"
	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/handler"
	"github.com/moodlog/internal/logging"
	"github.com/moodlog/internal/metrics"
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/router"
	"github.com/moodlog/internal/scoring"
	"github.com/moodlog/internal/service"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	logger, closer := logging.Setup(logging.Options{Service: "moodlog", Env: cfg.AppEnv, File: cfg.LogFile})
	defer closer.Close()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure super root user: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("falling back to UTC", slog.String("error", err.Error()))
	}
	calendar := scoring.NewCalendar(loc)

	kv, closeCache, err := openCache(context.Background(), cfg, db.DB)
	if err != nil {
		log.Fatalf("failed to open %s cache: %v", cfg.CacheBackend, err)
	}
	defer closeCache()

	m := metrics.New()
	records := remote.NewDBStore(db.DB, calendar)
	// 每个用户按资料中的时区划分日期，未设置时使用 TIMEZONE
	userSessions := service.NewSessions(func(userID string) *service.RecordStore {
		return service.NewRecordStore(userID, records, kv,
			service.WithCalendar(records.CalendarFor(context.Background(), userID)),
			service.WithMetrics(m),
		)
	})

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, records, userSessions, calendar)
	r := router.SetupRouter(cfg.SessionSecret, api, m)

	logger.Info("server starting",
		slog.String("addr", cfg.ListenAddr),
		slog.String("cache", cfg.CacheBackend),
		slog.String("timezone", calendar.Location().String()),
	)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

// openCache 按配置选择会话缓存后端
func openCache(ctx context.Context, cfg config.AppConfig, gdb *gorm.DB) (cache.Cache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "moodlog:",
		})
		if err != nil {
			return nil, noop, err
		}
		return rc, rc.Close, nil
	case config.CacheBackendBolt:
		bc, err := cache.OpenBoltCache(cfg.BoltPath, nil)
		if err != nil {
			return nil, noop, err
		}
		return bc, bc.Close, nil
	case config.CacheBackendMemory:
		return cache.NewMemory(), noop, nil
	default:
		return cache.NewGormCache(gdb), noop, nil
	}
}
