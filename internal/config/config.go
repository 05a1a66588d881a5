package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 支持的本地缓存后端
const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
	CacheBackendBolt   = "bolt"
	CacheBackendMemory = "memory"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	SessionSecret     string
	GinMode           string
	AppEnv            string
	CacheBackend      string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	BoltPath          string
	Timezone          string
	LogFile           string
	SuperRootUserName string
	SuperRootPassword string
}

// Load 先尝试读取工作目录下的 .env，再从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 已存在的环境变量不会被 .env 覆盖。
func Load() AppConfig {
	_ = godotenv.Load()

	port := envOr("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	cacheBackend := strings.ToLower(envOr("CACHE_BACKEND", CacheBackendSQLite))
	switch cacheBackend {
	case CacheBackendSQLite, CacheBackendRedis, CacheBackendBolt, CacheBackendMemory:
	default:
		cacheBackend = CacheBackendSQLite
	}

	redisDB, err := strconv.Atoi(envOr("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		redisDB = 0
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      envOr("DATABASE_PATH", "moodlog.db"),
		SessionSecret:     envOr("SESSION_SECRET", "moodlog-dev-secret"),
		GinMode:           envOr("GIN_MODE", "release"),
		AppEnv:            envOr("APP_ENV", "development"),
		CacheBackend:      cacheBackend,
		RedisAddr:         envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		RedisDB:           redisDB,
		BoltPath:          envOr("BOLT_PATH", "moodlog-cache.db"),
		Timezone:          envOr("TIMEZONE", "UTC"),
		LogFile:           strings.TrimSpace(os.Getenv("LOG_FILE")),
		SuperRootUserName: strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME")),
		SuperRootPassword: strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD")),
	}
}

// Location 解析 Timezone，无法识别时回退到 UTC。
func (c AppConfig) Location() (*time.Location, error) {
	return loadLocation(c.Timezone)
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
