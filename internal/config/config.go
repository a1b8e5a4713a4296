package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	// X 官方 API 凭证；为空时 X 源退化为公开镜像抓取
	XBearerToken string

	// 可选的 Redis 地址，为空则只用进程内缓存
	RedisAddr string

	CacheTTL      time.Duration
	VerifyWorkers int

	// 缓存预热的 cron 表达式
	WarmCronSpec string
}

func Load() *Config {
	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "9000"),
		XBearerToken:  getEnv("X_BEARER_TOKEN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 180)) * time.Second,
		VerifyWorkers: getEnvInt("VERIFY_WORKERS", 4),
		WarmCronSpec:  getEnv("WARM_CRON_SPEC", "*/5 * * * *"),
	}

	log.Printf("config loaded: port=%s cacheTTL=%s workers=%d warmCron=%s",
		cfg.AppPort, cfg.CacheTTL, cfg.VerifyWorkers, cfg.WarmCronSpec)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}
