package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// 存储后端名称。
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	LogLevel string
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Store:    store,
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
	AllowedOrigin  string
}

// loadServerConfig 解析服务器监听地址、请求超时与 CORS 来源。
func loadServerConfig() (ServerConfig, error) {
	addr, err := parseAddr(strings.TrimSpace(os.Getenv("PORT")))
	if err != nil {
		return ServerConfig{}, err
	}

	timeout, err := parseDurationEnv("REQUEST_TIMEOUT", 5*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}
	if timeout <= 0 {
		return ServerConfig{}, fmt.Errorf("invalid REQUEST_TIMEOUT value %q: must be positive", os.Getenv("REQUEST_TIMEOUT"))
	}

	return ServerConfig{
		Addr:           addr,
		RequestTimeout: timeout,
		AllowedOrigin:  getEnvOrDefault("CORS_ALLOWED_ORIGIN", "*"),
	}, nil
}

func parseAddr(port string) (string, error) {
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// StoreConfig 描述消息存储介质。
type StoreConfig struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisKey  string
}

func loadStoreConfig() (StoreConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("MESSAGE_STORE_BACKEND", BackendSQLite))

	var path string
	switch backend {
	case BackendSQLite:
		path = getEnvOrDefault("MESSAGE_STORE_PATH", filepath.Join(os.TempDir(), "message.db"))
	case BackendBadger:
		// 空路径表示内存模式。
		path = strings.TrimSpace(os.Getenv("MESSAGE_STORE_PATH"))
	case BackendMemory, BackendRedis:
	default:
		return StoreConfig{}, fmt.Errorf("invalid MESSAGE_STORE_BACKEND value %q", backend)
	}

	return StoreConfig{
		Backend:   backend,
		Path:      path,
		RedisAddr: getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisKey:  getEnvOrDefault("REDIS_KEY", "message:current"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		// 兼容纯数字秒数。
		seconds, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	return val, nil
}
