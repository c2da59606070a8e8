package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zhouzirui/calm-companion/backend/internal/storage/kv"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Companion CompanionConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	companion, err := loadCompanionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Storage: storage, Companion: companion}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr          string
	AllowedOrigin string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	origin := getEnvOrDefault("CORS_ALLOWED_ORIGIN", "*")

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigin: origin}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigin: origin}, nil
}

// StorageConfig 描述持久化后端（替代浏览器 localStorage）。
type StorageConfig struct {
	Backend string
	Path    string
}

func loadStorageConfig() (StorageConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", kv.BackendBolt))
	switch backend {
	case kv.BackendMemory, kv.BackendBolt, kv.BackendFile, kv.BackendSQLite:
	default:
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_BACKEND value %q", backend)
	}

	return StorageConfig{
		Backend: backend,
		Path:    getEnvOrDefault("STORAGE_PATH", "./data"),
	}, nil
}

// CompanionConfig 控制聊天与日记的模拟行为。
type CompanionConfig struct {
	// DelayDisabled 关闭模拟的“正在输入”延迟，回复立即生成。
	DelayDisabled      bool
	JournalRecentLimit int
}

func loadCompanionConfig() (CompanionConfig, error) {
	delayDisabled, err := parseBoolEnv("REPLY_DELAY_DISABLED", false)
	if err != nil {
		return CompanionConfig{}, err
	}

	recent := 3
	if override, err := parseOptionalIntEnv("JOURNAL_RECENT_LIMIT"); err != nil {
		return CompanionConfig{}, err
	} else if override != nil {
		if *override < 1 {
			recent = 1
		} else {
			recent = *override
		}
	}

	return CompanionConfig{
		DelayDisabled:      delayDisabled,
		JournalRecentLimit: recent,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
