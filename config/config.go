package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite, mysql
	DSN  string `yaml:"dsn"`
}

type LLMConfig struct {
	APIURL    string `yaml:"api_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	// Timeout 单次生成调用的超时时间
	Timeout time.Duration `yaml:"timeout"`
	// Concurrency 创建项目时并行生成章节的数量，1 表示顺序生成
	Concurrency int `yaml:"concurrency"`
	// RequestsPerSecond 对外部模型的请求限速，0 表示不限速
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		cfg = loadConfig()
	})
	return cfg
}

// Default 返回内置默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "./data/app.db",
		},
		LLM: LLMConfig{
			APIURL:      "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			MaxTokens:   2048,
			Timeout:     60 * time.Second,
			Concurrency: 1,
		},
		Auth: AuthConfig{
			TokenTTL:   30 * time.Minute,
			BcryptCost: 10,
		},
	}
}

func loadConfig() *Config {
	config := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			klog.Warningf("解析配置文件失败: path=%s, err=%v", configPath, err)
		}
	}

	applyEnv(config)

	if config.Auth.JWTSecret == "" {
		klog.Warningf("未配置 JWT_SECRET，使用开发环境默认密钥")
		config.Auth.JWTSecret = "dev-secret-change-me"
	}
	if config.LLM.Concurrency < 1 {
		config.LLM.Concurrency = 1
	}

	return config
}

// applyEnv 环境变量优先级高于配置文件
func applyEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		config.Server.Mode = mode
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.LLM.APIURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL_NAME"); model != "" {
		config.LLM.Model = model
	}
	if timeout := os.Getenv("LLM_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.LLM.Timeout = d
		}
	}
	if concurrency := os.Getenv("LLM_CONCURRENCY"); concurrency != "" {
		if n, err := strconv.Atoi(concurrency); err == nil {
			config.LLM.Concurrency = n
		}
	}
	if rps := os.Getenv("LLM_REQUESTS_PER_SECOND"); rps != "" {
		if f, err := strconv.ParseFloat(rps, 64); err == nil {
			config.LLM.RequestsPerSecond = f
		}
	}

	// 数据库环境变量
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if dbDSN := os.Getenv("DB_DSN"); dbDSN != "" {
		config.Database.DSN = dbDSN
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Auth.TokenTTL = d
		}
	}
}
