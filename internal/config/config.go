// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Dialogue DialogueConfig `mapstructure:"dialogue"`
	Speech   SpeechConfig   `mapstructure:"speech"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ServiceName     string        `mapstructure:"service_name"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Model      string              `mapstructure:"model"`
	Referer    string              `mapstructure:"referer"`
	Title      string              `mapstructure:"title"`
	Timeout    time.Duration       `mapstructure:"timeout"`
	Generation LLMGenerationConfig `mapstructure:"generation"`
}

// LLMGenerationConfig 配置生成相关参数。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// DialogueConfig 控制对话回合的行为。
// FallbackSeed 为 0 时使用当前时间作为降级回复选择器的种子。
type DialogueConfig struct {
	FallbackSeed int64 `mapstructure:"fallback_seed"`
}

// SpeechConfig 存储语音合成（Edge read-aloud）相关配置。
type SpeechConfig struct {
	Endpoint           string            `mapstructure:"endpoint"`
	TrustedClientToken string            `mapstructure:"trusted_client_token"`
	OutputFormat       string            `mapstructure:"output_format"`
	Lang               string            `mapstructure:"lang"`
	Timeout            time.Duration     `mapstructure:"timeout"`
	Cache              SpeechCacheConfig `mapstructure:"cache"`
}

// SpeechCacheConfig 配置合成音频的缓存后端：none、redis 或 minio。
type SpeechCacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// MetricsConfig 控制 Prometheus 指标暴露。
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// 支持的音频缓存后端。
const (
	CacheBackendNone  = "none"
	CacheBackendRedis = "redis"
	CacheBackendMinIO = "minio"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.service_name", "du Customer Simulation Platform")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "deepseek/deepseek-chat")
	v.SetDefault("llm.referer", "https://replit.com")
	v.SetDefault("llm.title", "du Customer Simulation Platform")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.generation.temperature", 1.0)
	v.SetDefault("llm.generation.top_p", 0.95)
	v.SetDefault("llm.generation.max_tokens", 500)

	v.SetDefault("dialogue.fallback_seed", 0)

	v.SetDefault("speech.endpoint", "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1")
	v.SetDefault("speech.trusted_client_token", "6A5AA1D4EAFF4E9FB37E23D68491D6F4")
	v.SetDefault("speech.output_format", "audio-24khz-96kbitrate-mono-mp3")
	v.SetDefault("speech.lang", "en-US")
	v.SetDefault("speech.timeout", 20*time.Second)
	v.SetDefault("speech.cache.backend", CacheBackendNone)
	v.SetDefault("speech.cache.ttl", 24*time.Hour)
	v.SetDefault("speech.cache.prefix", "tts")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket_name", "roleplay-speech")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "roleplay.session-scored")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load 读取 .env、YAML 配置文件与环境变量，返回合并后的配置。
// 配置文件不存在时仅使用默认值与环境变量。
func Load(configPath string) (Config, error) {
	// .env 是可选的
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 兼容旧部署使用的环境变量名
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY", "DEEPSEEK_1")
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate 检查关键配置项。
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port cannot be empty")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be > 0")
	}
	if c.Speech.Timeout <= 0 {
		return errors.New("speech.timeout must be > 0")
	}
	switch c.Speech.Cache.Backend {
	case CacheBackendNone, CacheBackendRedis, CacheBackendMinIO:
	default:
		return fmt.Errorf("unknown speech.cache.backend %q", c.Speech.Cache.Backend)
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return errors.New("kafka.topic cannot be empty when kafka is enabled")
	}
	return nil
}
