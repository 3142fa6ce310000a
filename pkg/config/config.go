package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Knowledge KnowledgeConfig
	Chat      ChatConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Sheets    SheetsConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type KnowledgeConfig struct {
	Path string
}

// ChatConfig holds the tunable resolution parameters. They arrive here and
// nowhere else; the pipeline code never hardcodes them.
type ChatConfig struct {
	// MatchThreshold is the minimum cosine score (strictly greater than)
	// required to accept a knowledge-base match. Character n-gram cosine
	// scores run much lower than word-level TF-IDF ones.
	MatchThreshold float64
	// ShortQueryWords is the word count below which prior-turn context
	// tags are fused into the query.
	ShortQueryWords int
	// QuickMaxWords is the word-count ceiling for quick-response lookup.
	QuickMaxWords int
	// NGramMin/NGramMax bound the character window lengths of the index.
	NGramMin int
	NGramMax int
	// VectorizerMode is "char" (default) or "word" (fallback configuration).
	VectorizerMode string
	// Stopwords override the built-in list in word mode. Ignored by the
	// character vectorizer.
	Stopwords []string
	// MaxMessageLength caps inbound chat messages.
	MaxMessageLength int
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

// SheetsConfig points at the spreadsheet webhook that collects unanswered
// questions for offline human review.
type SheetsConfig struct {
	Enabled     bool
	WebhookURL  string
	TimeoutSec  int
	MaxAttempts int
	QueueSize   int
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/postop-assist")

	viper.SetEnvPrefix("POSTOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("knowledge.path", "./data/knowledge_base.json")

	viper.SetDefault("chat.matchThreshold", 0.18)
	viper.SetDefault("chat.shortQueryWords", 3)
	viper.SetDefault("chat.quickMaxWords", 4)
	viper.SetDefault("chat.ngramMin", 3)
	viper.SetDefault("chat.ngramMax", 5)
	viper.SetDefault("chat.vectorizerMode", "char")
	viper.SetDefault("chat.maxMessageLength", 2000)

	viper.SetDefault("sqlite.path", "./data/postop.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttlSec", 3600)

	viper.SetDefault("sheets.enabled", false)
	viper.SetDefault("sheets.timeoutSec", 5)
	viper.SetDefault("sheets.maxAttempts", 1)
	viper.SetDefault("sheets.queueSize", 64)

	viper.SetDefault("ratelimit.requestsPerMinute", 60)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
