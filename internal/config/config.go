package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server           ServerConfig
	DB               DBConfig
	Redis            RedisConfig
	Anthropic        AnthropicConfig
	Generation       GenerationConfig
	ContentProcessor ContentProcessorConfig
	Logger           LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// GenerationConfig carries the pipeline knobs: request bounds, the attempt
// budget shared between AI-call failures and output-validation failures, and
// the per-attempt / overall timeouts.
type GenerationConfig struct {
	MinContentLength int
	MaxQuestions     int
	MaxAttempts      int
	RetryDelay       time.Duration
	AttemptTimeout   time.Duration
	OverallTimeout   time.Duration
	CacheTTL         time.Duration
}

type ContentProcessorConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env vars cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Anthropic: AnthropicConfig{
			APIKey: viper.GetString("anthropic.api_key"),
			Model:  viper.GetString("anthropic.model"),
		},
		Generation: GenerationConfig{
			MinContentLength: viper.GetInt("generation.min_content_length"),
			MaxQuestions:     viper.GetInt("generation.max_questions"),
			MaxAttempts:      viper.GetInt("generation.max_attempts"),
			RetryDelay:       viper.GetDuration("generation.retry_delay"),
			AttemptTimeout:   viper.GetDuration("generation.attempt_timeout"),
			OverallTimeout:   viper.GetDuration("generation.overall_timeout"),
			CacheTTL:         viper.GetDuration("generation.cache_ttl"),
		},
		ContentProcessor: ContentProcessorConfig{
			BaseURL: viper.GetString("content_processor.base_url"),
			Timeout: viper.GetDuration("content_processor.timeout"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Anthropic.APIKey = apiKey
	}
	if contentURL := os.Getenv("CONTENT_PROCESSOR_URL"); contentURL != "" {
		config.ContentProcessor.BaseURL = contentURL
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8002)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 120)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("anthropic.model", "claude-3-5-haiku-20241022")
	viper.SetDefault("generation.min_content_length", 100)
	viper.SetDefault("generation.max_questions", 100)
	viper.SetDefault("generation.max_attempts", 3)
	viper.SetDefault("generation.retry_delay", 2*time.Second)
	viper.SetDefault("generation.attempt_timeout", 60*time.Second)
	viper.SetDefault("generation.overall_timeout", 5*time.Minute)
	viper.SetDefault("generation.cache_ttl", 10*time.Minute)
	viper.SetDefault("content_processor.timeout", 30*time.Second)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
}

// GetDSN returns the postgres connection string for the pgx stdlib driver.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}
