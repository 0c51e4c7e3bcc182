package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	LLM        LLMConfig
	Review     ReviewConfig
	Image      ImageConfig
	Generation GenerationConfig
	Redis      RedisConfig
	DB         DBConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type LLMConfig struct {
	// Model handles text-oriented calls (review passes, question generation).
	Model string
	// VisionModel handles calls that carry image parts. Anthropic models are
	// multimodal, so this usually equals Model.
	VisionModel     string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	Timeout         time.Duration
	// Validator runs cold, adversarial runs hot.
	ValidatorTemperature   float64
	AdversarialTemperature float64
	MaxTokens              int
}

type ReviewConfig struct {
	// Questions are compact; lesson sections are large and multimodal.
	QBankBatchSize  int
	LessonBatchSize int
}

type ImageConfig struct {
	// ScoreThreshold is the minimum vision score (0-100) a searched candidate
	// needs to be accepted without falling back to generation.
	ScoreThreshold int
	MaxCandidates  int
	// CacheBackend selects "file" or "redis".
	CacheBackend  string
	CacheFilePath string
	// MediaDir holds annotated image copies.
	MediaDir string
	Sources  []string
	// RequestsPerSecond bounds vision-scoring calls.
	RequestsPerSecond float64
}

type GenerationConfig struct {
	// CatalogPaths maps course names to subject/topic/chapter JSON files.
	CatalogPaths map[string]string
	// ExamplePaths maps course names to few-shot example question files.
	ExamplePaths map[string]string
	MinQuestions int
	MaxQuestions int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type DBConfig struct {
	Path string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../configs")
	}

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env cover everything.
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
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Model:                  viper.GetString("llm.model"),
			VisionModel:            viper.GetString("llm.vision_model"),
			AnthropicAPIKey:        viper.GetString("llm.anthropic_api_key"),
			OpenAIAPIKey:           viper.GetString("llm.openai_api_key"),
			Timeout:                viper.GetDuration("llm.timeout") * time.Second,
			ValidatorTemperature:   viper.GetFloat64("llm.validator_temperature"),
			AdversarialTemperature: viper.GetFloat64("llm.adversarial_temperature"),
			MaxTokens:              viper.GetInt("llm.max_tokens"),
		},
		Review: ReviewConfig{
			QBankBatchSize:  viper.GetInt("review.qbank_batch_size"),
			LessonBatchSize: viper.GetInt("review.lesson_batch_size"),
		},
		Image: ImageConfig{
			ScoreThreshold:    viper.GetInt("image.score_threshold"),
			MaxCandidates:     viper.GetInt("image.max_candidates"),
			CacheBackend:      viper.GetString("image.cache_backend"),
			CacheFilePath:     viper.GetString("image.cache_file_path"),
			MediaDir:          viper.GetString("image.media_dir"),
			Sources:           viper.GetStringSlice("image.sources"),
			RequestsPerSecond: viper.GetFloat64("image.requests_per_second"),
		},
		Generation: GenerationConfig{
			CatalogPaths: canonicalCourseKeys(viper.GetStringMapString("generation.catalog_paths")),
			ExamplePaths: canonicalCourseKeys(viper.GetStringMapString("generation.example_paths")),
			MinQuestions: viper.GetInt("generation.min_questions"),
			MaxQuestions: viper.GetInt("generation.max_questions"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		DB: DBConfig{
			Path: viper.GetString("db.path"),
		},
	}

	// Secrets come from the environment in deployment.
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.LLM.AnthropicAPIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.LLM.OpenAIAPIKey = key
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		config.Redis.Address = addr
	}

	return config, nil
}

// VisionModelName returns the model for calls that carry image parts,
// falling back to the text model when no separate vision model is set.
func (c LLMConfig) VisionModelName() string {
	if c.VisionModel != "" {
		return c.VisionModel
	}
	return c.Model
}

// canonicalCourseKeys restores course-name casing; viper lowercases map keys.
func canonicalCourseKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch strings.ToLower(k) {
		case "neet pg":
			out["NEET PG"] = v
		case "usmle":
			out["USMLE"] = v
		default:
			out[k] = v
		}
	}
	return out
}

func setDefaults() {
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 120)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("llm.model", "claude-sonnet-4-5")
	viper.SetDefault("llm.vision_model", "claude-sonnet-4-5")
	viper.SetDefault("llm.timeout", 120)
	viper.SetDefault("llm.validator_temperature", 0.2)
	viper.SetDefault("llm.adversarial_temperature", 0.8)
	viper.SetDefault("llm.max_tokens", 8192)
	viper.SetDefault("review.qbank_batch_size", 5)
	viper.SetDefault("review.lesson_batch_size", 2)
	viper.SetDefault("image.score_threshold", 80)
	viper.SetDefault("image.max_candidates", 8)
	viper.SetDefault("image.cache_backend", "file")
	viper.SetDefault("image.cache_file_path", "data/image_cache.json")
	viper.SetDefault("image.media_dir", "data/media")
	viper.SetDefault("image.sources", []string{"openi", "wikimedia"})
	viper.SetDefault("image.requests_per_second", 1.0)
	viper.SetDefault("generation.min_questions", 5)
	viper.SetDefault("generation.max_questions", 50)
	viper.SetDefault("db.path", "data/qbank.db")
}
