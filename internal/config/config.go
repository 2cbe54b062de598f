package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Quiz       QuizConfig       `mapstructure:"quiz"`
	Export     ExportConfig     `mapstructure:"export"`
}

type ServerConfig struct {
	Port               int           `mapstructure:"port" validate:"min=1,max=65535"`
	CORS               CORSConfig    `mapstructure:"cors"`
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout" validate:"min=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Source names accepted by vocabulary.source.
const (
	SourceFirestore = "firestore"
	SourceMySQL     = "mysql"
	SourcePostgres  = "postgres"
	SourceYAML      = "yaml"
)

type VocabularyConfig struct {
	Source     string          `mapstructure:"source" validate:"oneof=firestore mysql postgres yaml"`
	Collection string          `mapstructure:"collection" validate:"required"`
	Firestore  FirestoreConfig `mapstructure:"firestore"`
	YAML       YAMLConfig      `mapstructure:"yaml"`
}

type FirestoreConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	DatabaseID  string `mapstructure:"database_id"`
	BaseURL     string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey      string `mapstructure:"api_key"`
	AccessToken string `mapstructure:"access_token"`
	PageSize    int    `mapstructure:"page_size" validate:"min=1,max=1000"`
}

type YAMLConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type PostgresConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int32  `mapstructure:"max_connections" validate:"min=0"`
}

type OpenAIConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	Model            string        `mapstructure:"model" validate:"required"`
	Temperature      float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	BaseURL          string        `mapstructure:"base_url" validate:"url"`
	MaxRetryAttempts uint          `mapstructure:"max_retry_attempts"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// Quiz orders accepted by quiz.order.
const (
	OrderRandom  = "random"
	OrderShuffle = "shuffle"
)

type QuizConfig struct {
	Order     string `mapstructure:"order" validate:"oneof=random shuffle"`
	MaskHints bool   `mapstructure:"mask_hints"`
}

type ExportConfig struct {
	Template string `mapstructure:"template" validate:"omitempty,file"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vocabquiz")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// LoadDotEnv loads environment variables from a .env file if one exists.
// Variables that are already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("godotenv.Load(%s) > %w", path, err)
		}
	}
	return nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.session_idle_timeout", 30*time.Minute)
	v.SetDefault("vocabulary.source", SourceFirestore)
	v.SetDefault("vocabulary.collection", "junior_vocab")
	v.SetDefault("vocabulary.firestore.database_id", "(default)")
	v.SetDefault("vocabulary.firestore.base_url", "https://firestore.googleapis.com")
	v.SetDefault("vocabulary.firestore.page_size", 300)
	v.SetDefault("vocabulary.yaml.path", "vocabulary.yml")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "local")
	v.SetDefault("database.username", "user")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.max_retry_attempts", 0)
	v.SetDefault("openai.timeout", time.Duration(0))
	v.SetDefault("quiz.order", OrderRandom)
	v.SetDefault("quiz.mask_hints", false)
	// Template is optional - if not specified, the embedded template is used
	v.SetDefault("export.template", "")

	// Secrets are bound to environment variables only
	envBindings := []struct {
		key string
		env string
	}{
		{"openai.api_key", "OPENAI_API_KEY"},
		{"openai.model", "OPENAI_MODEL"},
		{"vocabulary.firestore.project_id", "FIRESTORE_PROJECT_ID"},
		{"vocabulary.firestore.api_key", "FIRESTORE_API_KEY"},
		{"vocabulary.firestore.access_token", "FIRESTORE_ACCESS_TOKEN"},
		{"database.password", "DB_PASSWORD"},
		{"postgres.url", "DATABASE_URL"},
	}
	for _, binding := range envBindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", binding.env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
