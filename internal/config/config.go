package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Storage
	DBDriver  string `mapstructure:"db_driver" yaml:"db_driver" validate:"oneof=sqlite postgres"`
	DBDSN     string `mapstructure:"db_dsn" yaml:"db_dsn" validate:"required"`
	UploadDir string `mapstructure:"upload_dir" yaml:"upload_dir" validate:"required"`

	// Insight generation
	InsightProvider   string  `mapstructure:"insight_provider" yaml:"insight_provider" validate:"oneof=openai openrouter ollama none"`
	APIKey            string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL           string  `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	Model             string  `mapstructure:"model" yaml:"model" validate:"required"`
	MaxTokens         int     `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gt=0"`
	Temperature       float64 `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	InsightTimeoutSec int     `mapstructure:"insight_timeout_sec" yaml:"insight_timeout_sec" validate:"gt=0"`
	OllamaHost        string  `mapstructure:"ollama_host" yaml:"ollama_host" validate:"omitempty,url"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`

	// ColumnAliases adds header aliases per canonical column.
	ColumnAliases map[string][]string `mapstructure:"column_aliases" yaml:"column_aliases,omitempty" validate:"dive,keys,oneof=active_users new_users churn_rate revenue,endkeys,dive,required"`
}

// Dir returns the directory holding config.yaml, the default database and uploads.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".saasgrowth"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.saasgrowth/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	// the file may hold an API key
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetEnvPrefix("SAASGROWTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", filepath.Join(dir, "metrics.db"))
	v.SetDefault("upload_dir", filepath.Join(dir, "uploads"))
	v.SetDefault("insight_provider", "openai")
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("model", "gpt-4")
	v.SetDefault("max_tokens", 1000)
	v.SetDefault("temperature", 0.0)
	v.SetDefault("insight_timeout_sec", 30)
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing default file is fine; an explicit or malformed one is not
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// the key is conventionally exported without our prefix
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks field constraints and reports every violation by config key.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}
