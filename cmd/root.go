package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/logger"
)

const (
	app       = "intern-match"
	envPrefix = "INTERN_MATCH"
)

type Config struct {
	Catalog   *CatalogConfig   `mapstructure:"catalog"`
	AI        *AIConfig        `mapstructure:"ai"`
	Match     *MatchConfig     `mapstructure:"match"`
	Documents *DocumentsConfig `mapstructure:"documents"`
}

type CatalogConfig struct {
	Source   string          `mapstructure:"source"`
	File     string          `mapstructure:"file"`
	HTTP     *HTTPConfig     `mapstructure:"http"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Cache    *CacheConfig    `mapstructure:"cache"`
}

type HTTPConfig struct {
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type PostgresConfig struct {
	DSN     string `mapstructure:"dsn"`
	DSNFile string `mapstructure:"dsn-file"`
	Table   string `mapstructure:"table"`
}

type CacheConfig struct {
	RedisURL string        `mapstructure:"redis-url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type MatchConfig struct {
	Limit int    `mapstructure:"limit"`
	Seed  uint64 `mapstructure:"seed"`
}

type DocumentsConfig struct {
	S3 *S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:               app,
		Short:             "intern-match ranks internship opportunities against a candidate profile or resume",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
	}
)

// Execute executes the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is intern-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.file", "internships.json")
	v.SetDefault("catalog.http.url", "")
	v.SetDefault("catalog.http.token", "")
	v.SetDefault("catalog.http.token-file", "")
	v.SetDefault("catalog.http.timeout", 10*time.Second)
	v.SetDefault("catalog.postgres.dsn", "")
	v.SetDefault("catalog.postgres.dsn-file", "")
	v.SetDefault("catalog.postgres.table", "opportunities")
	v.SetDefault("catalog.cache.redis-url", "")
	v.SetDefault("catalog.cache.ttl", 5*time.Minute)

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.openai.api-key", "")
	v.SetDefault("ai.openai.api-key-file", "")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")

	v.SetDefault("match.limit", 6)
	v.SetDefault("match.seed", 0)

	v.SetDefault("documents.s3.region", "")
	v.SetDefault("documents.s3.endpoint", "")
}

// initConfig loads .env, the optional config file and the environment.
func initConfig(cmd *cobra.Command, _ []string) error {
	if cmd == versionCmd {
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The config file is optional unless set explicitly.
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	return nil
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	return config, nil
}

func newLogger() (*zap.Logger, error) {
	log, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	return log, nil
}
