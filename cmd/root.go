package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-advisor/internal/analysis"
	"github.com/spigell/ats-advisor/internal/analysis/gemini"
	"github.com/spigell/ats-advisor/internal/analysis/remote"
	"github.com/spigell/ats-advisor/internal/headhunter"
	"github.com/spigell/ats-advisor/internal/logger"
	"github.com/spigell/ats-advisor/internal/report"
	"github.com/spigell/ats-advisor/internal/secrets"
)

const (
	app       = "ats-advisor"
	envPrefix = "ATS_ADVISOR"
)

type Config struct {
	Search      *headhunter.SearchParams `mapstructure:"search"`
	ExcludeFile string                   `mapstructure:"exclude-file"`
	UserAgent   string                   `mapstructure:"user-agent"`
	TokenFile   string                   `mapstructure:"token-file"`

	Analyzer string       `mapstructure:"analyzer" validate:"oneof=gemini remote"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
	Remote   RemoteConfig `mapstructure:"remote"`
	Screen   ScreenConfig `mapstructure:"screen"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

type RemoteConfig struct {
	URL       string `mapstructure:"url" validate:"omitempty,url"`
	Token     string `mapstructure:"token" json:"-"`
	TokenFile string `mapstructure:"token-file"`
}

type ScreenConfig struct {
	MinimumScore   int      `mapstructure:"minimum-score" validate:"gte=0,lte=100"`
	Concurrency    int      `mapstructure:"concurrency" validate:"gte=0,lte=16"`
	AppendRejected bool     `mapstructure:"append-rejected"`
	AllowTests     bool     `mapstructure:"allow-tests"`
	Employers      []string `mapstructure:"employers"`
}

var (
	// Used for flags.
	cfgFile string

	validate = validator.New()

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-advisor scores a resume against job descriptions and explains how to improve it",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			_, err := report.ParseFormat(viper.GetString("output"))
			return err
		},
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"token-file":          "HH_TOKEN_FILE",
		"gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"remote.token-file":   "ATS_BACKEND_TOKEN_FILE",
		"remote.url":          "ATS_BACKEND_URL",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("analyzer", gemini.Provider)
	viper.SetDefault("gemini.model", "gemini-2.5-pro")
	viper.SetDefault("gemini.max-retries", 3)
	viper.SetDefault("gemini.max-log-length", 200)
	viper.SetDefault("screen.minimum-score", 0)
	viper.SetDefault("screen.concurrency", 1)
	viper.SetDefault("output", string(report.FormatText))

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-advisor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("output", "o", string(report.FormatText), "report format: text or json")
	rootCmd.PersistentFlags().Bool("full-text", false, "include the full analysis text in text reports")

	for _, name := range []string{"debug", "json", "output", "full-text"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			log.Fatalf("binding %s flag: %v", name, err)
		}
	}
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// A missing default config is fine, everything can come from env and flags.
	// An explicit or broken config is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	config.Analyzer = strings.ToLower(strings.TrimSpace(config.Analyzer))
	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// newLogger is shared by all commands. Logs go to stderr, reports to stdout.
func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

func reportOptions() report.Options {
	// Already validated in PersistentPreRunE.
	format, _ := report.ParseFormat(viper.GetString("output"))
	return report.Options{Format: format, FullText: viper.GetBool("full-text")}
}

func newAnalyzer(ctx context.Context, config *Config, log *zap.Logger) (analysis.Analyzer, error) {
	switch config.Analyzer {
	case remote.Provider:
		url := strings.TrimSpace(config.Remote.URL)
		if url == "" {
			return nil, errors.New("remote.url is required for the remote analyzer (or set ATS_BACKEND_URL)")
		}

		token, err := secrets.Load(secrets.Source{
			Name:  "analysis backend token",
			Value: config.Remote.Token,
			Env:   "ATS_BACKEND_TOKEN",
			File:  config.Remote.TokenFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set remote.token-file or ATS_BACKEND_TOKEN_FILE)", err)
		}

		return remote.New(logger.WithCommonFields(log, remote.Provider, url), url, token), nil

	case gemini.Provider, "":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: config.Gemini.APIKey,
			Env:   "GEMINI_API_KEY",
			File:  config.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		genLogger := logger.WithCommonFields(log, gemini.Provider, config.Gemini.Model).
			With(zap.Int("ai_retry_attempts", config.Gemini.MaxRetries))

		generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, genLogger)
		if err != nil {
			return nil, err
		}

		return gemini.NewAnalyzer(generator, genLogger, config.Gemini.MaxLogLength), nil

	default:
		return nil, fmt.Errorf("unsupported analyzer: %s", config.Analyzer)
	}
}

// newHeadhunter builds the hh.ru client. The token is optional since search
// and vacancy details are public.
func newHeadhunter(config *Config, log *zap.Logger) *headhunter.Client {
	token, err := secrets.Load(secrets.Source{
		Name: "headhunter token",
		Env:  "HH_TOKEN",
		File: config.TokenFile,
	})
	if err != nil {
		if strings.TrimSpace(config.TokenFile) != "" {
			log.Fatal("loading headhunter token",
				zap.Error(err),
				zap.String("hint", "check HH_TOKEN_FILE or the 'token-file' key in the configuration file"),
			)
		}
		log.Debug("no headhunter token configured, using anonymous access")
		token = ""
	}

	hh := headhunter.New(log, token)
	if config.UserAgent != "" {
		hh.UserAgent = config.UserAgent
	}
	return hh
}

func readResume(path string) (string, []byte, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil, errors.New("--resume is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read resume: %w", err)
	}
	return path, data, nil
}
