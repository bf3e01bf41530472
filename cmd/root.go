package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "pathfinder"
)

type Config struct {
	CatalogFile string          `mapstructure:"catalog-file"`
	Analysis    *AnalysisConfig `mapstructure:"analysis"`
	Share       *ShareConfig    `mapstructure:"share"`
	Export      *ExportConfig   `mapstructure:"export"`
	Server      *ServerConfig   `mapstructure:"server"`
}

type AnalysisConfig struct {
	Provider string        `mapstructure:"provider"`
	Proxy    *ProxyConfig  `mapstructure:"proxy"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type ProxyConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	UserAgent    string `mapstructure:"user-agent"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ShareConfig struct {
	CopiedTTL time.Duration `mapstructure:"copied-ttl"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type ServerConfig struct {
	Listen         string `mapstructure:"listen"`
	AllowedOrigins string `mapstructure:"allowed-origins"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "pathfinder is a career assessment questionnaire that turns your answers into an AI career report",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	bindings := map[string]string{
		"analysis.proxy.endpoint":      "PATHFINDER_PROXY_ENDPOINT",
		"analysis.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("analysis.provider", "proxy")
	viper.SetDefault("share.copied-ttl", "2s")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.allowed-origins", "*")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is pathfinder.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("catalog-file", "", "a YAML question catalog to use instead of the built-in one")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("catalog-file", rootCmd.PersistentFlags().Lookup("catalog-file"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Analysis == nil {
		config.Analysis = &AnalysisConfig{}
	}
	if config.Analysis.Proxy == nil {
		config.Analysis.Proxy = &ProxyConfig{}
	}
	if config.Analysis.Gemini == nil {
		config.Analysis.Gemini = &GeminiConfig{}
	}
	if config.Share == nil {
		config.Share = &ShareConfig{}
	}
	if config.Export == nil {
		config.Export = &ExportConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return config, nil
}
