package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "resudoc"
	envPrefix = "RESUDOC"
)

type Config struct {
	APIURL     string        `mapstructure:"api-url"`
	UserID     string        `mapstructure:"user-id"`
	UserIDFile string        `mapstructure:"user-id-file"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max-retries"`
	TopK       int           `mapstructure:"top-k"`
	HistoryDB  string        `mapstructure:"history-db"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resudoc is a cli and terminal ui for uploading resumes and matching them against job descriptions",
	}
)

// Execute executes the root command. An interrupt cancels in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "a config file (default is resudoc.yaml in current directory)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.String("api-url", "http://localhost:8000", "base url of the resudoc api")
	flags.String("user-id", "", "id of the user owning the resumes (default is the built-in user)")
	flags.String("user-id-file", "", "file containing the user id. Takes precedence over --user-id")
	flags.Duration("timeout", 2*time.Minute, "timeout of a single request")
	flags.Int("max-retries", 3, "retries on connection errors and 5xx responses. Negative disables retries")
	flags.Int("top-k", 5, "default number of match results (1-20)")
	flags.String("history-db", "", "sqlite file to record match runs in. Default is unset.")

	for _, name := range []string{"debug", "json", "api-url", "user-id", "user-id-file", "timeout", "max-retries", "top-k", "history-db"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.Fatalf("binding %s flag: %v", name, err)
		}
	}
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	// The config file is optional, flags and env are enough to talk to a local api.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
