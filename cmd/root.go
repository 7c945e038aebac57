package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/huangsam/osscompass/core"
	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/internal/github"
	"github.com/huangsam/osscompass/internal/iocache"
	"github.com/huangsam/osscompass/internal/logger"
	"github.com/huangsam/osscompass/internal/outwriter"
	"github.com/huangsam/osscompass/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. It is cancelled on interrupt.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// appLog is the structured logger built from the validated config.
var appLog = zap.NewNop()

// recommender scores upstream results through the response cache.
var recommender *core.Recommender

// outWriter renders results in the configured output format.
var outWriter = outwriter.NewOutWriter()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "osscompass",
	Short:              "Match your skills to open-source repositories and issues.",
	Long:               `OSS Compass searches GitHub and ranks repositories and issues by how well they fit your languages, frameworks and experience.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set environment variable prefix
	viper.SetEnvPrefix("OSSCOMPASS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match
	_ = viper.BindEnv("github-token", "OSSCOMPASS_GITHUB_TOKEN", "GITHUB_TOKEN")

	// Set defaults in Viper
	viper.SetDefault("experience", schema.Beginner)
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("filter", schema.AllFilter)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("cache-capacity", contract.DefaultCacheCapacity)
	viper.SetDefault("cache-evict", contract.DefaultCacheEvict)
	viper.SetDefault("github-api-url", contract.DefaultGitHubAPIURL)
	viper.SetDefault("http-timeout", contract.DefaultHTTPTimeout.String())
	viper.SetDefault("max-retries", contract.DefaultMaxRetries)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".osscompass") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// loadConfig merges defaults, file, env and flags into cfg.
func loadConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return contract.ProcessAndValidate(cfg, input)
}

// setupLogger replaces appLog with one built from cfg.
func setupLogger() error {
	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	appLog = log
	return nil
}

// newResponseCache wraps the global response store with the configured sizing.
func newResponseCache() *iocache.ResponseCache {
	return iocache.NewResponseCache(
		iocache.Manager.GetResponseStore(),
		iocache.WithCapacity(cfg.CacheCapacity, cfg.CacheEvict),
		iocache.WithLogger(appLog),
	)
}

// sharedSetup loads config, initializes caching and wires the recommender.
func sharedSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if err := setupLogger(); err != nil {
		return err
	}

	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize caching: %w", err)
	}

	client := github.New(github.Config{
		BaseURL:    cfg.GitHubAPIURL,
		Token:      cfg.GitHubToken,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
		Logger:     appLog,
	})
	recommender = core.NewRecommender(core.NewCachedSearcher(client, newResponseCache()), appLog)

	appLog.Debug("setup complete",
		zap.Strings("languages", cfg.Languages),
		zap.String("experience", string(cfg.Experience)),
		zap.String("cache_backend", string(cfg.CacheBackend)))
	return nil
}

// offlineSetup loads config and the logger without touching the cache or network.
func offlineSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	return setupLogger()
}

// currentView returns the presentation settings shared by every listing.
func currentView() core.View {
	return core.View{Filter: cfg.Filter, MinScore: cfg.MinScore, Limit: cfg.ResultLimit}
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCtx = ctx
	defer func() { _ = appLog.Sync() }()
	return rootCmd.Execute()
}
