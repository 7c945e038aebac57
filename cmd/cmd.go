// Package cmd defines the command-line interface for osscompass.
package cmd

import (
	"github.com/huangsam/osscompass/internal/contract"
	"github.com/huangsam/osscompass/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(repoCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the score subcommands to the parent score command
	scoreCmd.AddCommand(scoreReposCmd)
	scoreCmd.AddCommand(scoreIssuesCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringSlice("languages", nil, "Comma-separated programming languages you know (e.g. go,python)")
	rootCmd.PersistentFlags().StringSlice("frameworks", nil, "Comma-separated frameworks or tools you know (e.g. react,docker)")
	rootCmd.PersistentFlags().String("experience", string(schema.Beginner), "Experience level: beginner or intermediate or advanced")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().StringP("filter", "f", string(schema.AllFilter), "Display filter: all or beginner or gsoc or hacktoberfest")
	rootCmd.PersistentFlags().Float64("min-score", 0, "Minimum match score to display (0 = command default)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("explain", false, "Print the score breakdown for each result")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or memory or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("cache-capacity", contract.DefaultCacheCapacity, "Maximum cached responses before eviction")
	rootCmd.PersistentFlags().Int("cache-evict", contract.DefaultCacheEvict, "Oldest responses removed when the cache is full")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token (prefer OSSCOMPASS_GITHUB_TOKEN)")
	rootCmd.PersistentFlags().String("github-api-url", contract.DefaultGitHubAPIURL, "GitHub REST API base URL")
	rootCmd.PersistentFlags().String("http-timeout", contract.DefaultHTTPTimeout.String(), "Timeout for each GitHub request")
	rootCmd.PersistentFlags().Int("max-retries", contract.DefaultMaxRetries, "Attempts for rate limited or failing GitHub requests")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Command-local flags are read from the command itself since several
	// commands share names like --language.
	reposCmd.Flags().String("language", "", "Repository language (defaults to your first language)")
	reposCmd.Flags().String("topic", "", "Repository topic")
	reposCmd.Flags().Int("min-stars", schema.DefaultMinStars, "Minimum stars")
	reposCmd.Flags().Int("max-stars", 0, "Maximum stars (0 = unbounded)")
	reposCmd.Flags().Int("page", 1, "Result page")

	issuesCmd.Flags().String("language", "", "Repository language (defaults to your first language)")
	issuesCmd.Flags().StringSlice("labels", nil, "Issue labels (defaults to labels suited to your experience)")
	issuesCmd.Flags().Int("page", 1, "Result page")

	scoreIssuesCmd.Flags().String("repo-language", "", "Primary language of the repository the issues belong to")

	cacheClearCmd.Flags().Bool("all", false, "Wipe the whole cache backend instead of only osscompass entries")
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
