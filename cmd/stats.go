package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naka-gawa/github-contributor-stats/internal/config"
	"github.com/naka-gawa/github-contributor-stats/internal/domain"
	"github.com/naka-gawa/github-contributor-stats/internal/gateway"
	"github.com/naka-gawa/github-contributor-stats/internal/logger"
	"github.com/naka-gawa/github-contributor-stats/internal/report"
	"github.com/naka-gawa/github-contributor-stats/internal/usecase"
)

func newStatsCmd() *cobra.Command {
	v := config.New()

	statsCmd := &cobra.Command{
		Use:   "stats <owner> <repository> [token] | stats <owner>/<repository> [token]",
		Short: "Reports commits and changed lines per contributor of a repository",
		Long: `Retrieves the contributor statistics of a GitHub repository and prints, for
every contributor, the number of commits and the lines added, deleted and
changed. The token may also be supplied with --token or GITHUB_TOKEN.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, v, args)
		},
	}

	flags := statsCmd.Flags()
	flags.StringP("format", "f", report.FormatText, "Report format: text, json or xlsx")
	flags.StringP("output", "o", "", "Write the report to this file instead of standard output")
	flags.Bool("summary", false, "Append repository totals to the report")
	flags.Bool("no-metadata", false, "Skip the repository metadata lookup")
	flags.String("token", "", "GitHub access token (env GITHUB_TOKEN)")
	flags.Int("max-attempts", gateway.DefaultMaxAttempts, "Maximum number of requests while GitHub computes statistics (env STATS_MAX_ATTEMPTS)")
	flags.Duration("retry-delay", gateway.DefaultRetryDelay, "Delay between requests while GitHub computes statistics (env STATS_RETRY_DELAY)")
	flags.String("api-url", gateway.DefaultBaseURL, "GitHub REST API base URL (env GITHUB_API_URL)")
	flags.String("graphql-url", gateway.DefaultGraphQLURL, "GitHub GraphQL API URL (env GITHUB_GRAPHQL_URL)")

	cobra.CheckErr(bindConfigFlags(v, statsCmd))

	return statsCmd
}

// configFlags maps configuration keys to the stats flags that override them.
var configFlags = []struct {
	key  string
	flag string
}{
	{key: "GITHUB_TOKEN", flag: "token"},
	{key: "STATS_MAX_ATTEMPTS", flag: "max-attempts"},
	{key: "STATS_RETRY_DELAY", flag: "retry-delay"},
	{key: "GITHUB_API_URL", flag: "api-url"},
	{key: "GITHUB_GRAPHQL_URL", flag: "graphql-url"},
}

func bindConfigFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, b := range configFlags {
		if err := v.BindPFlag(b.key, cmd.Flags().Lookup(b.flag)); err != nil {
			return fmt.Errorf("failed to bind --%s to %s: %w", b.flag, b.key, err)
		}
	}
	return nil
}

func runStats(cmd *cobra.Command, v *viper.Viper, args []string) error {
	cfg, err := config.Load(v, ".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel, verbose)

	repo, err := parseRepositoryArgs(args, cfg.GithubToken)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	withTotals, _ := cmd.Flags().GetBool("summary")
	noMetadata, _ := cmd.Flags().GetBool("no-metadata")

	formatter, err := report.NewFormatter(format, withTotals)
	if err != nil {
		return err
	}
	if strings.EqualFold(format, report.FormatXLSX) && output == "" {
		return fmt.Errorf("the %s format requires --output", report.FormatXLSX)
	}
	generator := report.NewGenerator(formatter, newWriter(output, cmd.OutOrStdout()))

	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		BaseURL:     cfg.APIURL,
		GraphQLURL:  cfg.GraphQLURL,
		UserAgent:   cfg.UserAgent,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
		RetryHook:   retryLogger(log, repo),
	})
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	aggregator := usecase.NewAggregator(githubGateway, log, !noMetadata)

	log.WithFields(logrus.Fields{
		"repository":    repo.String(),
		"authenticated": repo.HasToken(),
		"max_attempts":  cfg.MaxAttempts,
		"retry_delay":   cfg.RetryDelay,
	}).Info("Fetching contributor statistics")

	stats, err := aggregator.Aggregate(cmd.Context(), repo)
	if err != nil {
		if !gateway.IsCancellation(err) {
			log.WithError(err).Debug("Failed to aggregate stats")
		}
		return err
	}

	return generator.Generate(stats)
}

// parseRepositoryArgs accepts "owner repository [token]" and "owner/repository [token]".
// A positional token takes precedence over the configured one.
func parseRepositoryArgs(args []string, configuredToken string) (domain.RepositoryRef, error) {
	token := configuredToken
	switch {
	case strings.Contains(args[0], "/"):
		if len(args) > 2 {
			return domain.RepositoryRef{}, fmt.Errorf("too many arguments for %q", args[0])
		}
		if len(args) == 2 {
			token = args[1]
		}
		return domain.ParseRepositoryRef(args[0], token)
	case len(args) == 1:
		return domain.RepositoryRef{}, fmt.Errorf("%w: expected <owner> <repository> or <owner>/<repository>", domain.ErrInvalidRepository)
	default:
		if len(args) == 3 {
			token = args[2]
		}
		return domain.NewRepositoryRef(args[0], args[1], token)
	}
}

func newWriter(path string, stdout io.Writer) report.Writer {
	if path == "" {
		return &report.ConsoleWriter{Out: stdout}
	}
	return &report.FileWriter{Path: path}
}

func retryLogger(log logrus.FieldLogger, repo domain.RepositoryRef) gateway.RetryHook {
	return func(attempt int, delay time.Duration) {
		log.WithFields(logrus.Fields{
			"repository": repo.String(),
			"attempt":    attempt,
			"delay":      delay,
		}).Info("GitHub is still computing statistics, retrying")
	}
}
