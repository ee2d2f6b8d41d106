// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-contributor-stats/internal/domain"
)

const (
	DefaultBaseURL     = "https://api.github.com/"
	DefaultGraphQLURL  = "https://api.github.com/graphql"
	DefaultUserAgent   = "github-stats"
	DefaultMaxAttempts = 60
	DefaultRetryDelay  = 2 * time.Second

	apiVersion = "2022-11-28"
	mediaType  = "application/vnd.github+json"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchContributorStats(ctx context.Context, repo domain.RepositoryRef) ([]domain.ContributorRawStats, error)
	FetchRepositoryInfo(ctx context.Context, repo domain.RepositoryRef) (*domain.RepositoryInfo, error)
}

// RetryHook is called before each wait caused by a 202 Accepted response.
type RetryHook func(attempt int, delay time.Duration)

// Options configures a GitHubGateway. Zero values fall back to the defaults above.
type Options struct {
	BaseURL     string
	GraphQLURL  string
	UserAgent   string
	MaxAttempts int
	RetryDelay  time.Duration
	RetryHook   RetryHook
	// HTTPClient replaces the default rate-limit aware client. Its transport is
	// shared by every request made through the gateway.
	HTTPClient *http.Client
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient  *github.Client
	transport   http.RoundTripper
	graphqlURL  string
	maxAttempts int
	retryDelay  time.Duration
	retryHook   RetryHook
	wait        func(ctx context.Context, d time.Duration) error
}

// repositoryInfoQuery fetches descriptive metadata about a single repository.
type repositoryInfoQuery struct {
	Repository struct {
		NameWithOwner    string
		Description      string
		StargazerCount   int
		IsArchived       bool
		DefaultBranchRef *struct {
			Name string
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options) (*GitHubGateway, error) {
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.MaxAttempts < 0 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", opts.MaxAttempts)
	}
	if opts.RetryDelay < 0 {
		return nil, fmt.Errorf("retry delay must not be negative, got %s", opts.RetryDelay)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = DefaultGraphQLURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		httpClient = &http.Client{Transport: rateLimitWaiter}
	}
	transport := httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	restClient := github.NewClient(httpClient)
	restClient.UserAgent = opts.UserAgent
	if opts.BaseURL != "" {
		baseURL, err := parseBaseURL(opts.BaseURL)
		if err != nil {
			return nil, err
		}
		restClient.BaseURL = baseURL
	}

	return &GitHubGateway{
		restClient:  restClient,
		transport:   transport,
		graphqlURL:  opts.GraphQLURL,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		retryHook:   opts.RetryHook,
		wait:        sleepContext,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", raw)
	}
	return u, nil
}

// FetchRepositoryInfo looks up repository metadata through the GraphQL API.
// GraphQL requires authentication, so repo must carry a token.
func (g *GitHubGateway) FetchRepositoryInfo(ctx context.Context, repo domain.RepositoryRef) (*domain.RepositoryInfo, error) {
	if !repo.HasToken() {
		return nil, fmt.Errorf("repository metadata for %s requires a token", repo)
	}
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   g.transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: repo.Token}),
		},
	}
	client := githubv4.NewEnterpriseClient(g.graphqlURL, httpClient)

	var q repositoryInfoQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(repo.Owner),
		"name":  githubv4.String(repo.Name),
	}
	if err := client.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for repository info: %w", err)
	}

	info := &domain.RepositoryInfo{
		NameWithOwner: q.Repository.NameWithOwner,
		Description:   q.Repository.Description,
		Stars:         q.Repository.StargazerCount,
		IsArchived:    q.Repository.IsArchived,
	}
	if q.Repository.DefaultBranchRef != nil {
		info.DefaultBranch = q.Repository.DefaultBranchRef.Name
	}
	return info, nil
}
