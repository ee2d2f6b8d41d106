package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/github-contributor-stats/internal/domain"
)

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeProcessing
	outcomeFatal
)

// pollOutcome is the classification of a single stats/contributors response.
type pollOutcome struct {
	kind outcomeKind
	body []byte
	err  error
}

// FetchContributorStats retrieves the contributor statistics of a repository.
// GitHub computes these statistics lazily and answers 202 Accepted until they
// are ready, so the request is repeated up to the configured number of attempts.
func (g *GitHubGateway) FetchContributorStats(ctx context.Context, repo domain.RepositoryRef) ([]domain.ContributorRawStats, error) {
	path := fmt.Sprintf("repos/%s/%s/stats/contributors", repo.Owner, repo.Name)

	for attempt := 1; ; attempt++ {
		outcome := g.requestStats(ctx, path, repo.Token)

		switch outcome.kind {
		case outcomeSuccess:
			return DecodeContributorStats(outcome.body)
		case outcomeFatal:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("contributor statistics for %s: %w", repo, ctx.Err())
			}
			return nil, outcome.err
		}

		// Checked before waiting so the last attempt is not followed by a pointless sleep.
		if attempt >= g.maxAttempts {
			return nil, &RetryExhaustedError{Attempts: attempt}
		}
		if g.retryHook != nil {
			g.retryHook(attempt, g.retryDelay)
		}
		if err := g.wait(ctx, g.retryDelay); err != nil {
			return nil, fmt.Errorf("contributor statistics for %s: %w", repo, err)
		}
	}
}

// requestStats sends one request and classifies the response.
func (g *GitHubGateway) requestStats(ctx context.Context, path, token string) pollOutcome {
	req, err := g.restClient.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return pollOutcome{kind: outcomeFatal, err: &TransportError{Err: err}}
	}
	req.Header.Set("Accept", mediaType)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if token != "" {
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
	}

	resp, err := g.restClient.BareDo(ctx, req)
	if err != nil {
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			return pollOutcome{kind: outcomeProcessing}
		}
		statusCode := 0
		if resp != nil && resp.Response != nil {
			statusCode = resp.StatusCode
		}
		return pollOutcome{kind: outcomeFatal, err: &TransportError{StatusCode: statusCode, Err: err}}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pollOutcome{kind: outcomeFatal, err: &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}}
	}
	return pollOutcome{kind: outcomeSuccess, body: body}
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
