// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-contributor-stats/internal/domain"
	"github.com/naka-gawa/github-contributor-stats/internal/gateway"
)

// Aggregator is the use case for building contributor statistics.
// It orchestrates the fetching and summarizing of data.
type Aggregator struct {
	fetcher       gateway.Fetcher
	logger        logrus.FieldLogger
	fetchMetadata bool
}

// NewAggregator creates a new Aggregator instance.
// When fetchMetadata is set, repository metadata is looked up alongside the
// statistics for repositories that carry a token.
func NewAggregator(fetcher gateway.Fetcher, logger logrus.FieldLogger, fetchMetadata bool) *Aggregator {
	return &Aggregator{
		fetcher:       fetcher,
		logger:        logger,
		fetchMetadata: fetchMetadata,
	}
}

// Aggregate retrieves the contributor statistics of repo and reduces them to
// one summary per contributor, in the order returned by GitHub.
func (a *Aggregator) Aggregate(ctx context.Context, repo domain.RepositoryRef) (*domain.RepositoryStatistics, error) {
	log := a.logger.WithField("repository", repo.String())
	log.Debug("Usecase: Starting contributor statistics retrieval...")

	var (
		rawStats []domain.ContributorRawStats
		info     *domain.RepositoryInfo
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		rawStats, err = a.fetcher.FetchContributorStats(egCtx, repo)
		return err
	})

	// GraphQL requires authentication, so metadata is only fetched with a token.
	if a.fetchMetadata && repo.HasToken() {
		eg.Go(func() error {
			// Metadata is optional; a lookup failure never fails the statistics.
			repoInfo, err := a.fetcher.FetchRepositoryInfo(egCtx, repo)
			if err != nil {
				if !gateway.IsCancellation(err) {
					log.WithError(err).Warn("Failed to fetch repository metadata; continuing without it")
				}
				return nil
			}
			info = repoInfo
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch statistics for %s: %w", repo, err)
	}
	log.WithField("contributors", len(rawStats)).Debug("Usecase: All data fetched successfully.")

	for _, raw := range rawStats {
		if sum := raw.WeeksTotal(); sum != raw.Total {
			log.WithFields(logrus.Fields{
				"contributor":    raw.Author.Login,
				"reported_total": raw.Total,
				"weeks_total":    sum,
			}).Warn("Reported commit total differs from weekly data; using weekly data")
		}
	}

	stats := &domain.RepositoryStatistics{
		Repository:   repo,
		Info:         info,
		Contributors: SummarizeAll(rawStats),
	}
	log.Debug("Usecase: Aggregation complete.")
	return stats, nil
}

// Summarize reduces the weekly records of one contributor to totals.
func Summarize(raw domain.ContributorRawStats) domain.ContributorSummary {
	summary := domain.ContributorSummary{Username: raw.Author.Login}
	for _, w := range raw.Weeks {
		summary.TotalCommits += w.Commits
		summary.LinesAdded += w.Additions
		summary.LinesDeleted += w.Deletions
	}
	return summary
}

// SummarizeAll produces exactly one summary per contributor, keeping the input order.
func SummarizeAll(raw []domain.ContributorRawStats) []domain.ContributorSummary {
	summaries := make([]domain.ContributorSummary, 0, len(raw))
	for _, r := range raw {
		summaries = append(summaries, Summarize(r))
	}
	return summaries
}
