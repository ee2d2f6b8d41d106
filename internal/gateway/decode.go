package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-contributor-stats/internal/domain"
)

// DecodeContributorStats parses a stats/contributors response body.
// The element order of the response is preserved. An empty body (204 No Content)
// yields no contributors.
func DecodeContributorStats(body []byte) ([]domain.ContributorRawStats, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []domain.ContributorRawStats{}, nil
	}

	var payload []*github.ContributorStats
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{Err: err}
	}

	stats := make([]domain.ContributorRawStats, 0, len(payload))
	for i, p := range payload {
		raw, err := toInternalContributorStats(p)
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("element %d: %w", i, err)}
		}
		stats = append(stats, raw)
	}
	return stats, nil
}

// toInternalContributorStats translates the go-github model to our internal model.
func toInternalContributorStats(p *github.ContributorStats) (domain.ContributorRawStats, error) {
	if p.GetAuthor() == nil {
		return domain.ContributorRawStats{}, errors.New("author is missing")
	}
	author := p.GetAuthor()
	if author.GetLogin() == "" {
		return domain.ContributorRawStats{}, errors.New("author login is empty")
	}

	weeks := make([]domain.WeekRecord, 0, len(p.Weeks))
	for _, w := range p.Weeks {
		start := w.GetWeek().Time.UTC()
		if w.GetAdditions() < 0 || w.GetDeletions() < 0 || w.GetCommits() < 0 {
			return domain.ContributorRawStats{}, fmt.Errorf("negative counts for %s in week %s", author.GetLogin(), start.Format("2006-01-02"))
		}
		weeks = append(weeks, domain.WeekRecord{
			Start:     start,
			Additions: w.GetAdditions(),
			Deletions: w.GetDeletions(),
			Commits:   w.GetCommits(),
		})
	}

	return domain.ContributorRawStats{
		Author: domain.Author{
			Login:      author.GetLogin(),
			ID:         author.GetID(),
			NodeID:     author.GetNodeID(),
			AvatarURL:  author.GetAvatarURL(),
			GravatarID: author.GetGravatarID(),
			URL:        author.GetURL(),
			HTMLURL:    author.GetHTMLURL(),
			Type:       domain.UserType(author.GetType()),
			SiteAdmin:  author.GetSiteAdmin(),
		},
		Total: p.GetTotal(),
		Weeks: weeks,
	}, nil
}
