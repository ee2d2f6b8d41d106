package report

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-contributor-stats/internal/domain"
)

// Totals summarizes a whole repository report.
type Totals struct {
	Contributors  int     `json:"contributors"`
	Commits       int     `json:"commits"`
	LinesAdded    int     `json:"lines_added"`
	LinesDeleted  int     `json:"lines_deleted"`
	LinesChanged  int     `json:"lines_changed"`
	MeanCommits   float64 `json:"mean_commits"`
	MedianCommits float64 `json:"median_commits"`
}

// ComputeTotals adds up every contributor. Mean and median are zero when
// there are no contributors.
func ComputeTotals(s *domain.RepositoryStatistics) (Totals, error) {
	var totals Totals
	commits := make(stats.Float64Data, 0, len(s.Contributors))
	for _, c := range s.Contributors {
		totals.Contributors++
		totals.Commits += c.TotalCommits
		totals.LinesAdded += c.LinesAdded
		totals.LinesDeleted += c.LinesDeleted
		commits = append(commits, float64(c.TotalCommits))
	}
	totals.LinesChanged = totals.LinesAdded + totals.LinesDeleted
	if len(commits) == 0 {
		return totals, nil
	}

	var err error
	if totals.MeanCommits, err = commits.Mean(); err != nil {
		return Totals{}, err
	}
	if totals.MedianCommits, err = commits.Median(); err != nil {
		return Totals{}, err
	}
	return totals, nil
}
