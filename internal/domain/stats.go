// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"encoding/json"
	"time"
)

// UserType is the kind of GitHub account that authored commits.
type UserType string

const (
	UserTypeUser         UserType = "User"
	UserTypeOrganization UserType = "Organization"
)

// Author identifies a contributor as reported by GitHub.
// All fields are comparable, so two authors are equal when their values are.
type Author struct {
	Login      string
	ID         int64
	NodeID     string
	AvatarURL  string
	GravatarID string
	URL        string
	HTMLURL    string
	Type       UserType
	SiteAdmin  bool
}

// WeekRecord holds one week of commit activity for a single contributor.
type WeekRecord struct {
	Start     time.Time
	Additions int
	Deletions int
	Commits   int
}

// ContributorRawStats is one element of the contributor statistics payload.
// Total is the commit count as reported by GitHub; it is kept for comparison
// but totals are always recomputed from Weeks.
type ContributorRawStats struct {
	Author Author
	Total  int
	Weeks  []WeekRecord
}

// WeeksTotal returns the number of commits summed over all weeks.
func (c ContributorRawStats) WeeksTotal() int {
	total := 0
	for _, w := range c.Weeks {
		total += w.Commits
	}
	return total
}

// ContributorSummary holds the aggregated activity of a single contributor.
// It is the core domain entity of this application.
type ContributorSummary struct {
	Username     string `json:"username"`
	TotalCommits int    `json:"total_commits"`
	LinesAdded   int    `json:"lines_added"`
	LinesDeleted int    `json:"lines_deleted"`
}

// LinesChanged is the sum of the lines added and deleted.
func (s ContributorSummary) LinesChanged() int {
	return s.LinesAdded + s.LinesDeleted
}

// MarshalJSON adds the derived lines_changed field.
func (s ContributorSummary) MarshalJSON() ([]byte, error) {
	type summary ContributorSummary
	return json.Marshal(struct {
		summary
		LinesChanged int `json:"lines_changed"`
	}{
		summary:      summary(s),
		LinesChanged: s.LinesChanged(),
	})
}

// RepositoryInfo is descriptive metadata about a repository.
type RepositoryInfo struct {
	NameWithOwner string `json:"name_with_owner"`
	Description   string `json:"description,omitempty"`
	DefaultBranch string `json:"default_branch,omitempty"`
	Stars         int    `json:"stars"`
	IsArchived    bool   `json:"is_archived"`
}

// RepositoryStatistics is the result of a contributor statistics run.
// Contributors keep the order returned by the API.
type RepositoryStatistics struct {
	Repository   RepositoryRef        `json:"repository"`
	Info         *RepositoryInfo      `json:"info,omitempty"`
	Contributors []ContributorSummary `json:"contributors"`
}
