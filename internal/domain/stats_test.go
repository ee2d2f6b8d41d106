package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositoryRef(t *testing.T) {
	testCases := []struct {
		name        string
		owner       string
		repo        string
		token       string
		expected    RepositoryRef
		expectError bool
	}{
		{
			name:     "with token",
			owner:    "octocat",
			repo:     "hello-world",
			token:    "secret",
			expected: RepositoryRef{Owner: "octocat", Name: "hello-world", Token: "secret"},
		},
		{
			name:     "surrounding whitespace is trimmed",
			owner:    " octocat ",
			repo:     "hello-world\n",
			expected: RepositoryRef{Owner: "octocat", Name: "hello-world"},
		},
		{name: "missing owner", owner: "", repo: "hello-world", expectError: true},
		{name: "missing name", owner: "octocat", repo: "  ", expectError: true},
		{name: "slash in name", owner: "octocat", repo: "a/b", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := NewRepositoryRef(tc.owner, tc.repo, tc.token)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrInvalidRepository)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ref)
		})
	}
}

func TestParseRepositoryRef(t *testing.T) {
	ref, err := ParseRepositoryRef("octocat/hello-world", "")
	require.NoError(t, err)
	assert.Equal(t, "octocat/hello-world", ref.String())
	assert.False(t, ref.HasToken())

	_, err = ParseRepositoryRef("octocat", "")
	assert.ErrorIs(t, err, ErrInvalidRepository)

	_, err = ParseRepositoryRef("octocat/", "")
	assert.ErrorIs(t, err, ErrInvalidRepository)
}

func TestContributorSummary_LinesChanged(t *testing.T) {
	s := ContributorSummary{Username: "octocat", TotalCommits: 15, LinesAdded: 11898, LinesDeleted: 127}
	assert.Equal(t, 12025, s.LinesChanged())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"octocat","total_commits":15,"lines_added":11898,"lines_deleted":127,"lines_changed":12025}`, string(data))
}

func TestRepositoryRef_MarshalJSONOmitsToken(t *testing.T) {
	data, err := json.Marshal(RepositoryRef{Owner: "octocat", Name: "hello-world", Token: "secret"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"octocat","name":"hello-world"}`, string(data))
	assert.NotContains(t, string(data), "secret")
}

func TestContributorRawStats_WeeksTotal(t *testing.T) {
	raw := ContributorRawStats{Total: 3, Weeks: []WeekRecord{{Commits: 1}, {Commits: 4}}}
	assert.Equal(t, 5, raw.WeeksTotal())
}
