package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/naka-gawa/github-contributor-stats/internal/domain"
)

func sampleStats() *domain.RepositoryStatistics {
	return &domain.RepositoryStatistics{
		Repository: domain.RepositoryRef{Owner: "octocat", Name: "hello-world", Token: "s3cret"},
		Contributors: []domain.ContributorSummary{
			{Username: "octocat", TotalCommits: 15, LinesAdded: 11898, LinesDeleted: 127},
			{Username: "hubot", TotalCommits: 1, LinesAdded: 3, LinesDeleted: 2},
			{Username: "monalisa", TotalCommits: 4, LinesAdded: 10, LinesDeleted: 0},
		},
	}
}

func TestPlainTextFormatter(t *testing.T) {
	data, err := (&PlainTextFormatter{}).Format(sampleStats())
	require.NoError(t, err)

	expected := "octocat\nCommits: 15\nLines added: 11898\nLines deleted: 127\nLines changed: 12025\n\n" +
		"hubot\nCommits: 1\nLines added: 3\nLines deleted: 2\nLines changed: 5\n\n" +
		"monalisa\nCommits: 4\nLines added: 10\nLines deleted: 0\nLines changed: 10\n\n"
	assert.Equal(t, expected, string(data))
}

func TestPlainTextFormatter_InfoAndTotals(t *testing.T) {
	stats := sampleStats()
	stats.Info = &domain.RepositoryInfo{NameWithOwner: "octocat/hello-world", DefaultBranch: "main", Stars: 7}

	data, err := (&PlainTextFormatter{WithTotals: true}).Format(stats)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "Repository: octocat/hello-world\nDefault branch: main\nStars: 7\n\n")
	assert.Contains(t, out, "Contributors: 3\n")
	assert.Contains(t, out, "Total commits: 20\n")
	assert.Contains(t, out, "Total lines changed: 12040\n")
	assert.Contains(t, out, "Mean commits per contributor: 6.67\n")
	assert.Contains(t, out, "Median commits per contributor: 4.00\n")
}

func TestJSONFormatter(t *testing.T) {
	data, err := (&JSONFormatter{WithTotals: true}).Format(sampleStats())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "s3cret")

	var decoded struct {
		Repository   map[string]string `json:"repository"`
		Contributors []map[string]any  `json:"contributors"`
		Totals       Totals            `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]string{"owner": "octocat", "name": "hello-world"}, decoded.Repository)
	require.Len(t, decoded.Contributors, 3)
	assert.Equal(t, "octocat", decoded.Contributors[0]["username"])
	assert.EqualValues(t, 12025, decoded.Contributors[0]["lines_changed"])
	assert.Equal(t, 20, decoded.Totals.Commits)
}

func TestXLSXFormatter(t *testing.T) {
	data, err := (&XLSXFormatter{WithTotals: true}).Format(sampleStats())
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(contributorsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Username", "Commits", "Lines added", "Lines deleted", "Lines changed"}, rows[0])
	assert.Equal(t, []string{"octocat", "15", "11898", "127", "12025"}, rows[1])
	assert.Equal(t, []string{"Total", "20", "11911", "129", "12040"}, rows[4])
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"", "text", "JSON", "xlsx"} {
		f, err := NewFormatter(name, false)
		assert.NoError(t, err, name)
		assert.NotNil(t, f, name)
	}
	_, err := NewFormatter("yaml", false)
	assert.Error(t, err)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals, err := ComputeTotals(&domain.RepositoryStatistics{})
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) error { return errors.New("disk full") }

func TestGenerator_Generate(t *testing.T) {
	t.Run("console", func(t *testing.T) {
		var out bytes.Buffer
		err := NewGenerator(&PlainTextFormatter{}, &ConsoleWriter{Out: &out}).Generate(sampleStats())
		require.NoError(t, err)
		assert.Contains(t, out.String(), "octocat\nCommits: 15\n")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		err := NewGenerator(&JSONFormatter{}, &FileWriter{Path: path}).Generate(sampleStats())
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"username": "hubot"`)
	})

	t.Run("writer error", func(t *testing.T) {
		err := NewGenerator(&PlainTextFormatter{}, failingWriter{}).Generate(sampleStats())
		assert.EqualError(t, err, "disk full")
	})

	t.Run("nil statistics", func(t *testing.T) {
		err := NewGenerator(&PlainTextFormatter{}, failingWriter{}).Generate(nil)
		assert.Error(t, err)
	})
}
