// Package report renders repository statistics and writes them to an output sink.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/naka-gawa/github-contributor-stats/internal/domain"
)

// Formatter renders repository statistics.
type Formatter interface {
	Format(s *domain.RepositoryStatistics) ([]byte, error)
}

// Format names accepted by NewFormatter.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, withTotals bool) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", FormatText:
		return &PlainTextFormatter{WithTotals: withTotals}, nil
	case FormatJSON:
		return &JSONFormatter{WithTotals: withTotals}, nil
	case FormatXLSX:
		return &XLSXFormatter{WithTotals: withTotals}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (expected %s, %s or %s)", name, FormatText, FormatJSON, FormatXLSX)
	}
}

// PlainTextFormatter prints one block per contributor.
type PlainTextFormatter struct {
	WithTotals bool
}

func (f *PlainTextFormatter) Format(s *domain.RepositoryStatistics) ([]byte, error) {
	var b bytes.Buffer

	if s.Info != nil {
		fmt.Fprintf(&b, "Repository: %s\n", s.Info.NameWithOwner)
		if s.Info.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", s.Info.Description)
		}
		if s.Info.DefaultBranch != "" {
			fmt.Fprintf(&b, "Default branch: %s\n", s.Info.DefaultBranch)
		}
		fmt.Fprintf(&b, "Stars: %d\n", s.Info.Stars)
		if s.Info.IsArchived {
			b.WriteString("Archived: yes\n")
		}
		b.WriteString("\n")
	}

	for _, c := range s.Contributors {
		fmt.Fprintln(&b, c.Username)
		fmt.Fprintf(&b, "Commits: %d\n", c.TotalCommits)
		fmt.Fprintf(&b, "Lines added: %d\n", c.LinesAdded)
		fmt.Fprintf(&b, "Lines deleted: %d\n", c.LinesDeleted)
		fmt.Fprintf(&b, "Lines changed: %d\n", c.LinesChanged())
		b.WriteString("\n")
	}

	if f.WithTotals {
		totals, err := ComputeTotals(s)
		if err != nil {
			return nil, fmt.Errorf("failed to compute totals: %w", err)
		}
		fmt.Fprintf(&b, "Contributors: %d\n", totals.Contributors)
		fmt.Fprintf(&b, "Total commits: %d\n", totals.Commits)
		fmt.Fprintf(&b, "Total lines changed: %d\n", totals.LinesChanged)
		fmt.Fprintf(&b, "Mean commits per contributor: %.2f\n", totals.MeanCommits)
		fmt.Fprintf(&b, "Median commits per contributor: %.2f\n", totals.MedianCommits)
	}

	return b.Bytes(), nil
}

// JSONFormatter renders the statistics as indented JSON.
type JSONFormatter struct {
	WithTotals bool
}

type jsonReport struct {
	*domain.RepositoryStatistics
	Totals *Totals `json:"totals,omitempty"`
}

func (f *JSONFormatter) Format(s *domain.RepositoryStatistics) ([]byte, error) {
	r := jsonReport{RepositoryStatistics: s}
	if f.WithTotals {
		totals, err := ComputeTotals(s)
		if err != nil {
			return nil, fmt.Errorf("failed to compute totals: %w", err)
		}
		r.Totals = &totals
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// XLSXFormatter renders a spreadsheet with one row per contributor.
type XLSXFormatter struct {
	WithTotals bool
}

const contributorsSheet = "Contributors"

var xlsxHeader = []interface{}{"Username", "Commits", "Lines added", "Lines deleted", "Lines changed"}

func (f *XLSXFormatter) Format(s *domain.RepositoryStatistics) ([]byte, error) {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", contributorsSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := make([][]interface{}, 0, len(s.Contributors)+2)
	rows = append(rows, xlsxHeader)
	for _, c := range s.Contributors {
		rows = append(rows, []interface{}{c.Username, c.TotalCommits, c.LinesAdded, c.LinesDeleted, c.LinesChanged()})
	}
	if f.WithTotals {
		totals, err := ComputeTotals(s)
		if err != nil {
			return nil, fmt.Errorf("failed to compute totals: %w", err)
		}
		rows = append(rows, []interface{}{"Total", totals.Commits, totals.LinesAdded, totals.LinesDeleted, totals.LinesChanged})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := book.SetSheetRow(contributorsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
