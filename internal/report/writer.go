package report

import (
	"fmt"
	"io"
	"os"

	"github.com/naka-gawa/github-contributor-stats/internal/domain"
)

// Writer sends a rendered report to its destination.
type Writer interface {
	Write(report []byte) error
}

// ConsoleWriter writes reports to a stream, usually standard output.
type ConsoleWriter struct {
	Out io.Writer
}

func (w *ConsoleWriter) Write(report []byte) error {
	out := w.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := out.Write(report)
	return err
}

// FileWriter writes reports to a file, replacing any previous content.
type FileWriter struct {
	Path string
}

func (w *FileWriter) Write(report []byte) error {
	if err := os.WriteFile(w.Path, report, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", w.Path, err)
	}
	return nil
}

// Generator formats statistics and hands the result to a Writer.
type Generator struct {
	formatter Formatter
	writer    Writer
}

// NewGenerator creates a new Generator instance.
func NewGenerator(formatter Formatter, writer Writer) *Generator {
	return &Generator{formatter: formatter, writer: writer}
}

// Generate renders and writes the report.
func (g *Generator) Generate(s *domain.RepositoryStatistics) error {
	if s == nil {
		return fmt.Errorf("no statistics to report")
	}
	data, err := g.formatter.Format(s)
	if err != nil {
		return err
	}
	return g.writer.Write(data)
}
