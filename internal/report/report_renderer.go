// Package report renders evaluation results as markdown for terminal
// output and CI artifacts.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"agent-eval/internal/evaluation"
)

//go:embed report_template.md
var reportTemplateText string

var reportTemplate *template.Template

func init() {
	reportTemplate = template.Must(
		template.New("report").Funcs(templateFuncs()).Parse(reportTemplateText),
	)
}

// Data is everything the report template needs
type Data struct {
	GeneratedAt      time.Time
	DatasetID        string
	PRNumber         int
	Report           *evaluation.Report
	ApproachAnalysis string
}

// Render produces the markdown report for one evaluation
func Render(data *Data) (string, error) {
	if data.Report == nil {
		return "", fmt.Errorf("cannot render report without evaluation result")
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

// templateFuncs returns all custom template functions
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"escapePipes": escapePipes,
		"formatScore": formatScore,
		"formatDate":  formatDate,
	}
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
