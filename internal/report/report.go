// Package report writes a summary of an exam run as Markdown, HTML or PDF.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"examsolver/internal/models"
	"examsolver/internal/templates"

	"github.com/mandolyte/mdtopdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const title = "Exam run report"

// Markdown renders the summary as a Markdown document with one table row per question.
func Markdown(summary models.RunSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	if summary.Browser != "" {
		fmt.Fprintf(&b, "- Browser: %s\n", summary.Browser)
	}
	fmt.Fprintf(&b, "- Questions: %d\n", len(summary.Results))
	fmt.Fprintf(&b, "- Answered: %d\n", summary.Answered)
	fmt.Fprintf(&b, "- No answer found: %d\n\n", summary.Unanswered)

	b.WriteString("| # | Question | Marked |\n")
	b.WriteString("|---|----------|--------|\n")
	for _, result := range summary.Results {
		marked := result.Marked.String()
		if len(result.Marked) == 0 {
			marked = "no answer found"
		}
		fmt.Fprintf(&b, "| %d | %s | %s |\n", result.Ordinal, escapeCell(result.Question), marked)
	}

	return b.String()
}

// Write saves the report, choosing the format from the file extension.
func Write(path string, summary models.RunSummary) error {
	md := Markdown(summary)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return WriteHTML(path, md)
	case ".pdf":
		return WritePDF(path, md)
	case ".md", ".markdown", "":
		if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
			return fmt.Errorf("failed to write markdown report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported report format %q", filepath.Ext(path))
	}
}

func WriteHTML(path, md string) error {
	doc, err := RenderHTML(md, time.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write html report: %w", err)
	}
	return nil
}

// RenderHTML converts md and places it inside the embedded report template.
func RenderHTML(md string, generated time.Time) ([]byte, error) {
	converter := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := converter.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	shell, err := template.New("report").Parse(templates.ReportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	var out bytes.Buffer
	err = shell.Execute(&out, struct {
		Title     string
		Body      template.HTML
		Generated string
	}{
		Title:     title,
		Body:      template.HTML(body.String()),
		Generated: generated.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute report template: %w", err)
	}

	return out.Bytes(), nil
}

func WritePDF(path, md string) error {
	renderer := mdtopdf.NewPdfRenderer("portrait", "A4", path, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process([]byte(md)); err != nil {
		return fmt.Errorf("failed to write pdf report: %w", err)
	}
	return nil
}

func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", `\|`)
}
