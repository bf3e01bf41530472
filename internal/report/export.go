package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Format is an export encoding of a report.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Extension returns the file extension used for exported files.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json"
	}
}

// Export encodes the report in the requested format.
func Export(r *Report, format Format) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("report is required")
	}

	switch format {
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	case FormatYAML:
		return yaml.Marshal(r)
	case FormatMarkdown:
		return []byte(Markdown(r)), nil
	case FormatHTML:
		return renderHTML(r)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Markdown renders the full report as a markdown document.
func Markdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Archetype)
	if r.ArchetypeDescription != "" {
		fmt.Fprintf(&b, "_%s_\n\n", r.ArchetypeDescription)
	}

	if r.PersonalitySummary != "" {
		fmt.Fprintf(&b, "## Personality\n\n%s\n\n", r.PersonalitySummary)
	}

	writeList(&b, "Strengths", r.Strengths)
	writeList(&b, "Areas to develop", r.Weaknesses)

	if len(r.RecommendedJobs) > 0 {
		b.WriteString("## Recommended jobs\n\n")
		for _, job := range r.RecommendedJobs {
			fmt.Fprintf(&b, "### %s (%d%% match)\n\n%s\n\n", job.Title, job.MatchScore, job.Reason)
			if len(job.RequiredSkills) > 0 {
				fmt.Fprintf(&b, "Required skills: %s\n\n", strings.Join(job.RequiredSkills, ", "))
			}
		}
	}

	if len(r.LearningPath) > 0 {
		b.WriteString("## Learning path\n\n")
		for i, step := range r.LearningPath {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}

	if r.LongTermOutlook != "" {
		fmt.Fprintf(&b, "## Long-term outlook\n\n%s\n\n", r.LongTermOutlook)
	}

	if bars := Radar(r.RadarChartData, 0); len(bars) > 0 {
		b.WriteString("## Capability radar\n\n| Dimension | Score |\n|---|---|\n")
		for _, bar := range bars {
			fmt.Fprintf(&b, "| %s | %d / %d |\n", bar.Subject, bar.Value, bar.Max)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func renderHTML(r *Report) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>PathFinder AI career report</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	return page.Bytes(), nil
}
