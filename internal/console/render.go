package console

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/report"
)

const (
	barWidth   = 24
	scoreWidth = 20

	markSelected = "[x]"
	markFree     = "[ ]"
	markDisabled = "[-]"
)

type styles struct {
	banner   lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	bar      lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			banner:   plain.Bold(true).Border(lipgloss.RoundedBorder()).Padding(0, 2),
			heading:  plain.Bold(true),
			muted:    plain,
			positive: plain,
			negative: plain,
			bar:      plain,
		}
	}

	return styles{
		banner: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("229")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		positive: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		negative: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		bar:      lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
	}
}

// RenderReport draws the full career report for the terminal.
func RenderReport(r *report.Report, noColor bool) string {
	if r == nil {
		return ""
	}

	st := newStyles(noColor)
	blocks := []string{st.banner.Render(r.Archetype)}

	if r.ArchetypeDescription != "" {
		blocks = append(blocks, st.muted.Render(r.ArchetypeDescription))
	}
	if r.PersonalitySummary != "" {
		blocks = append(blocks, section(st, "Personality", r.PersonalitySummary))
	}
	if len(r.Strengths) > 0 {
		blocks = append(blocks, section(st, "Strengths", bullets(st.positive, "+", r.Strengths)))
	}
	if len(r.Weaknesses) > 0 {
		blocks = append(blocks, section(st, "Areas to develop", bullets(st.negative, "-", r.Weaknesses)))
	}
	if len(r.RecommendedJobs) > 0 {
		blocks = append(blocks, section(st, "Recommended jobs", jobs(st, r.RecommendedJobs)))
	}
	if len(r.LearningPath) > 0 {
		steps := make([]string, 0, len(r.LearningPath))
		for i, step := range r.LearningPath {
			steps = append(steps, fmt.Sprintf("%d. %s", i+1, step))
		}
		blocks = append(blocks, section(st, "Learning path", strings.Join(steps, "\n")))
	}
	if r.LongTermOutlook != "" {
		blocks = append(blocks, section(st, "Long-term outlook", r.LongTermOutlook))
	}
	if len(r.RadarChartData) > 0 {
		blocks = append(blocks, section(st, "Capability radar", radar(st, r.RadarChartData)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...) + "\n"
}

func section(st styles, title, body string) string {
	return "\n" + st.heading.Render(title) + "\n" + body
}

func bullets(style lipgloss.Style, marker string, items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, style.Render(marker)+" "+item)
	}
	return strings.Join(lines, "\n")
}

func jobs(st styles, list []report.JobRecommendation) string {
	lines := make([]string, 0, len(list)*3)
	for _, job := range list {
		filled := report.Score(job.MatchScore, scoreWidth)
		lines = append(lines, fmt.Sprintf("%s %s %d%%",
			job.Title, st.bar.Render(meter(filled, scoreWidth)), job.MatchScore))
		if job.Reason != "" {
			lines = append(lines, "  "+job.Reason)
		}
		if len(job.RequiredSkills) > 0 {
			lines = append(lines, st.muted.Render("  Required skills: "+strings.Join(job.RequiredSkills, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

func radar(st styles, points []report.RadarPoint) string {
	bars := report.Radar(points, barWidth)

	width := 0
	for _, b := range bars {
		width = max(width, lipgloss.Width(b.Subject))
	}

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		lines = append(lines, fmt.Sprintf("%-*s %s %d/%d",
			width, b.Subject, st.bar.Render(meter(b.Filled, barWidth)), b.Value, b.Max))
	}
	return strings.Join(lines, "\n")
}

func meter(filled, width int) string {
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// ProgressLine describes the position of the displayed question.
func ProgressLine(pos, total int) string {
	if total <= 0 {
		return ""
	}
	return fmt.Sprintf("Question %d / %d (%d%%)", pos, total, pos*100/total)
}

// choiceItems labels the options of a multi-choice question. Options that cannot be
// added because the limit is reached are marked as disabled.
func choiceItems(q *questionnaire.Question, selected []string) []string {
	full := len(selected) >= q.Limit()

	items := make([]string, 0, len(q.Options))
	for _, option := range q.Options {
		mark := markFree
		switch {
		case slices.Contains(selected, option):
			mark = markSelected
		case full:
			mark = markDisabled
		}
		items = append(items, mark+" "+option)
	}
	return items
}

// ratingItems labels the rating scale with the question's end labels.
func ratingItems(q *questionnaire.Question) []string {
	items := make([]string, 0, questionnaire.RatingMax-questionnaire.RatingMin+1)
	for n := questionnaire.RatingMin; n <= questionnaire.RatingMax; n++ {
		label := fmt.Sprint(n)
		switch {
		case n == questionnaire.RatingMin && q.MinLabel != "":
			label += " - " + q.MinLabel
		case n == questionnaire.RatingMax && q.MaxLabel != "":
			label += " - " + q.MaxLabel
		}
		items = append(items, label)
	}
	return items
}
