package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/report"
	"github.com/spigell/pathfinder/internal/session"
	"github.com/spigell/pathfinder/internal/share"
)

const (
	ItemStart    = "Start the assessment"
	ItemQuit     = "Quit"
	ItemContinue = "Continue"
	ItemShare    = "Copy summary to clipboard"
	ItemExport   = "Export report to file"
	ItemRestart  = "Restart"
)

var errQuit = errors.New("quit requested")

// Options configures a Console.
type Options struct {
	Out       io.Writer
	Prompter  Prompter
	Sharer    *share.Sharer
	ExportDir string
	NoColor   bool
	Logger    *zap.Logger
}

// Console drives a session from the terminal.
type Console struct {
	session   *session.Session
	out       io.Writer
	prompter  Prompter
	sharer    *share.Sharer
	exportDir string
	noColor   bool
	logger    *zap.Logger
	now       func() time.Time

	title   *color.Color
	info    *color.Color
	success *color.Color
	failure *color.Color
	faint   *color.Color
}

func New(s *session.Session, opts Options) *Console {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Prompter == nil {
		opts.Prompter = Terminal{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Sharer == nil {
		opts.Sharer = share.New(share.DefaultCopiedTTL, opts.Logger)
	}

	c := &Console{
		session:   s,
		out:       opts.Out,
		prompter:  opts.Prompter,
		sharer:    opts.Sharer,
		exportDir: opts.ExportDir,
		noColor:   opts.NoColor,
		logger:    opts.Logger,
		now:       time.Now,
		title:     color.New(color.Bold),
		info:      color.New(color.FgCyan),
		success:   color.New(color.FgGreen),
		failure:   color.New(color.FgRed, color.Bold),
		faint:     color.New(color.Faint),
	}

	if opts.NoColor {
		for _, col := range []*color.Color{c.title, c.info, c.success, c.failure, c.faint} {
			col.DisableColor()
		}
	}

	return c
}

// ColorEnabled reports whether f is a terminal that should receive colours.
func ColorEnabled(f *os.File, disabled bool) bool {
	if disabled || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run shows the session until the visitor quits.
func (c *Console) Run(ctx context.Context) error {
	var shown *report.Report

	for {
		var err error

		switch st := c.session.State().(type) {
		case session.Intro:
			shown = nil
			err = c.intro()
		case session.Testing:
			err = c.ask(ctx)
		case session.Analyzing:
			c.info.Fprintln(c.out, "Analyzing your answers, this can take a minute...")
			_, err = c.session.Wait(ctx)
		case session.Results:
			if shown != st.Report {
				fmt.Fprint(c.out, RenderReport(st.Report, c.noColor))
				shown = st.Report
			}
			err = c.results(st.Report)
		case session.Failed:
			err = c.failed(st.Message)
		}

		if err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				c.logger.Debug("console closed")
				return nil
			}
			return err
		}
	}
}

func (c *Console) intro() error {
	c.title.Fprintln(c.out, "PathFinder career assessment")
	fmt.Fprintf(c.out, "Answer %d questions about how you like to work. Your answers are analysed into a personal career report.\n\n",
		c.session.Catalog().Len())

	items := []string{ItemStart, ItemQuit}
	idx, err := c.prompter.Select("Ready?", items, 0)
	if err != nil {
		return err
	}
	if items[idx] == ItemQuit {
		return errQuit
	}
	return c.session.Start()
}

func (c *Console) ask(ctx context.Context) error {
	q, _, err := c.session.Current()
	if err != nil {
		return err
	}

	pos, total := c.session.Progress()
	fmt.Fprintln(c.out)
	c.info.Fprintln(c.out, ProgressLine(pos, total))
	if q.SubText != "" {
		c.faint.Fprintln(c.out, q.SubText)
	}

	switch q.Type {
	case questionnaire.SingleChoice:
		err = c.askSingle(q)
	case questionnaire.MultiChoice:
		err = c.askMulti(q)
	case questionnaire.Rating:
		err = c.askRating(q)
	case questionnaire.FreeText:
		err = c.askText(q)
	default:
		err = fmt.Errorf("%s: unsupported question type %q", q.ID, q.Type)
	}
	if err != nil {
		return err
	}

	_, err = c.session.Next(ctx)
	if errors.Is(err, session.ErrNotAnswered) {
		return nil
	}
	return err
}

func (c *Console) askSingle(q *questionnaire.Question) error {
	cursor := max(slices.Index(q.Options, c.session.Answers().Choice(q)), 0)

	idx, err := c.prompter.Select(q.Text, q.Options, cursor)
	if err != nil {
		return err
	}
	return c.session.Select(q.Options[idx])
}

// askMulti toggles options until the visitor picks Continue, which is offered only
// while the selection is valid.
func (c *Console) askMulti(q *questionnaire.Question) error {
	cursor := 0
	for {
		answers := c.session.Answers()
		selected := answers.Selected(q)

		items := choiceItems(q, selected)
		if answers.Answered(q) {
			items = append(items, ItemContinue)
		}

		label := fmt.Sprintf("%s (selected %d / %d)", q.Text, len(selected), q.Limit())
		idx, err := c.prompter.Select(label, items, min(cursor, len(items)-1))
		if err != nil {
			return err
		}
		if idx == len(q.Options) {
			return nil
		}

		if _, err := c.session.Toggle(q.Options[idx]); err != nil {
			return err
		}
		cursor = idx
	}
}

func (c *Console) askRating(q *questionnaire.Question) error {
	current, ok := c.session.Answers().Rating(q)
	if !ok {
		current = questionnaire.DefaultRating
	}

	idx, err := c.prompter.Select(q.Text, ratingItems(q), current-questionnaire.RatingMin)
	if err != nil {
		return err
	}
	return c.session.Rate(questionnaire.RatingMin + idx)
}

func (c *Console) askText(q *questionnaire.Question) error {
	text, err := c.prompter.Input(q.Text, c.session.Answers().Choice(q), func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("please write a few words")
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.session.Write(text)
}

func (c *Console) results(r *report.Report) error {
	items := []string{ItemShare, ItemExport, ItemRestart, ItemQuit}

	label := "What next?"
	if c.sharer.Copied() {
		label = "Copied! What next?"
	}

	idx, err := c.prompter.Select(label, items, 0)
	if err != nil {
		return err
	}

	switch items[idx] {
	case ItemShare:
		if c.sharer.Share(r) {
			c.success.Fprintln(c.out, "Summary copied to clipboard.")
		}
		return nil
	case ItemExport:
		return c.exportMenu(r)
	case ItemRestart:
		return c.session.Reset()
	default:
		return errQuit
	}
}

func (c *Console) exportMenu(r *report.Report) error {
	items := make([]string, 0, len(report.Formats))
	for _, f := range report.Formats {
		items = append(items, string(f))
	}

	idx, err := c.prompter.Select("Export format", items, 0)
	if err != nil {
		return err
	}

	path, err := c.Export(r, report.Formats[idx])
	if err != nil {
		c.failure.Fprintf(c.out, "Export failed: %v\n", err)
		c.logger.Warn("exporting report", zap.Error(err))
		return nil
	}

	c.success.Fprintf(c.out, "Report saved to %s\n", path)
	return nil
}

// Export writes the report into the export directory and returns the file path.
func (c *Console) Export(r *report.Report, format report.Format) (string, error) {
	data, err := report.Export(r, format)
	if err != nil {
		return "", err
	}

	dir := c.exportDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("pathfinder-report-%d.%s", c.now().Unix(), format.Extension()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	c.logger.Info("report exported", zap.String("filename", path), zap.String("format", string(format)))
	return path, nil
}

func (c *Console) failed(message string) error {
	c.failure.Fprintln(c.out, "The analysis could not be completed.")
	fmt.Fprintln(c.out, message)

	items := []string{ItemRestart, ItemQuit}
	idx, err := c.prompter.Select("What next?", items, 0)
	if err != nil {
		return err
	}
	if items[idx] == ItemQuit {
		return errQuit
	}
	return c.session.Reset()
}
