// Package ui shows a processing run in the terminal: a progress bar, the
// tail of the run log and the completion summary.
package ui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cubeproc/internal/cube"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Runner performs one run, sending its events to events while it works.
type Runner func(events chan<- cube.Event) (*cube.Result, error)

// Options controls the run view.
type Options struct {
	LogLines int
	Title    string
}

type eventMsg cube.Event

type doneMsg struct {
	result *cube.Result
	err    error
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	barFullStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	barEmptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	phaseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	doneStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	levelStyles = map[slog.Level]lipgloss.Style{
		slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

type model struct {
	title    string
	logLines int
	width    int

	events  <-chan cube.Event
	done    <-chan struct{}
	outcome *doneMsg

	progress float64
	phase    string
	lines    []cube.Event
	warnings int
	errors   int

	finished bool
	result   *cube.Result
	err      error
}

func newModel(events <-chan cube.Event, done <-chan struct{}, outcome *doneMsg, opts Options) model {
	if opts.LogLines <= 0 {
		opts.LogLines = 15
	}
	if opts.Title == "" {
		opts.Title = "Cube Data Processor"
	}
	return model{
		title:    opts.Title,
		logLines: opts.LogLines,
		width:    60,
		events:   events,
		done:     done,
		outcome:  outcome,
		phase:    "Starting...",
	}
}

// waitForActivity delivers the next event, or the outcome once done is closed.
func waitForActivity(events <-chan cube.Event, done <-chan struct{}, outcome *doneMsg) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-events:
			return eventMsg(e)
		case <-done:
			return *outcome
		}
	}
}

func (m model) Init() tea.Cmd {
	return waitForActivity(m.events, m.done, m.outcome)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-4, 20)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "enter", "esc":
			if m.finished {
				return m, tea.Quit
			}
		}
	case eventMsg:
		m.record(cube.Event(msg))
		return m, waitForActivity(m.events, m.done, m.outcome)
	case doneMsg:
		m.finished = true
		m.result = msg.result
		m.err = msg.err
		if msg.err == nil {
			m.progress = 1
		}
	}
	return m, nil
}

func (m *model) record(e cube.Event) {
	if e.Kind == cube.KindProgress {
		m.progress = e.Progress
		m.phase = e.Message
	}
	switch e.Level {
	case slog.LevelWarn:
		m.warnings++
	case slog.LevelError:
		m.errors++
	}
	m.lines = append(m.lines, e)
	if len(m.lines) > m.logLines {
		m.lines = m.lines[len(m.lines)-m.logLines:]
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(progressBar(m.progress, m.width))
	fmt.Fprintf(&b, " %3.0f%%\n", m.progress*100)
	b.WriteString(phaseStyle.Render(m.phase))
	b.WriteString("\n")

	var pane strings.Builder
	for i, e := range m.lines {
		if i > 0 {
			pane.WriteString("\n")
		}
		pane.WriteString(formatEvent(e))
	}
	if len(m.lines) == 0 {
		pane.WriteString(helpStyle.Render("waiting for events..."))
	}
	b.WriteString(paneStyle.Width(m.width).Render(pane.String()))
	b.WriteString("\n")

	if m.finished {
		b.WriteString(Summary(m.result, m.err))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("q / enter: close"))
	} else {
		b.WriteString(helpStyle.Render(fmt.Sprintf("warnings: %d  errors: %d  |  ctrl+c: close view", m.warnings, m.errors)))
	}
	return b.String()
}

func progressBar(fraction float64, width int) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * float64(width))
	return barFullStyle.Render(strings.Repeat("█", filled)) + barEmptStyle.Render(strings.Repeat("░", width-filled))
}

func formatEvent(e cube.Event) string {
	line := e.Message
	if style, ok := levelStyles[e.Level]; ok {
		line = style.Render(line)
	}
	return line
}

// Summary is the completion message of a run. Operations are shown even
// when the run failed, in which case they are zero.
func Summary(result *cube.Result, err error) string {
	ops := 0
	if result != nil {
		ops = result.Operations()
	}

	var b strings.Builder
	if err != nil {
		b.WriteString(failStyle.Render(fmt.Sprintf("Processing Failed: %v", err)))
		b.WriteString("\n")
	} else {
		b.WriteString(doneStyle.Render("Processing Complete!"))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total Operations: %d", ops)
	if result != nil && err == nil {
		fmt.Fprintf(&b, " (%d rows, %d sheets dated)\nSaved to: %s", result.RowsWritten, result.SheetsAnnotated, result.OutputPath)
		if result.Errors != nil {
			b.WriteString("\n")
			b.WriteString(levelStyles[slog.LevelWarn].Render(fmt.Sprintf("Skipped: %v", result.Errors)))
		}
	}
	return b.String()
}

// Run shows run in an interactive view and returns its outcome once the run
// has finished, even if the user closes the view early.
func Run(run Runner, opts Options) (*cube.Result, error) {
	events := make(chan cube.Event)
	done := make(chan struct{})
	outcome := &doneMsg{}
	go func() {
		outcome.result, outcome.err = run(events)
		close(done)
	}()

	_, uiErr := tea.NewProgram(newModel(events, done, outcome, opts)).Run()

	// The view may close before the run does: keep the run unblocked.
	for {
		select {
		case <-events:
		case <-done:
			if uiErr != nil && outcome.err == nil {
				return outcome.result, fmt.Errorf("run view: %w", uiErr)
			}
			return outcome.result, outcome.err
		}
	}
}

// RunPlain prints every event as a line to w, then the summary.
func RunPlain(w io.Writer, run Runner) (*cube.Result, error) {
	events := make(chan cube.Event)
	printed := make(chan struct{})
	go func() {
		for e := range events {
			fmt.Fprintln(w, formatEvent(e))
		}
		close(printed)
	}()

	result, err := run(events)
	close(events)
	<-printed

	fmt.Fprintln(w, Summary(result, err))
	return result, err
}
