package mapping

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateSelectLabel state = iota
	stateSelectMarker
	stateConfirm
)

// TUIOptions controls the alias mapper's layout.
type TUIOptions struct {
	RowsPerPage int
}

type model struct {
	labels  []string
	markers []string
	aliases map[string]string // label -> marker
	ignored map[string]bool
	state   state
	current string
	saved   bool

	labelCursor int
	labelPage   int
	perPage     int

	markerCursor  int
	markerPage    int
	markerPerPage int

	width  int
	height int

	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
	progressStyle lipgloss.Style
	mappedStyle   lipgloss.Style
	ignoredStyle  lipgloss.Style
}

func initialModel(labels, markers []string, opts TUIOptions) model {
	perPage := opts.RowsPerPage
	if perPage <= 0 {
		perPage = 15
	}
	return model{
		labels:        labels,
		markers:       markers,
		aliases:       make(map[string]string),
		ignored:       make(map[string]bool),
		state:         stateSelectLabel,
		perPage:       perPage,
		markerPerPage: perPage,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		progressStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		mappedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Padding(0, 1),
		ignoredStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true).
			Padding(0, 1),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.markerPerPage = max(m.height-6, 5)
	case tea.KeyMsg:
		switch m.state {
		case stateSelectLabel:
			return m.updateSelectLabel(msg)
		case stateSelectMarker:
			return m.updateSelectMarker(msg)
		case stateConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateSelectLabel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.moveLabel(-1)
	case "down", "j":
		m.moveLabel(1)
	case "left", "h":
		m.moveLabel(-m.perPage)
	case "right", "l":
		m.moveLabel(m.perPage)
	case "enter":
		if idx := m.labelIndex(); idx < len(m.labels) {
			m.current = m.labels[idx]
			m.state = stateSelectMarker
			m.markerCursor = 0
			m.markerPage = 0
		}
	case "i":
		if idx := m.labelIndex(); idx < len(m.labels) {
			label := m.labels[idx]
			if m.ignored[label] {
				delete(m.ignored, label)
			} else {
				m.ignored[label] = true
				delete(m.aliases, label)
			}
		}
	case "n":
		m.moveToNextUnmapped()
	case "s":
		m.state = stateConfirm
	}
	return m, nil
}

func (m model) updateSelectMarker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectLabel
	case "up", "k":
		if m.markerCursor > 0 {
			m.markerCursor--
		} else if m.markerPage > 0 {
			m.markerPage--
			m.markerCursor = m.markerPerPage - 1
		}
	case "down", "j":
		if m.markerCursor < m.maxMarkerCursor() {
			m.markerCursor++
		} else if m.hasNextMarkerPage() {
			m.markerPage++
			m.markerCursor = 0
		}
	case "left", "h":
		if m.markerPage > 0 {
			m.markerPage--
			m.markerCursor = 0
		}
	case "right", "l":
		if m.hasNextMarkerPage() {
			m.markerPage++
			m.markerCursor = 0
		}
	case "enter":
		idx := m.markerPage*m.markerPerPage + m.markerCursor
		if idx < len(m.markers) {
			m.aliases[m.current] = m.markers[idx]
			delete(m.ignored, m.current)
			m.state = stateSelectLabel
			m.moveToNextUnmapped()
		}
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.saved = true
		return m, tea.Quit
	case "ctrl+c", "q", "n":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectLabel
	}
	return m, nil
}

func (m model) labelIndex() int {
	return m.labelPage*m.perPage + m.labelCursor
}

func (m *model) setLabelIndex(i int) {
	m.labelPage = i / m.perPage
	m.labelCursor = i % m.perPage
}

func (m *model) moveLabel(delta int) {
	if len(m.labels) == 0 {
		return
	}
	i := m.labelIndex() + delta
	i = min(max(i, 0), len(m.labels)-1)
	m.setLabelIndex(i)
}

func (m model) hasNextMarkerPage() bool {
	return (m.markerPage+1)*m.markerPerPage < len(m.markers)
}

func (m model) maxMarkerCursor() int {
	onPage := len(m.markers) - m.markerPage*m.markerPerPage
	return min(onPage, m.markerPerPage) - 1
}

func (m model) done(label string) bool {
	_, mapped := m.aliases[label]
	return mapped || m.ignored[label]
}

// moveToNextUnmapped moves the cursor to the next label without an alias,
// wrapping around. It stays put when every label is handled.
func (m *model) moveToNextUnmapped() {
	n := len(m.labels)
	cur := m.labelIndex()
	for step := 1; step <= n; step++ {
		i := (cur + step) % n
		if !m.done(m.labels[i]) {
			m.setLabelIndex(i)
			return
		}
	}
}

func (m model) View() string {
	switch m.state {
	case stateSelectLabel:
		return m.viewSelectLabel()
	case stateSelectMarker:
		return m.viewSelectMarker()
	case stateConfirm:
		return m.viewConfirm()
	}
	return ""
}

func pages(n, perPage int) int {
	return max((n+perPage-1)/perPage, 1)
}

func (m model) viewSelectLabel() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Grade Alias Mapper"))
	b.WriteString("\n\n")
	b.WriteString(m.progressStyle.Render(fmt.Sprintf("Progress: %d/%d mapped (%d ignored)",
		len(m.aliases), len(m.labels), len(m.ignored))))
	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render(fmt.Sprintf("Page %d/%d", m.labelPage+1, pages(len(m.labels), m.perPage))))
	b.WriteString("\n\n")

	start := m.labelPage * m.perPage
	end := min(start+m.perPage, len(m.labels))
	for i := start; i < end; i++ {
		label := m.labels[i]
		text := label
		style := m.normalStyle
		if marker, ok := m.aliases[label]; ok {
			text = fmt.Sprintf("%s → %s", label, marker)
			style = m.mappedStyle
		} else if m.ignored[label] {
			text = fmt.Sprintf("%s (ignored)", label)
			style = m.ignoredStyle
		}
		if i-start == m.labelCursor {
			style = m.selectedStyle
		}
		b.WriteString(style.Render(text))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | ←→: page | Enter: pick marker | i: ignore | n: next unmapped | s: save | q: quit"))
	return b.String()
}

func (m model) viewSelectMarker() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render(fmt.Sprintf("Which sheet marker does '%s' mean?", m.current)))
	b.WriteString("\n\n")
	b.WriteString(m.helpStyle.Render(fmt.Sprintf("Page %d/%d", m.markerPage+1, pages(len(m.markers), m.markerPerPage))))
	b.WriteString("\n\n")

	start := m.markerPage * m.markerPerPage
	end := min(start+m.markerPerPage, len(m.markers))
	for i := start; i < end; i++ {
		if i-start == m.markerCursor {
			b.WriteString(m.selectedStyle.Render("> " + m.markers[i]))
		} else {
			b.WriteString(m.normalStyle.Render("  " + m.markers[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | ←→: prev/next page | Enter: select | Esc: back | q: quit"))
	return b.String()
}

func (m model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Save grade aliases?"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Unmatched labels: %d\n", len(m.labels))
	fmt.Fprintf(&b, "Mapped: %d\n", len(m.aliases))
	fmt.Fprintf(&b, "Ignored: %d\n", len(m.ignored))
	fmt.Fprintf(&b, "Left unmatched: %d\n", len(m.labels)-len(m.aliases)-len(m.ignored))
	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("y/n to confirm, Esc to go back"))
	return b.String()
}

// apply copies the mapper's decisions for its labels into config.
func (m model) apply(config *AliasConfig) {
	for _, label := range m.labels {
		switch marker, mapped := m.aliases[label]; {
		case mapped:
			config.Set(label, marker)
		case m.ignored[label]:
			config.Ignore(label)
		default:
			config.Remove(label)
		}
	}
}

// RunAliasTUI lets the user map each label to one of markers. Existing
// entries of config for those labels are shown and may be changed. It
// reports whether the user confirmed; only then is config updated.
func RunAliasTUI(labels, markers []string, config *AliasConfig, opts TUIOptions) (bool, error) {
	if len(labels) == 0 {
		return false, fmt.Errorf("no unmatched grade labels to map")
	}
	if len(markers) == 0 {
		return false, fmt.Errorf("no template markers found")
	}

	m := initialModel(labels, markers, opts)
	for _, label := range labels {
		if a, ok := config.Lookup(label); ok {
			if a.IsIgnored {
				m.ignored[label] = true
			} else if a.MarkerLabel != "" {
				m.aliases[label] = a.MarkerLabel
			}
		}
	}
	if m.done(labels[0]) {
		m.moveToNextUnmapped()
	}

	finalModel, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return false, fmt.Errorf("error running alias mapper: %w", err)
	}

	final := finalModel.(model)
	if !final.saved {
		return false, nil
	}
	final.apply(config)
	return true, nil
}
