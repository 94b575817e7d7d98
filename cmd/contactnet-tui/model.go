package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/cluso-contactnet/pkg/report"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	summaryView view = iota
	statsView
	correlationView
	communitiesView
	levelsView
	viewCount
)

var tabNames = []string{"Summary", "Statistics", "Correlation", "Communities", "Louvain"}

// maxMembersShown truncates long community member lists
const maxMembersShown = 12

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Prev     key.Binding
	Next     key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open graph"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev graph"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next graph"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Prev, k.Next, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down, k.Prev, k.Next},
		{k.Quit},
	}
}

type model struct {
	report      *report.Report
	correlation *report.CorrelationMatrix
	source      string
	currentView view
	selected    int // index into report.Graphs
	statsTable  table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
}

func initialModel(rep *report.Report, source string) model {
	columns := make([]table.Column, len(report.Columns))
	for i, name := range report.Columns {
		width := len(name) + 2
		if i == 0 {
			width = 12
		}
		columns[i] = table.Column{Title: name, Width: width}
	}

	rows := make([]table.Row, len(rep.Rows))
	for i, row := range rep.Rows {
		rows[i] = report.DisplayRow(row)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 15)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	// Reports written before the matrix existed carry only the rows
	correlation := rep.Correlation
	if correlation == nil {
		correlation = report.Correlation(rep.Rows)
	}

	return model{
		report:      rep,
		correlation: correlation,
		source:      source,
		currentView: summaryView,
		statsTable:  t,
		help:        help.New(),
		keys:        keys,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			m.currentView = (m.currentView + viewCount - 1) % viewCount

		case key.Matches(msg, m.keys.Prev):
			m.selectGraph(m.selected - 1)

		case key.Matches(msg, m.keys.Next):
			m.selectGraph(m.selected + 1)

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == statsView {
				m.selectGraph(m.statsTable.Cursor())
				m.currentView = communitiesView
			}
		}
	}

	if m.currentView == statsView {
		m.statsTable, cmd = m.statsTable.Update(msg)
	}
	return m, cmd
}

// selectGraph moves the selection, wrapping around the graph list
func (m *model) selectGraph(i int) {
	n := len(m.report.Graphs)
	if n == 0 {
		return
	}
	m.selected = (i%n + n) % n
	m.statsTable.SetCursor(m.selected)
}

func (m model) current() *report.GraphDetail {
	if len(m.report.Graphs) == 0 {
		return nil
	}
	return &m.report.Graphs[m.selected]
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Contact Network Report"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case summaryView:
		s.WriteString(m.renderSummary())
	case statsView:
		s.WriteString(m.renderStats())
	case correlationView:
		s.WriteString(m.renderCorrelation())
	case communitiesView:
		s.WriteString(m.renderCommunities())
	case levelsView:
		s.WriteString(m.renderLevels())
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	rendered := make([]string, len(tabNames))
	for i, tab := range tabNames {
		if view(i) == m.currentView {
			rendered[i] = activeTabStyle.Render(tab)
		} else {
			rendered[i] = inactiveTabStyle.Render(tab)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) renderSummary() string {
	rep := m.report

	run := fmt.Sprintf(`Run
───────────────
Run ID:    %s
Source:    %s
Generated: %s
Duration:  %s
Records:   %d
Dropped:   %d`,
		rep.RunID,
		m.source,
		rep.GeneratedAt.Format("2006-01-02 15:04:05"),
		rep.Duration,
		rep.Records,
		rep.Dropped,
	)

	var graphs strings.Builder
	graphs.WriteString("Graphs\n───────────────")
	for i, row := range rep.Rows {
		marker := "  "
		if i == m.selected {
			marker = "▸ "
		}
		fmt.Fprintf(&graphs, "\n%s%-12s %3d communities  Q=%s",
			marker, row.Graph, row.Stats.CommunityCount,
			report.FormatStat("modularity", row.Stats.Modularity))
	}

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(run),
		statsBoxStyle.Render(graphs.String()),
	))
}

func (m model) renderStats() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Network Statistics"))
	s.WriteString("\n\n")
	s.WriteString(m.statsTable.View())
	return contentStyle.Render(s.String())
}

func (m model) renderCorrelation() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Correlation across periods"))
	s.WriteString("\n\n")
	if m.correlation.Periods < 2 {
		s.WriteString(warnStyle.Render(fmt.Sprintf("  %d period(s); at least 2 are needed", m.correlation.Periods)))
		s.WriteString("\n\n")
	}
	s.WriteString(report.RenderCorrelation(m.correlation))
	return contentStyle.Render(s.String())
}

func (m model) renderCommunities() string {
	detail := m.current()
	if detail == nil {
		return contentStyle.Render(helpStyle.Render("Report has no graphs"))
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("Communities · " + detail.Graph))
	s.WriteString("\n\n")

	k := detail.Partition.CommunityCount()
	for c := 0; c < k; c++ {
		members := detail.Partition.Members(c)
		ids := make([]string, 0, min(len(members), maxMembersShown))
		for _, id := range members[:min(len(members), maxMembersShown)] {
			ids = append(ids, fmt.Sprintf("%d", id))
		}
		if len(members) > maxMembersShown {
			ids = append(ids, fmt.Sprintf("… +%d", len(members)-maxMembersShown))
		}
		fmt.Fprintf(&s, "  %3d │ %3d members │ %s\n", c, len(members), strings.Join(ids, " "))
	}
	if k == 0 {
		s.WriteString("  (empty graph)\n")
	}

	return contentStyle.Render(s.String())
}

func (m model) renderLevels() string {
	detail := m.current()
	if detail == nil {
		return contentStyle.Render(helpStyle.Render("Report has no graphs"))
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("Louvain Levels · " + detail.Graph))
	s.WriteString("\n\n")
	s.WriteString("  level  passes  moves  communities  modularity\n")
	for _, lvl := range detail.Levels {
		fmt.Fprintf(&s, "  %5d  %6d  %5d  %11d  %10.4f\n",
			lvl.Level, lvl.Passes, lvl.Moves, lvl.Communities, lvl.Modularity)
	}
	if !detail.Converged {
		s.WriteString("\n")
		s.WriteString(warnStyle.Render("  stopped at an iteration cap before converging"))
	}

	return contentStyle.Render(s.String())
}
