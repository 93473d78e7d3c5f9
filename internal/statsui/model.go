// Package statsui provides the Bubble Tea statistics browser.
package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keytrace/internal/keylog"
)

const (
	tabOverview = iota
	tabTopSFBs
	tabFingers
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea statistics browser over a computed
// log analysis.
type Model struct {
	stats *keylog.Stats

	tabs      []string
	activeTab int
	viewports []viewport.Model
	sfbTable  table.Model

	includeCombos bool
	topCount      int

	width  int
	height int
}

// NewModel constructs a statistics browser. includeCombos sets the
// initial state of the combo toggle.
func NewModel(stats *keylog.Stats, topCount int, includeCombos bool) *Model {
	if topCount <= 0 {
		topCount = 25
	}
	m := &Model{
		stats:         stats,
		tabs:          []string{"Overview", "Top SFBs", "Fingers"},
		includeCombos: includeCombos,
		topCount:      topCount,
	}
	m.initViewports()
	m.initSFBTable()
	m.renderTabContents()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "c":
			m.includeCombos = !m.includeCombos
			m.rebuildSFBRows()
			m.renderTabContents()
			return m, nil
		case "g", "home":
			if m.activeTab == tabTopSFBs {
				m.sfbTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTopSFBs {
				m.sfbTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabTopSFBs {
				var cmd tea.Cmd
				m.sfbTable, cmd = m.sfbTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderTabs() + "\n" + m.renderSummaryLine()
	var body string
	if m.activeTab == tabTopSFBs {
		body = m.sfbTable.View()
	} else {
		body = m.viewports[m.activeTab].View()
	}
	footer := headerStyle.Render("h/l: tabs  c: toggle combos  g/G: top/bottom  q: quit")
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initSFBTable() {
	columns := []table.Column{
		{Title: "Bigram", Width: 50},
		{Title: "Presses", Width: 8},
		{Title: "Share", Width: 8},
		{Title: "Combo", Width: 6},
	}
	m.sfbTable = table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithStyles(sfbTableStyles()),
	)
	m.rebuildSFBRows()
}

func sfbTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) rebuildSFBRows() {
	top := m.stats.TopSFBs(m.topCount, m.includeCombos)
	rows := make([]table.Row, 0, len(top))
	for _, entry := range top {
		combo := ""
		if entry.SFB.HasCombo() {
			combo = "yes"
		}
		share := float64(entry.Presses) / float64(m.stats.TotalEvents) * 100
		rows = append(rows, table.Row{
			strings.Join(strings.Fields(entry.SFB.ID()), " -> "),
			fmt.Sprintf("%d", entry.Presses),
			fmt.Sprintf("%.2f%%", share),
			combo,
		})
	}
	m.sfbTable.SetRows(rows)
	m.sfbTable.GotoTop()
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	bodyHeight := m.height - lipgloss.Height(m.renderTabs()) - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.sfbTable.SetWidth(m.width)
	m.sfbTable.SetHeight(bodyHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabTopSFBs {
		m.sfbTable.Focus()
	} else {
		m.sfbTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSummaryLine() string {
	mode := "with combos"
	if !m.includeCombos {
		mode = "without combos"
	}
	return headerStyle.Render(fmt.Sprintf(
		"events: %d  key presses: %d  sfb events: %d  mode: %s",
		m.stats.TotalEvents, m.stats.TotalKeyPresses, m.stats.TotalSFBEvents, mode))
}

func (m *Model) renderTabContents() {
	m.viewports[tabOverview].SetContent(m.renderOverview())
	m.viewports[tabFingers].SetContent(m.renderFingers())
}

func (m *Model) renderOverview() string {
	cards := []string{
		metricCard("Events", fmt.Sprintf("%d", m.stats.TotalEvents)),
		metricCard("Key presses", fmt.Sprintf("%d", m.stats.TotalKeyPresses)),
		metricCard("SFB events", fmt.Sprintf("%d", m.stats.TotalSFBEvents)),
		metricCard("SFB share", fmt.Sprintf("%.3f%%", m.stats.SFBPercent(m.includeCombos))),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	var split string
	if m.stats.TotalKeyPresses > 0 {
		left := float64(m.stats.TotalKeyPressesLeft) / float64(m.stats.TotalKeyPresses) * 100
		right := float64(m.stats.TotalKeyPressesRight) / float64(m.stats.TotalKeyPresses) * 100
		split = fmt.Sprintf("left %.2f%%  /  right %.2f%%", left, right)
	}

	var byKey strings.Builder
	byKey.WriteString("Top SFB keys:\n")
	for _, entry := range m.stats.TopSFBsByKey(10, m.includeCombos) {
		byKey.WriteString(fmt.Sprintf("  %-10s %d\n", entry.ID, entry.Presses))
	}

	return row + "\n" + split + "\n\n" + byKey.String()
}

func (m *Model) renderFingers() string {
	if m.stats.TotalKeyPresses == 0 {
		return "No key presses recorded."
	}
	sfbByFinger := m.stats.SFBFrequencyByFinger(m.includeCombos)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-14s %8s %8s %10s\n", "finger", "presses", "usage", "sfb share"))
	for _, fa := range m.stats.OrderedFingers() {
		freq := m.stats.FingerFrequency[fa]
		usage := float64(freq) / float64(m.stats.TotalKeyPresses) * 100
		sfbShare := float64(sfbByFinger[fa]) / float64(m.stats.TotalEvents) * 100
		sb.WriteString(fmt.Sprintf("%-14s %8d %7.2f%% %9.2f%%\n",
			fa.String(), freq, usage, sfbShare))
	}
	return sb.String()
}

func metricCard(label, value string) string {
	content := cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}
