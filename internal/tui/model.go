// Package tui provides the Bubble Tea pattern browser.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/vibectl/internal/haptic"
	"github.com/verte-zerg/vibectl/internal/pattern"
	"github.com/verte-zerg/vibectl/internal/store"
	"github.com/verte-zerg/vibectl/internal/waveform"
)

const (
	plotHeight    = 8
	sampleStepMs  = 5
	previewErrFmt = "Failed to render preview: %v"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// playDoneMsg reports that a playback's duration elapsed.
type playDoneMsg struct {
	name string
	err  error
}

// Model implements the Bubble Tea pattern browser and player.
type Model struct {
	store *store.Store
	vib   *haptic.Vibrator

	patterns []store.PatternInfo
	visible  []store.PatternInfo
	errMsg   string
	status   string
	playing  bool

	patternTable table.Model
	preview      viewport.Model

	filterMode  bool
	filterInput textinput.Model
	filterText  string

	width  int
	height int
}

// NewModel constructs a pattern browser over the store, playing through vib.
func NewModel(st *store.Store, vib *haptic.Vibrator) *Model {
	m := &Model{
		store:   st,
		vib:     vib,
		preview: viewport.New(0, 0),
	}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Filter: "
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.patternTable = newPatternTable()
	m.refreshPatterns()
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
		m.renderPreview()
		return m, nil
	case playDoneMsg:
		m.playing = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.status = ""
		} else {
			m.status = fmt.Sprintf("Played %s.", msg.name)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "/":
			return m.startFilter()
		case "enter":
			return m, m.playSelected()
		case "s":
			m.stopPlayback()
			return m, nil
		case "r":
			m.refreshPatterns()
			return m, nil
		case "g", "home":
			m.patternTable.GotoTop()
			m.renderPreview()
			return m, nil
		case "G", "end":
			m.patternTable.GotoBottom()
			m.renderPreview()
			return m, nil
		default:
			var cmd tea.Cmd
			m.patternTable, cmd = m.patternTable.Update(msg)
			m.renderPreview()
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
	headerHeight, tableHeight, previewHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(tableMutedStyle.Render(m.patternTable.View()), m.width, tableHeight)
	preview := fitLines(m.preview.View(), m.width, previewHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, preview, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, tableHeight, previewHeight, footerHeight int) {
	headerHeight = lipgloss.Height(titleStyle.Render("X"))
	if headerHeight < 1 {
		headerHeight = 1
	}
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	previewHeight = plotHeight + 6
	tableHeight = m.height - headerHeight - previewHeight - footerHeight - 3
	if tableHeight < 3 {
		tableHeight = 3
	}
	return headerHeight, tableHeight, previewHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, tableHeight, previewHeight, _ := m.layoutHeights()
	m.patternTable.SetWidth(m.width)
	m.patternTable.SetHeight(tableHeight)
	m.preview.Width = m.width
	m.preview.Height = previewHeight
	promptWidth := lipgloss.Width(m.filterInput.Prompt)
	m.filterInput.Width = maxInt(10, m.width-promptWidth-2)
}

func (m *Model) renderHeader() string {
	title := titleStyle.Render("vibectl patterns")
	if m.filterText != "" {
		return title + headerStyle.Render(fmt.Sprintf("  filter: %s", m.filterText))
	}
	return title
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.filterInput.View()
	}
	help := "Play: enter  Stop: s  Filter: /  Reload: r  Quit: q"
	line := headerStyle.Render(help)
	switch {
	case m.playing:
		line = statusStyle.Render("Playing...") + "  " + line
	case m.status != "":
		line = statusStyle.Render(m.status) + "  " + line
	}
	if m.errMsg != "" {
		return line + "\n" + errorStyle.Render(m.errMsg)
	}
	return line
}

func newPatternTable() table.Model {
	t := table.New(
		table.WithColumns(patternColumns()),
		table.WithFocused(true),
	)
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
	t.SetStyles(styles)
	return t
}

func patternColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Kind", Width: 10},
		{Title: "Duration", Width: 10},
		{Title: "Saved", Width: 19},
	}
}

func (m *Model) refreshPatterns() {
	infos, err := m.store.ListPatterns(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.patterns = infos
	m.applyFilter()
}

func (m *Model) applyFilter() {
	m.visible = m.visible[:0]
	rows := make([]table.Row, 0, len(m.patterns))
	for _, info := range m.patterns {
		if m.filterText != "" && !strings.Contains(info.Name, m.filterText) {
			continue
		}
		m.visible = append(m.visible, info)
		rows = append(rows, table.Row{
			truncateCell(info.Name, 24),
			string(info.Kind),
			fmt.Sprintf("%d ms", info.DurationMs),
			info.CreatedAt.Local().Format(time.DateTime),
		})
	}
	m.patternTable.SetRows(rows)
	m.patternTable.GotoTop()
	m.renderPreview()
}

// selectedName maps the table cursor back to the untruncated pattern name.
func (m *Model) selectedName() string {
	idx := m.patternTable.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return ""
	}
	return m.visible[idx].Name
}

func (m *Model) renderPreview() {
	name := m.selectedName()
	if name == "" {
		m.preview.SetContent("No patterns saved. Use `vibectl pattern save` to add one.")
		return
	}
	p, err := m.store.GetPattern(context.Background(), name)
	if err != nil {
		m.preview.SetContent(fmt.Sprintf(previewErrFmt, err))
		return
	}
	m.preview.SetContent(renderPatternPreview(p, m.width))
}

func renderPatternPreview(p pattern.Pattern, width int) string {
	if p.Kind == pattern.KindComposite {
		lines := make([]string, 0, len(p.Steps)+1)
		lines = append(lines, headerStyle.Render(fmt.Sprintf("%s: %d steps, %d ms", p.Name, len(p.Steps), p.DurationMs())))
		for i, step := range p.Steps {
			lines = append(lines, fmt.Sprintf("%2d. %-12s delay %4d ms  scale %.2f", i+1, step.Primitive, step.DelayMs, step.Scale))
		}
		return strings.Join(lines, "\n")
	}
	env := waveform.Sample(p.Segments, sampleStepMs)
	plotWidth := 0
	if width > 0 {
		plotWidth = waveform.PlotWidthFor(width)
	}
	var buf bytes.Buffer
	if err := waveform.PlotEnvelopeWithColor(&buf, p.Name, env, plotWidth, plotHeight, true); err != nil {
		return fmt.Sprintf(previewErrFmt, err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// playSelected loads the selected pattern, starts playback, and returns a
// command that resolves when the completion callback fires.
func (m *Model) playSelected() tea.Cmd {
	name := m.selectedName()
	if name == "" {
		return nil
	}
	if m.playing {
		m.errMsg = "Already playing. Press s to stop."
		return nil
	}
	p, err := m.store.GetPattern(context.Background(), name)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	doneCh := make(chan struct{})
	done := func() error {
		close(doneCh)
		return nil
	}
	switch p.Kind {
	case pattern.KindComposite:
		err = m.vib.Compose(p.Steps, done)
	case pattern.KindPwle:
		err = m.vib.ComposePwle(p.Segments, done)
	default:
		err = fmt.Errorf("unknown pattern kind %q", p.Kind)
	}
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.status = ""
	m.playing = true
	st := m.store
	play := store.Play{Name: p.Name, Kind: string(p.Kind), DurationMs: p.DurationMs()}
	return func() tea.Msg {
		<-doneCh
		if err := st.InsertPlay(context.Background(), play); err != nil {
			return playDoneMsg{name: name, err: err}
		}
		return playDoneMsg{name: name}
	}
}

func (m *Model) stopPlayback() {
	if err := m.vib.Off(); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.status = "Stopped."
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterInput.SetValue(m.filterText)
	return m, m.filterInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filterInput.Blur()
		m.filterText = strings.TrimSpace(m.filterInput.Value())
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
