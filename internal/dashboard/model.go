// Package dashboard is a read-only terminal view of a session's progress.
package dashboard

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypulse/internal/session"
	"github.com/abhisek/studypulse/internal/ui/layout"
	"github.com/abhisek/studypulse/internal/ui/theme"
)

// Loader fetches a fresh progress report.
type Loader func(ctx context.Context) (*session.Progress, error)

type keyMap struct {
	Reload key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// progressMsg carries the result of a load.
type progressMsg struct {
	progress *session.Progress
	err      error
}

// Model is the dashboard's Bubble Tea model.
type Model struct {
	ctx      context.Context
	load     Loader
	progress *session.Progress
	err      error
	loading  bool

	viewport viewport.Model
	help     help.Model
	width    int
	height   int
}

// New creates a dashboard that reports what load returns.
func New(ctx context.Context, load Loader) Model {
	return Model{
		ctx:      ctx,
		load:     load,
		loading:  true,
		viewport: viewport.New(),
		help:     help.New(),
	}
}

func (m Model) fetch() tea.Cmd {
	return func() tea.Msg {
		p, err := m.load(m.ctx)
		return progressMsg{progress: p, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width)
		m.resize()
		return m, nil

	case progressMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.progress = msg.progress
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Reload):
			m.loading = true
			return m, m.fetch()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// resize fits the viewport between header and footer.
func (m *Model) resize() {
	header := m.header()
	footer := m.footer()
	h := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if h < 0 {
		h = 0
	}
	m.viewport.SetWidth(m.width)
	m.viewport.SetHeight(h)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.body())
}

func (m Model) body() string {
	switch {
	case m.err != nil:
		return theme.Alert.Render(fmt.Sprintf("Could not load progress: %v", m.err))
	case m.progress == nil:
		return theme.Hint.Render("Loading...")
	default:
		return RenderReport(m.progress, m.width-2)
	}
}

func (m Model) header() string {
	if m.progress == nil {
		return layout.RenderHeader("", 0, 0, m.width)
	}
	return layout.RenderHeader(m.progress.Subject, m.progress.Mastery, m.progress.Streak, m.width)
}

func (m Model) footer() string {
	status := ""
	if m.loading {
		status = theme.Hint.Render("  refreshing")
	}
	return layout.RenderFooter(m.help.View(keys)+status, m.width)
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	v.SetContent(layout.RenderFrame(m.header(), m.viewport.View(), m.footer(), m.width, m.height))
	return v
}

// Run starts the dashboard program and blocks until the user quits.
func Run(ctx context.Context, load Loader) error {
	p := tea.NewProgram(New(ctx, load), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
