package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arloliu/rowlist"
	"github.com/arloliu/rowlist/internal/metrics"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the contacts list in the terminal",
		Long: `Browse the contacts list with a pinned section header.

Keys:
  up/down, pgup/pgdown, home/end   move
  a letter or digit                jump to its section
  tab                              toggle selection mode
  space                            select the contact under the cursor
  esc, ctrl+c                      quit

The list reloads when the contacts file changes.`,
		RunE: runBrowse,
	}
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	cfg := configFromContext(cmd.Context())
	logger := loggerFromContext(cmd.Context())

	s, err := newSession(cfg, logger, metrics.NewNop())
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := s.Load(ctx); err != nil {
		return err
	}

	go func() {
		if err := s.Watch(ctx); err != nil {
			logger.Error("contacts watcher stopped", "error", err)
		}
	}()

	m := newBrowseModel(s)
	defer m.stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}

	return nil
}

// changeMsg carries a list change into the update loop.
type changeMsg rowlist.Change

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pinnedStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	staticStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	subtitleStyle = lipgloss.NewStyle().Faint(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type browseModel struct {
	s *session

	changes <-chan rowlist.Change
	stop    func()

	cursor int
	top    int
	height int
	width  int
	status string
}

func newBrowseModel(s *session) *browseModel {
	changes, stop := s.merged.Subscribe()

	return &browseModel{
		s:       s,
		changes: changes,
		stop:    stop,
		height:  20,
		width:   80,
	}
}

func (m *browseModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		c, ok := <-m.changes
		if !ok {
			return nil
		}

		return changeMsg(c)
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(msg.Height-2, 1)
		m.clamp()

		return m, nil

	case changeMsg:
		if msg.Reason == rowlist.ReasonRows || msg.Reason == rowlist.ReasonReplace {
			m.status = fmt.Sprintf("reloaded (%d positions)", m.s.merged.Count())
		}
		m.clamp()

		return m, m.waitForChange()

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *browseModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "up":
		m.cursor--
	case "down":
		m.cursor++
	case "pgup":
		m.cursor -= m.height
	case "pgdown":
		m.cursor += m.height
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = m.s.merged.Count() - 1
	case "tab":
		sel := m.s.contacts.Selection()
		sel.SetActive(!sel.IsActive())
		if sel.IsActive() {
			m.status = "selection mode"
		} else {
			m.status = ""
		}
	case " ":
		m.toggle()
	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			m.jump(string(msg.Runes))
		}
	}
	m.clamp()

	return nil
}

func (m *browseModel) toggle() {
	sel := m.s.contacts.Selection()
	if !sel.IsActive() || m.s.merged.Count() == 0 {
		return
	}
	local := m.s.contactsPosition(m.cursor)
	if local < 0 {
		return
	}
	m.s.contacts.ToggleSelection(local)
	m.status = fmt.Sprintf("%d selected", sel.Len())
}

// jump moves the cursor and the top of the list to the section labeled key.
func (m *browseModel) jump(key string) {
	for i, label := range m.s.merged.Sections() {
		if !strings.EqualFold(label, key) {
			continue
		}
		pos := m.s.merged.PositionForSection(i)
		if pos < 0 {
			return
		}
		m.cursor = pos
		m.top = pos

		return
	}
}

// clamp keeps the cursor inside the list and the cursor row on screen.
func (m *browseModel) clamp() {
	count := m.s.merged.Count()
	if count == 0 {
		m.cursor, m.top = 0, 0
		return
	}
	m.cursor = min(max(m.cursor, 0), count-1)
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+m.height {
		m.top = m.cursor - m.height + 1
	}
	m.top = min(max(m.top, 0), max(count-m.height, 0))
}

func (m *browseModel) View() string {
	merged := m.s.merged
	count := merged.Count()

	var b strings.Builder
	b.WriteString(m.pinnedLine())
	b.WriteByte('\n')

	if count == 0 {
		if merged.IsLoading() {
			b.WriteString(statusStyle.Render("loading..."))
		} else {
			b.WriteString(statusStyle.Render("no contacts"))
		}
		b.WriteByte('\n')
	}

	end := min(m.top+m.height, count)
	for pos := m.top; pos < end; pos++ {
		line := m.rowLine(merged.View(pos))
		if pos == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString(statusStyle.Render(m.status))

	return b.String()
}

func (m *browseModel) pinnedLine() string {
	if m.s.merged.Count() == 0 {
		return ""
	}
	state := m.s.merged.PinnedHeaderState(m.top)
	if state.Visibility == rowlist.Gone {
		return ""
	}

	style := pinnedStyle
	// fade with the header being pushed off
	if state.Alpha < 128 {
		style = style.Faint(true)
	}

	return style.Render(" " + state.Label + " ")
}

func (m *browseModel) rowLine(view rowlist.RowView) string {
	switch view.Slot {
	case rowlist.SlotHeader:
		return headerStyle.Render(view.Title)
	case rowlist.SlotStatic:
		return staticStyle.Render(view.Title)
	case rowlist.SlotPlaceholder:
		return staticStyle.Render("(none)")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-3s", view.SectionHeader)
	if view.ShowCheckbox {
		if view.Checked {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
	}
	b.WriteString(view.Title)
	if view.Starred {
		b.WriteString(" ★")
	}
	if view.Subtitle != "" {
		b.WriteString("  ")
		b.WriteString(subtitleStyle.Render(view.Subtitle))
	}

	return b.String()
}
