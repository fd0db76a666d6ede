// Package tui is an interactive terminal front-end for a hint session:
// keys typed in the terminal drive the mode controller, and the status
// line mirrors the controller's mode, the typed prefix and the hint list.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mj1618/hintnav/internal/hint"
	"github.com/mj1618/hintnav/internal/mode"
	"github.com/mj1618/hintnav/internal/output"
)

// Session is what the model reads and drives.
type Session interface {
	HandleKey(k mode.Key) (hint.Outcome, error)
	Mode() mode.Mode
}

// Hints is the read side of a hint engine.
type Hints interface {
	Hints() []hint.Report
	Typed() string
}

// Model is the root BubbleTea model.
type Model struct {
	session Session
	hints   Hints
	target  string

	// Snapshot of the session, refreshed after every message.
	mode  mode.Mode
	typed string
	list  []hint.Report

	width  int
	height int

	statusMsg string
	err       error
}

// NewModel creates a model over a controller and its engine.
func NewModel(session Session, hints Hints, target string) Model {
	m := Model{session: session, hints: hints, target: target, statusMsg: "f hint  i insert  v visual"}
	m.sync()
	return m
}

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

// RefreshMsg asks the model to re-read the session. Send it when the
// session changes outside a key press: idle resolution, an abort from the
// page, or a rescan after a mutation.
type RefreshMsg struct{}

// Refresher returns a function that schedules a RefreshMsg on p without
// blocking the caller.
func Refresher(p *tea.Program) func() {
	return func() { go p.Send(RefreshMsg{}) }
}

// ────────────────────────────────────────────────────────────
// Init / Update
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) sync() {
	m.mode = m.session.Mode()
	m.typed = m.hints.Typed()
	if m.mode == mode.Hint {
		m.list = m.hints.Hints()
	} else {
		m.list = nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case RefreshMsg:
		m.sync()
		return m, nil
	}
	return m, nil
}

// KeyFor converts a terminal key into a controller key. It reports false
// for keys the controller has no use for.
func KeyFor(msg tea.KeyMsg) (mode.Key, bool) {
	k := mode.Key{Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyEsc:
		k.Name = hint.KeyEscape
	case tea.KeyBackspace:
		k.Name = hint.KeyBackspace
	case tea.KeyEnter:
		k.Name = hint.KeyEnter
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return k, false
		}
		k.Name = string(msg.Runes)
	default:
		if strings.HasPrefix(msg.String(), "ctrl+") {
			k.Ctrl = true
			k.Name = strings.TrimPrefix(msg.String(), "ctrl+")
			return k, true
		}
		return k, false
	}
	return k, true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if msg.String() == "q" && m.mode == mode.Normal {
		return m, tea.Quit
	}

	k, ok := KeyFor(msg)
	if !ok {
		return m, nil
	}
	out, err := m.session.HandleKey(k)
	m.err = err
	switch {
	case out.Resolved:
		res := output.NewActivateResult(out)
		if res.OK {
			m.statusMsg = fmt.Sprintf("%s → <%s> via %s", res.Label, res.Target.Tag, res.Strategy)
		} else {
			m.statusMsg = fmt.Sprintf("%s failed: %s", res.Label, res.Error)
		}
	case out.Aborted:
		m.statusMsg = "cancelled"
	}
	m.sync()
	return m, nil
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	header := m.renderHeader(width)
	status := m.renderStatus(width)

	var body string
	if m.mode == mode.Hint {
		rows := max(m.height-2, 1)
		if m.height == 0 {
			rows = len(m.list)
		}
		body = m.renderHints(rows)
	}
	if body == "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) renderHeader(width int) string {
	sep := headerSepStyle.Render(" │ ")
	parts := []string{headerBrandStyle.Render("HINTNAV")}
	if m.target != "" {
		parts = append(parts, sep, headerMetaStyle.Render(m.target))
	}
	if m.mode == mode.Hint {
		parts = append(parts, sep, headerMetaStyle.Render(fmt.Sprintf("%d hints", len(m.list))))
	}
	return headerBarStyle.Width(width).Render(strings.Join(parts, ""))
}

// renderHints lists hints with matching ones first, one per line.
func (m Model) renderHints(rows int) string {
	var match, rest []string
	for _, h := range m.list {
		desc := describe(h)
		if h.Match {
			match = append(match, badgeStyle.Render(h.Label)+" "+rowStyle.Render(desc))
		} else {
			rest = append(rest, badgeDimStyle.Render(h.Label)+" "+rowDimStyle.Render(desc))
		}
	}
	lines := append(match, rest...)
	if len(lines) > rows {
		lines = lines[:rows]
	}
	return strings.Join(lines, "\n")
}

func describe(h hint.Report) string {
	var b strings.Builder
	b.WriteString("<" + h.Tag + ">")
	switch {
	case h.AriaLabel != "":
		fmt.Fprintf(&b, " %q", h.AriaLabel)
	case h.ID != "":
		b.WriteString(" #" + h.ID)
	}
	fmt.Fprintf(&b, " @%d,%d", h.Anchor[0], h.Anchor[1])
	if h.KnownInput {
		b.WriteString(" [input]")
	}
	return b.String()
}

func (m Model) renderStatus(width int) string {
	left := modeStyle(m.mode).Render(m.mode.Title())
	if m.typed != "" {
		left += " " + typedStyle.Render(m.typed)
	}
	switch {
	case m.err != nil:
		left += " " + errorStyle.Render(m.err.Error())
	case m.statusMsg != "":
		left += " " + statusStyle.Render(m.statusMsg)
	}

	right := renderKeys(m.mode)
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(width).
		Render(left + strings.Repeat(" ", gap) + right)
}

type keyHint struct {
	key  string
	desc string
}

func renderKeys(m mode.Mode) string {
	var keys []keyHint
	switch m {
	case mode.Hint:
		keys = []keyHint{{"a-z", "type"}, {"enter", "pick"}, {"bksp", "undo"}, {"esc", "cancel"}}
	case mode.Insert, mode.VisualCaret:
		keys = []keyHint{{"esc", "normal"}, {"ctrl+c", "quit"}}
	default:
		keys = []keyHint{{"f", "hint"}, {"i", "insert"}, {"v", "visual"}, {"q", "quit"}}
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = hintKeyStyle.Render(k.key) + " " + hintDescStyle.Render(k.desc)
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}
