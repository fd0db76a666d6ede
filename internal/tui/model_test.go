package tui

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mj1618/hintnav/internal/dom/fixture"
	"github.com/mj1618/hintnav/internal/hint"
	"github.com/mj1618/hintnav/internal/mode"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want mode.Key
		ok   bool
	}{
		{"letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")}, mode.Key{Name: "f"}, true},
		{"alt letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f"), Alt: true}, mode.Key{Name: "f", Alt: true}, true},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, mode.Key{Name: hint.KeyEscape}, true},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, mode.Key{Name: hint.KeyBackspace}, true},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, mode.Key{Name: hint.KeyEnter}, true},
		{"ctrl", tea.KeyMsg{Type: tea.KeyCtrlF}, mode.Key{Name: "f", Ctrl: true}, true},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")}, mode.Key{}, false},
		{"arrow", tea.KeyMsg{Type: tea.KeyUp}, mode.Key{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyFor(tt.msg)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("KeyFor = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

const page = `<!doctype html><html><body style="width: 1280px; height: 800px">
<button id="save" aria-label="Save draft" style="left: 600px; top: 380px; width: 80px; height: 40px">Save</button>
<button id="quit" style="left: 900px; top: 100px; width: 60px; height: 30px">Quit</button>
</body></html>`

func newModel(t *testing.T) (Model, *fixture.Document, *hint.Engine) {
	t.Helper()
	doc, err := fixture.Parse(page)
	if err != nil {
		t.Fatal(err)
	}
	eng := hint.New(doc, doc, hint.DefaultRules())
	t.Cleanup(eng.Exit)
	ctl := mode.New(eng)
	return NewModel(ctl, eng, "page.html"), doc, eng
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_HintSession(t *testing.T) {
	m, doc, _ := newModel(t)
	if m.mode != mode.Normal || !strings.Contains(m.View(), "Normal") {
		t.Fatalf("initial view:\n%s", m.View())
	}

	m = press(m, runes("f"))
	if m.mode != mode.Hint || len(m.list) != 2 {
		t.Fatalf("mode = %v, hints = %d", m.mode, len(m.list))
	}
	view := m.View()
	for _, want := range []string{"Hint", "2 hints", `"Save draft"`, "#quit", "page.html"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	var label string
	for _, h := range m.list {
		if h.ID == "save" {
			label = h.Label
		}
	}
	m = press(m, runes(strings.ToLower(label)))
	if m.mode != mode.Normal || m.list != nil {
		t.Fatalf("mode = %v after resolution", m.mode)
	}
	if !strings.Contains(m.statusMsg, "via direct") {
		t.Errorf("status = %q", m.statusMsg)
	}
	if !slices.Contains(doc.ByID("save").EventTypes(), "click") {
		t.Error("save was not clicked")
	}
}

func TestModel_EscapeCancels(t *testing.T) {
	m, _, _ := newModel(t)
	m = press(m, runes("f"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != mode.Normal || m.statusMsg != "cancelled" {
		t.Errorf("mode = %v, status = %q", m.mode, m.statusMsg)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newModel(t)
	if _, cmd := m.Update(runes("q")); cmd == nil {
		t.Error("q in normal mode should quit")
	}
	m = press(m, runes("f"))
	if _, cmd := m.Update(runes("q")); cmd != nil {
		t.Error("q in hint mode is a hint letter")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("ctrl+c should always quit")
	}
}

func TestModel_RefreshMsg(t *testing.T) {
	m, doc, eng := newModel(t)
	m = press(m, runes("f"))
	if err := doc.ByID("quit").SetInlineStyle("display", "none"); err != nil {
		t.Fatal(err)
	}
	if err := eng.Refresh(); err != nil {
		t.Fatal(err)
	}
	if len(m.list) != 2 {
		t.Fatalf("list changed before RefreshMsg: %d", len(m.list))
	}
	next, _ := m.Update(RefreshMsg{})
	m = next.(Model)
	if len(m.list) != 1 || m.list[0].ID != "save" {
		t.Fatalf("list after refresh = %+v", m.list)
	}
}
