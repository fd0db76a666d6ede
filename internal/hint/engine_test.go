package hint

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/mj1618/hintnav/internal/dom"
	"github.com/mj1618/hintnav/internal/dom/fixture"
)

type engineFixture struct {
	doc      *fixture.Document
	engine   *Engine
	sched    *fakeScheduler
	listener *recordingListener
}

func newEngine(t *testing.T, body string, mutate ...func(*Rules)) *engineFixture {
	t.Helper()
	f := &engineFixture{
		doc:      mustDoc(t, body),
		sched:    &fakeScheduler{},
		listener: &recordingListener{},
	}
	rules := DefaultRules()
	for _, m := range mutate {
		m(&rules)
	}
	f.engine = New(f.doc, f.doc, rules, WithScheduler(f.sched), WithListener(f.listener))
	return f
}

func (f *engineFixture) enter(t *testing.T) {
	t.Helper()
	if err := f.engine.Enter(); err != nil {
		t.Fatal(err)
	}
}

func (f *engineFixture) labelOf(t *testing.T, id string) string {
	t.Helper()
	for _, h := range f.engine.Hints() {
		if h.ID == id {
			return h.Label
		}
	}
	t.Fatalf("#%s has no hint", id)
	return ""
}

func (f *engineFixture) keys(s string) Outcome {
	var out Outcome
	for _, c := range s {
		out = f.engine.ForwardKey(string(c))
	}
	return out
}

func TestEngine_TwelveButtons(t *testing.T) {
	f := newEngine(t, rowOfButtons(12))
	f.enter(t)

	hints := f.engine.Hints()
	if len(hints) != 12 {
		t.Fatalf("got %d hints, want 12", len(hints))
	}
	for i, h := range hints {
		wantLabel := string(DefaultAlphabet[i])
		wantID := fmt.Sprintf("b%d", i)
		if h.Label != wantLabel || h.ID != wantID {
			t.Errorf("hint %d = %s on #%s, want %s on #%s", i, h.Label, h.ID, wantLabel, wantID)
		}
	}
	if got := len(f.doc.Badges()); got != 12 {
		t.Errorf("badges = %d, want 12", got)
	}

	out := f.keys("a")
	if !out.Resolved || out.Label != "A" || out.Target.ID != "b0" {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Activation.Strategy != StrategyDirect {
		t.Errorf("strategy = %v", out.Activation.Strategy)
	}
	if !reflect.DeepEqual(mustNode(t, f.doc, "b0").EventTypes(), fullSequence) {
		t.Errorf("b0 events = %v", mustNode(t, f.doc, "b0").EventTypes())
	}
	for i := 1; i < 12; i++ {
		if evs := mustNode(t, f.doc, fmt.Sprintf("b%d", i)).Events(); len(evs) != 0 {
			t.Errorf("b%d received %d events", i, len(evs))
		}
	}
	if f.engine.Active() || len(f.doc.Badges()) != 0 {
		t.Error("resolution must tear the session down")
	}
	if !reflect.DeepEqual(f.listener.resolved, []bool{false}) {
		t.Errorf("listener resolved = %v, want [false]", f.listener.resolved)
	}
}

func TestEngine_KnownInputs(t *testing.T) {
	body := `
<div id="search" aria-label="Search" contenteditable="true" style="` + box(100, 100, 300, 30) + `"></div>
<div id="composer" role="textbox" contenteditable="true" data-slate-editor="true" style="` + box(100, 700, 800, 44) + `"></div>`

	for _, id := range []string{"search", "composer"} {
		t.Run(id, func(t *testing.T) {
			f := newEngine(t, body)
			f.enter(t)
			hints := f.engine.Hints()
			if len(hints) != 2 {
				t.Fatalf("got %d hints, want 2", len(hints))
			}
			for _, h := range hints {
				if !h.KnownInput {
					t.Errorf("#%s not reported as known input", h.ID)
				}
			}

			out := f.keys(f.labelOf(t, id))
			if !out.Resolved || !out.Activation.KnownInput {
				t.Fatalf("outcome = %+v", out)
			}
			if f.doc.ActiveElement() != mustNode(t, f.doc, id) {
				t.Errorf("#%s not focused", id)
			}
			if !reflect.DeepEqual(f.listener.resolved, []bool{true}) {
				t.Errorf("listener resolved = %v, want [true]", f.listener.resolved)
			}
		})
	}
}

func TestEngine_FullyCoveredElementExcluded(t *testing.T) {
	f := newEngine(t, `
<button id="covered" style="`+box(100, 100, 200, 50)+`">under</button>
<div id="backdrop" style="`+box(0, 0, 1280, 800)+`; z-index: 10"></div>
<button id="modal-ok" style="`+box(600, 380, 80, 40)+`; z-index: 20">OK</button>`)
	f.enter(t)

	hints := f.engine.Hints()
	if len(hints) != 1 || hints[0].ID != "modal-ok" {
		t.Fatalf("hints = %+v, want only #modal-ok", hints)
	}
	for _, b := range f.doc.Badges() {
		if b.Label != hints[0].Label {
			t.Errorf("unexpected badge %q", b.Label)
		}
	}
}

func TestEngine_EscapeHasNoSideEffects(t *testing.T) {
	f := newEngine(t, gridOfButtons(30))
	before := f.doc.Snapshot()
	f.enter(t)

	if out := f.keys("a"); out.Resolved || out.Typed != "A" {
		t.Fatalf("outcome after A = %+v", out)
	}
	if f.engine.State() != Accumulating {
		t.Fatalf("state = %v, want accumulating", f.engine.State())
	}
	out := f.engine.ForwardKey(KeyEscape)
	if !out.Aborted || out.Resolved {
		t.Fatalf("outcome after Escape = %+v", out)
	}

	if f.engine.Active() || f.engine.Typed() != "" || f.engine.State() != Idle {
		t.Error("escape must discard all state")
	}
	if len(f.doc.Badges()) != 0 {
		t.Error("badges left behind")
	}
	for i := 0; i < 30; i++ {
		if evs := mustNode(t, f.doc, fmt.Sprintf("g%d", i)).Events(); len(evs) != 0 {
			t.Errorf("g%d received events", i)
		}
	}
	if f.doc.Snapshot() != before {
		t.Error("document changed")
	}
	if f.listener.aborted != 1 || len(f.listener.resolved) != 0 {
		t.Errorf("listener aborted=%d resolved=%v", f.listener.aborted, f.listener.resolved)
	}

	// The timer scheduled by A fires late and must do nothing.
	f.sched.last().fire()
	if len(f.listener.resolved) != 0 {
		t.Error("stale timer resolved a hint")
	}
}

func TestEngine_IdleResolution(t *testing.T) {
	f := newEngine(t, gridOfButtons(30))
	f.enter(t)
	var targetID string
	for _, h := range f.engine.Hints() {
		if h.Label == "A" {
			targetID = h.ID
		}
	}

	f.keys("a")
	timer := f.sched.last()
	if timer == nil {
		t.Fatal("no idle timer scheduled")
	}
	if timer.d != DefaultRules().IdleDelay() {
		t.Errorf("delay = %v, want %v", timer.d, DefaultRules().IdleDelay())
	}
	if !f.engine.Active() {
		t.Fatal("A alone must not resolve while AA..AF exist")
	}

	timer.fire()
	if f.engine.Active() {
		t.Fatal("idle timer did not resolve")
	}
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("g%d", i)
		got := len(mustNode(t, f.doc, id).Events()) > 0
		if got != (id == targetID) {
			t.Errorf("%s activated = %v", id, got)
		}
	}
	if !reflect.DeepEqual(f.listener.resolved, []bool{false}) {
		t.Errorf("listener resolved = %v", f.listener.resolved)
	}
}

func TestEngine_BackspaceToEmptyCancelsTimer(t *testing.T) {
	// Alphabet AS with five targets gives A, S, AA, AS, SA.
	f := newEngine(t, gridOfButtons(5), func(r *Rules) { r.Alphabet = "AS" })
	f.enter(t)

	f.keys("s")
	if !f.engine.Active() {
		t.Fatal("S is shared with SA and must wait")
	}
	f.engine.ForwardKey(KeyBackspace)
	if !f.sched.last().stopped {
		t.Error("backspace to empty must cancel the timer")
	}
	if f.engine.Typed() != "" || f.engine.State() != Idle {
		t.Errorf("typed = %q state = %v", f.engine.Typed(), f.engine.State())
	}

	out := f.keys("sa")
	if !out.Resolved || out.Label != "SA" {
		t.Fatalf("SA should resolve at once, got %+v", out)
	}
}

func TestEngine_BackspaceRestartsTimer(t *testing.T) {
	f := newEngine(t, gridOfButtons(30))
	f.enter(t)
	f.keys("aq")
	first := f.sched.last()
	n := f.sched.count()
	f.engine.ForwardKey(KeyBackspace)
	if f.engine.Typed() != "A" {
		t.Fatalf("typed = %q, want A", f.engine.Typed())
	}
	if f.sched.count() != n+1 || !first.stopped {
		t.Error("backspace with letters left must restart the timer")
	}
	// The cancelled timer is stale even if it fires.
	first.fire()
	if !f.engine.Active() {
		t.Error("stale timer resolved")
	}
}

func TestEngine_EnterForcesResolution(t *testing.T) {
	f := newEngine(t, gridOfButtons(30))
	f.enter(t)

	if out := f.engine.ForwardKey(KeyEnter); out.Resolved {
		t.Fatal("Enter with nothing typed must not resolve")
	}
	f.keys("a")
	out := f.engine.ForwardKey(KeyEnter)
	if !out.Resolved || out.Label != "A" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestEngine_AmbiguousEnterKeepsSession(t *testing.T) {
	f := newEngine(t, gridOfButtons(5), func(r *Rules) { r.Alphabet = "AS" })
	f.enter(t)
	f.keys("q")
	if out := f.engine.ForwardKey(KeyEnter); out.Resolved {
		t.Fatal("unknown prefix must not resolve")
	}
	if !f.engine.Active() || f.engine.Typed() != "Q" {
		t.Error("failed resolution keeps the session and sequence")
	}
}

func TestEngine_BadgeStates(t *testing.T) {
	for _, hide := range []bool{false, true} {
		t.Run(fmt.Sprintf("hide=%v", hide), func(t *testing.T) {
			f := newEngine(t, gridOfButtons(30), func(r *Rules) { r.HideUnmatched = hide })
			f.enter(t)
			for _, b := range f.doc.Badges() {
				if st := b.State(); !st.Match || st.Exact || st.Hidden {
					t.Fatalf("initial state of %s = %+v", b.Label, st)
				}
			}
			f.keys("a")
			want := map[string]dom.BadgeState{
				"A":  {Match: true, Exact: true},
				"AA": {Match: true},
				"S":  {Hidden: hide},
			}
			for label, st := range want {
				if got := f.doc.Badge(label).State(); got != st {
					t.Errorf("%s = %+v, want %+v", label, got, st)
				}
			}
		})
	}
}

func TestEngine_RescanOnMutation(t *testing.T) {
	f := newEngine(t, rowOfButtons(3))
	f.engine.Start()
	defer f.engine.Stop()
	f.enter(t)

	f.keys("q")
	f.doc.Notify(dom.SubtreeChanged)
	if !f.engine.Active() {
		t.Fatal("rescan must keep the session")
	}
	if f.engine.Typed() != "" {
		t.Error("rescan resets the typed sequence")
	}
	if got := len(f.doc.Badges()); got != 3 {
		t.Errorf("badges after rescan = %d, want 3", got)
	}

	f.doc.Notify(dom.PointerActivity)
	if f.engine.Active() {
		t.Error("pointer activity must abort")
	}
	if f.listener.aborted != 1 {
		t.Errorf("aborted = %d", f.listener.aborted)
	}

	f.doc.Notify(dom.SubtreeChanged)
	if f.engine.Active() {
		t.Error("notifications must not start a session")
	}
}

func TestEngine_ExitIsIdempotent(t *testing.T) {
	f := newEngine(t, rowOfButtons(3))
	f.enter(t)
	f.engine.Exit()
	f.engine.Exit()
	if f.engine.Active() || len(f.doc.Badges()) != 0 {
		t.Error("exit must tear down")
	}
	if f.listener.aborted != 0 {
		t.Error("exit is controller-initiated and must not call back")
	}
	if out := f.engine.ForwardKey("a"); out.Resolved {
		t.Error("keys while inactive are ignored")
	}
}

func TestEngine_ReenterReplacesSession(t *testing.T) {
	f := newEngine(t, rowOfButtons(3))
	f.enter(t)
	f.keys("q")
	f.enter(t)
	if got := len(f.doc.Badges()); got != 3 {
		t.Errorf("badges = %d, want 3", got)
	}
	if f.engine.Typed() != "" {
		t.Error("re-entry resets the typed sequence")
	}
}

func TestEngine_Activate(t *testing.T) {
	f := newEngine(t, rowOfButtons(3))
	if _, err := f.engine.Activate("A"); !errors.Is(err, ErrNotActive) {
		t.Errorf("err = %v, want ErrNotActive", err)
	}
	f.enter(t)
	if _, err := f.engine.Activate("ZZ"); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("err = %v, want ErrUnknownLabel", err)
	}
	out, err := f.engine.Activate(" s ")
	if err != nil {
		t.Fatal(err)
	}
	if out.Target.ID != "b1" || out.Activation.Strategy != StrategyDirect {
		t.Errorf("outcome = %+v", out)
	}
}

func TestEngine_FocusInput(t *testing.T) {
	f := newEngine(t, `<div style="display: none"><textarea id="gone"></textarea></div><textarea id="ta" style="`+box(10, 10, 100, 40)+`"></textarea>`)
	if err := f.engine.FocusInput(); err != nil {
		t.Fatal(err)
	}
	if f.doc.ActiveElement() != mustNode(t, f.doc, "ta") {
		t.Error("first laid-out input not focused")
	}

	g := newEngine(t, `<p>none</p>`)
	if err := g.engine.FocusInput(); !errors.Is(err, ErrNoInput) {
		t.Errorf("err = %v, want ErrNoInput", err)
	}
}
