package hint

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/hintnav/internal/dom/fixture"
)

func box(x, y, w, h int) string {
	return fmt.Sprintf("left: %dpx; top: %dpx; width: %dpx; height: %dpx", x, y, w, h)
}

func mustDoc(t *testing.T, body string) *fixture.Document {
	t.Helper()
	d, err := fixture.Parse(`<!doctype html><html><body style="width: 1280px; height: 800px">` + body + `</body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func mustNode(t *testing.T, d *fixture.Document, id string) *fixture.Node {
	t.Helper()
	n := d.ByID(id)
	if n == nil {
		t.Fatalf("no element #%s", id)
	}
	return n
}

// rowOfButtons lays out n buttons on a horizontal line starting at the
// viewport centre, so button i is strictly farther from the centre than
// button i-1. They are written in reverse document order.
func rowOfButtons(n int) string {
	var s string
	for i := n - 1; i >= 0; i-- {
		s += fmt.Sprintf(`<button id="b%d" style="%s">%d</button>`, i, box(620+50*i, 380, 40, 40), i)
	}
	return s
}

// gridOfButtons lays out n equal buttons in rows of ten.
func gridOfButtons(n int) string {
	var s string
	for i := 0; i < n; i++ {
		s += fmt.Sprintf(`<button id="g%d" style="%s">%d</button>`, i, box(20+110*(i%10), 20+60*(i/10), 100, 40), i)
	}
	return s
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fire runs the callback even when stopped, the way a timer that already
// fired races a Stop.
func (t *fakeTimer) fire() { t.f() }

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

type recordingListener struct {
	mu       sync.Mutex
	resolved []bool
	aborted  int
}

func (l *recordingListener) HintResolved(knownInput bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resolved = append(l.resolved, knownInput)
}

func (l *recordingListener) HintAborted() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.aborted++
}
