package hint

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mj1618/hintnav/internal/dom"
)

// Score weighs stacking level above area and area above closeness to the
// viewport centre.
func Score(n dom.Node, vp dom.Size) float64 {
	rect := n.Rect()
	z := zIndex(n.Style())
	return float64(z)*1e9 + rect.Area()*1e3 - dom.Distance(rect.Center(), vp.Center())
}

// zIndex parses the leading integer of the computed z-index, so "5px"
// reads as 5. auto and garbage count as 0.
func zIndex(st dom.Style) int {
	v := strings.TrimSpace(st.ZIndex)
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	z, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return z
}

// Rank sorts candidates by descending Score. Equal scores keep their
// collection order.
func Rank(cands []Candidate, vp dom.Size) []Candidate {
	scores := make(map[dom.Node]float64, len(cands))
	for _, c := range cands {
		scores[c.Node] = Score(c.Node, vp)
	}
	out := append([]Candidate(nil), cands...)
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i].Node] > scores[out[j].Node]
	})
	return out
}
