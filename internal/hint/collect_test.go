package hint

import (
	"reflect"
	"testing"
)

func candidateIDs(cands []Candidate) []string {
	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.Node.Attr("id")
	}
	return ids
}

func TestCollect_UnionAndDedup(t *testing.T) {
	d := mustDoc(t, `
<button id="b1" class="clickable__abc">B</button>
<div id="f1" class="foo clickTrapContainer_x"></div>
<button id="hidden" aria-hidden="true"></button>
<textarea id="t1"></textarea>
<div id="cb" role="combobox" contenteditable="true"></div>
<div id="plain" contenteditable="true"></div>
<a id="link" href="/x">x</a>
`)
	cands := Collect(d, DefaultRules(), nil)

	want := []string{"b1", "link", "f1", "t1", "cb"}
	if got := candidateIDs(cands); !reflect.DeepEqual(got, want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	wantTags := map[string][]string{
		"b1":   {"clickable", "fuzzy"},
		"link": {"clickable"},
		"f1":   {"fuzzy"},
		"t1":   {"input"},
		"cb":   {"input"},
	}
	for _, c := range cands {
		id := c.Node.Attr("id")
		if got := c.Sources.Tags(); !reflect.DeepEqual(got, wantTags[id]) {
			t.Errorf("%s tags = %v, want %v", id, got, wantTags[id])
		}
	}
}

func TestCollect_BadSelectorOnlyDropsItself(t *testing.T) {
	d := mustDoc(t, `<button id="a">a</button><a id="l" href="#">l</a>`)
	rules := DefaultRules()
	rules.Clickable = []string{"button", "[[broken", "a[href]"}
	rules.FuzzyIncludeEnabled = false

	got := candidateIDs(Collect(d, rules, nil))
	want := []string{"a", "l"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("candidates = %v, want %v", got, want)
	}
}

func TestCollect_FuzzyIncludeDisabled(t *testing.T) {
	d := mustDoc(t, `<div id="f" class="clickable__zz"></div>`)
	rules := DefaultRules()
	rules.FuzzyIncludeEnabled = false
	if got := Collect(d, rules, nil); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", candidateIDs(got))
	}
}

func TestCollect_Empty(t *testing.T) {
	d := mustDoc(t, `<p>nothing here</p>`)
	if got := Collect(d, DefaultRules(), nil); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", candidateIDs(got))
	}
}

func TestFuzzyIncludeSelector_Escapes(t *testing.T) {
	got := fuzzyIncludeSelector([]string{`a"b`, "", `c\d`})
	want := `body [class*="a\"b"], body [class*="c\\d"]`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestIsKnownInput(t *testing.T) {
	d := mustDoc(t, `
<div id="composer" contenteditable="true" data-slate-editor="true"></div>
<textarea id="ta"></textarea>
<input id="text" type="text">
<input id="check" type="checkbox">
<div id="search" aria-label="  search " contenteditable="true"></div>
<div id="qs" aria-label="Quick Switcher"></div>
<div id="combo" role="combobox" contenteditable="true"></div>
<div id="combo-ro" role="combobox" contenteditable="false"></div>
<div id="plain" contenteditable="true"></div>
`)
	rules := DefaultRules().Inputs
	tests := []struct {
		id   string
		want bool
	}{
		{"composer", true},
		{"ta", true},
		{"text", true},
		{"check", false},
		{"search", true},
		{"qs", true},
		{"combo", true},
		{"combo-ro", false},
		{"plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := IsKnownInput(mustNode(t, d, tt.id), rules); got != tt.want {
				t.Errorf("IsKnownInput(#%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestFindKnownInputs(t *testing.T) {
	d := mustDoc(t, `
<div id="search" aria-label="Search" contenteditable="true"></div>
<textarea id="ta"></textarea>
<div id="combo" role="combobox" contenteditable="true"></div>
<div id="plain" contenteditable="true"></div>
`)
	got := FindKnownInputs(d, DefaultRules().Inputs, nil)
	var ids []string
	for _, n := range got {
		ids = append(ids, n.Attr("id"))
	}
	want := []string{"ta", "search", "combo"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("inputs = %v, want %v", ids, want)
	}
}
