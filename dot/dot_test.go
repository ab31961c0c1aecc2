package dot

import (
	"strings"
	"testing"

	"github.com/bmizerany/assert"

	"github.com/milden6/dictomaton"
)

func collect(t *testing.T, g *Graph) []string {
	t.Helper()
	var words []string
	for w, err := range g.Words() {
		if err != nil {
			t.Fatal(err)
		}
		words = append(words, w)
	}
	return words
}

func TestParseExport(t *testing.T) {
	words := []string{"al", "alleen", "avonden", "zeemeeuw", "zeker", "zeven", "zoeven"}
	b := dictomaton.New()
	for _, w := range words {
		if err := b.Add(w); err != nil {
			t.Fatal(err)
		}
	}

	g, err := Parse(strings.NewReader(b.Dot()))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "G", g.Name)
	assert.Equal(t, 21, g.NumStates())
	assert.T(t, g.IsFinal(3))
	assert.T(t, g.IsFinal(18))
	assert.T(t, !g.IsFinal(0))
	assert.Equal(t, []Edge{{From: 0, To: 1, Label: 'a'}, {From: 0, To: 2, Label: 'z'}}, g.Edges(0))
	assert.Equal(t, words, collect(t, g))
}

func TestLoadRoundTrip(t *testing.T) {
	// labels that look like syntax
	words := []string{"", "\"", "a b", "a;", "x->y", "{}", "é中"}
	b := dictomaton.New()
	for _, w := range words {
		if err := b.Add(w); err != nil {
			t.Fatal(err)
		}
	}
	export := b.Dot()

	d, err := Load(strings.NewReader(export))
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range words {
		r, err := d.Rank(w)
		assert.Equal(t, nil, err)
		assert.Equal(t, i, r)
	}
	assert.Equal(t, export, d.Automaton().Dot())
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"digraph G {",
		"graph G { }",
		"digraph G { 0 -> 1; }",
		"digraph G { 0 [color=2]; }",
		"digraph G { 0 -> 1 [label=\"a\"]; 0 -> 2 [label=\"a\"]; }",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) succeeded", input)
		}
	}
}

func TestWordsCycle(t *testing.T) {
	g, err := Parse(strings.NewReader("digraph G { 0 -> 1 [label=\"a\"]; 1 [peripheries=2]; 1 -> 0 [label=\"b\"]; }"))
	if err != nil {
		t.Fatal(err)
	}
	var last error
	for _, err := range g.Words() {
		last = err
	}
	assert.T(t, last != nil, "expected a cycle error")
}
