/*
Package dot reads the Graphviz export written by dictomaton.Automaton.WriteDot.

The export has one line per transition and one line per final state:

	digraph G {
	0 -> 1 [label="a"];
	1 [peripheries=2];
	}

Labels hold exactly one character and are not escaped, so any character,
including a double quote, may appear between the quotes.
*/
package dot

import (
	"fmt"
	"io"
	"iter"
	"sort"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/milden6/dictomaton"
)

var dotLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Char", Pattern: `"(?s:.)"`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Punct", Pattern: `[{}\[\]=;]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type graphAST struct {
	Name  string     `"digraph" @Ident "{"`
	Stmts []*stmtAST `@@* "}"`
}

type stmtAST struct {
	From int      `@Int`
	Edge *edgeAST `@@?`
	Attr *attrAST `@@? ";"`
}

type edgeAST struct {
	To    int    `"->" @Int`
	Label string `"[" "label" "=" @Char "]"`
}

type attrAST struct {
	Key   string `"[" @Ident "="`
	Value int    `@Int "]"`
}

var parser = participle.MustBuild[graphAST](
	participle.Lexer(dotLexer),
	participle.Elide("Whitespace"),
)

// Edge is a labelled transition.
type Edge struct {
	From, To int
	Label    rune
}

// Graph is a parsed export. States are numbered as in the export.
type Graph struct {
	Name   string
	edges  map[int][]Edge
	final  map[int]bool
	states int
}

// Parse reads an export.
func Parse(r io.Reader) (*Graph, error) {
	ast, err := parser.Parse("", r)
	if err != nil {
		return nil, err
	}
	g := &Graph{
		Name:  ast.Name,
		edges: make(map[int][]Edge),
		final: make(map[int]bool),
	}
	for _, st := range ast.Stmts {
		g.states = max(g.states, st.From+1)
		switch {
		case st.Edge != nil && st.Attr == nil:
			ch, _ := utf8.DecodeRuneInString(st.Edge.Label[1:])
			g.edges[st.From] = append(g.edges[st.From], Edge{From: st.From, To: st.Edge.To, Label: ch})
			g.states = max(g.states, st.Edge.To+1)
		case st.Attr != nil && st.Edge == nil:
			if st.Attr.Key != "peripheries" {
				return nil, fmt.Errorf("state %d: unknown attribute %q", st.From, st.Attr.Key)
			}
			if st.Attr.Value == 2 {
				g.final[st.From] = true
			}
		default:
			return nil, fmt.Errorf("state %d: expected a transition or an attribute", st.From)
		}
	}
	for s, edges := range g.edges {
		sort.Slice(edges, func(i, j int) bool { return edges[i].Label < edges[j].Label })
		for i := 1; i < len(edges); i++ {
			if edges[i].Label == edges[i-1].Label {
				return nil, fmt.Errorf("state %d: two transitions on %q", s, edges[i].Label)
			}
		}
	}
	return g, nil
}

// NumStates returns one more than the highest state id mentioned.
func (g *Graph) NumStates() int {
	return g.states
}

// IsFinal reports whether state s is marked final.
func (g *Graph) IsFinal(s int) bool {
	return g.final[s]
}

// Edges returns the transitions out of s in ascending label order.
func (g *Graph) Edges(s int) []Edge {
	return g.edges[s]
}

type frame struct {
	state int
	next  int
	depth int
}

// Words yields the words accepted from state 0 in ascending order. It stops
// with an error on a cycle.
func (g *Graph) Words() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if g.states == 0 {
			return
		}
		if g.final[0] && !yield("", nil) {
			return
		}
		onPath := map[int]bool{0: true}
		var prefix []rune
		stack := []frame{{state: 0}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := g.edges[top.state]
			if top.next == len(edges) {
				delete(onPath, top.state)
				stack = stack[:len(stack)-1]
				continue
			}
			e := edges[top.next]
			top.next++
			if onPath[e.To] {
				yield("", fmt.Errorf("cycle through state %d", e.To))
				return
			}
			prefix = append(prefix[:top.depth], e.Label)
			if g.final[e.To] && !yield(string(prefix), nil) {
				return
			}
			onPath[e.To] = true
			stack = append(stack, frame{state: e.To, depth: top.depth + 1})
		}
	}
}

// Load parses an export and rebuilds the dictionary it describes.
func Load(r io.Reader) (*dictomaton.PerfectHashDictionary, error) {
	g, err := Parse(r)
	if err != nil {
		return nil, err
	}
	b := dictomaton.New()
	for word, err := range g.Words() {
		if err != nil {
			return nil, err
		}
		if err := b.Add(word); err != nil {
			return nil, err
		}
	}
	return b.BuildPerfectHash(), nil
}
