package dictomaton

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Automaton is the immutable form of a minimal acyclic automaton.
//
// States are numbered breadth-first from the start state 0, following the
// transitions of each state in ascending character order. The transitions
// of state s are stored at [offsets[s], offsets[s+1]) of chars and targets.
// An Automaton is safe for concurrent use.
type Automaton struct {
	offsets  []int
	chars    []rune
	targets  []int
	final    *bitset.BitSet
	numWords int
}

// freeze numbers the states reachable from root and copies them into flat
// arrays.
func freeze(states []mutableState, root int, numWords int) *Automaton {
	ids := make([]int, len(states))
	for i := range ids {
		ids[i] = -1
	}
	ids[root] = 0
	order := []int{root} // doubles as the BFS queue

	a := &Automaton{
		offsets:  make([]int, 1, len(states)+1),
		final:    bitset.New(uint(len(states))),
		numWords: numWords,
	}
	for i := 0; i < len(order); i++ {
		s := &states[order[i]]
		if s.final {
			a.final.Set(uint(i))
		}
		for _, e := range s.edges {
			id := ids[e.to]
			if id < 0 {
				id = len(order)
				ids[e.to] = id
				order = append(order, e.to)
			}
			a.chars = append(a.chars, e.ch)
			a.targets = append(a.targets, id)
		}
		a.offsets = append(a.offsets, len(a.chars))
	}
	return a
}

// Start returns the start state, which is always 0.
func (a *Automaton) Start() int {
	return 0
}

// NumStates returns the number of states, including the start state.
func (a *Automaton) NumStates() int {
	return len(a.offsets) - 1
}

// NumTransitions returns the total number of transitions.
func (a *Automaton) NumTransitions() int {
	return len(a.chars)
}

// NumWords returns the number of words accepted by the automaton.
func (a *Automaton) NumWords() int {
	return a.numWords
}

// IsFinal reports whether state s is accepting.
func (a *Automaton) IsFinal(s int) bool {
	return a.final.Test(uint(s))
}

// Next follows the transition on ch out of state s.
func (a *Automaton) Next(s int, ch rune) (int, bool) {
	e, ok := a.edge(s, ch)
	if !ok {
		return 0, false
	}
	return a.targets[e], true
}

// Transitions yields the (character, target) pairs of state s in ascending
// character order.
func (a *Automaton) Transitions(s int) iter.Seq2[rune, int] {
	return func(yield func(rune, int) bool) {
		for e := a.offsets[s]; e < a.offsets[s+1]; e++ {
			if !yield(a.chars[e], a.targets[e]) {
				return
			}
		}
	}
}

// edge returns the index of the transition on ch out of s.
func (a *Automaton) edge(s int, ch rune) (int, bool) {
	lo, hi := a.offsets[s], a.offsets[s+1]
	e := lo + sort.Search(hi-lo, func(i int) bool { return a.chars[lo+i] >= ch })
	if e < hi && a.chars[e] == ch {
		return e, true
	}
	return 0, false
}

// WriteDot writes the automaton in Graphviz format: one line per final
// state followed by one line per transition, state by state in id order.
func (a *Automaton) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	for s := 0; s < a.NumStates(); s++ {
		if a.IsFinal(s) {
			fmt.Fprintf(bw, "%d [peripheries=2];\n", s)
		}
		for e := a.offsets[s]; e < a.offsets[s+1]; e++ {
			fmt.Fprintf(bw, "%d -> %d [label=\"%c\"];\n", s, a.targets[e], a.chars[e])
		}
	}
	fmt.Fprint(bw, "}")
	return bw.Flush()
}

// Dot returns the automaton in Graphviz format.
func (a *Automaton) Dot() string {
	var sb strings.Builder
	a.WriteDot(&sb)
	return sb.String()
}
