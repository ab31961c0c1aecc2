/*
Package dictomaton builds immutable string dictionaries and string maps on top
of a minimal acyclic deterministic finite-state automaton (a DAWG).

The automaton is minimized while it is built: words are added in strictly
increasing order, and every time a word is added the part of the previous
word that can no longer change is folded into a register of canonical states.
Equivalent suffixes are shared, so the automaton never grows beyond its
minimal size.

Once built, every state knows how many words can be completed from it. This
gives a perfect hash: each word maps to its rank in the sorted word list, and
each rank maps back to its word, in time proportional to the word length and
without storing the words themselves.

In general, to use it you first create a builder using dictomaton.New(). You
then add words with Add, in strictly increasing order, and call Build or
BuildPerfectHash. If you need to associate values with words, use
NewMapBuilder (any order) or NewOrderedMapBuilder (sorted order).

After building, you may write the automaton to disk with Save and open it
again with Load. The graph can also be exported in Graphviz format with
WriteDot; package dot reads that format back.
*/
package dictomaton

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'dictomaton'
func tracer() tracing.Trace {
	return tracing.Select("dictomaton")
}

func must(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
