package dictomaton

import (
	"io"
	"iter"
	"unicode/utf8"
)

const rootState = 0

type uncheckedNode struct {
	parent int
	ch     rune
	child  int
}

// Builder creates a minimal automaton from words added in strictly
// increasing order. A Builder must not be used from more than one goroutine
// at a time.
type Builder struct {
	// these are erased after we finish building
	lastWord       string
	lastRunes      []rune
	states         []mutableState
	free           []int
	uncheckedNodes []uncheckedNode
	register       *register

	numAdded  int
	automaton *Automaton // set once finalized
}

// New creates a new Builder holding only the root state.
func New() *Builder {
	b := &Builder{register: newRegister()}
	b.newState()
	return b
}

// CanAdd will return true if the word can be added to the Builder.
func (b *Builder) CanAdd(word string) bool {
	return b.automaton == nil && utf8.ValidString(word) &&
		(b.numAdded == 0 || word > b.lastWord)
}

// Add adds a word. Words must be valid UTF-8 and strictly greater than the
// previously added word. A failed Add leaves the builder unchanged.
func (b *Builder) Add(word string) error {
	if b.automaton != nil {
		return ErrFinalized
	}
	if !utf8.ValidString(word) {
		return ErrInvalidWord
	}
	if b.numAdded > 0 && word <= b.lastWord {
		return &OutOfOrderError{Previous: b.lastWord, Word: word}
	}

	runes := []rune(word)

	// find common prefix between word and previous word
	commonPrefix := 0
	for commonPrefix < len(runes) && commonPrefix < len(b.lastRunes) &&
		runes[commonPrefix] == b.lastRunes[commonPrefix] {
		commonPrefix++
	}

	// Fold the unchecked nodes into the register, from the last one up to
	// the common prefix, then truncate the list at that point.
	b.minimize(commonPrefix)

	// add the suffix, starting from the correct node mid-way through the
	// graph
	node := rootState
	if n := len(b.uncheckedNodes); n > 0 {
		node = b.uncheckedNodes[n-1].child
	}
	for _, ch := range runes[commonPrefix:] {
		next := b.newState()
		b.states[node].addEdge(ch, next)
		b.uncheckedNodes = append(b.uncheckedNodes, uncheckedNode{node, ch, next})
		node = next
	}

	b.states[node].setFinal()
	b.lastWord = word
	b.lastRunes = runes
	b.numAdded++
	return nil
}

// AddAll adds words in sequence order and stops at the first error.
func (b *Builder) AddAll(words iter.Seq[string]) error {
	for word := range words {
		if err := b.Add(word); err != nil {
			return err
		}
	}
	return nil
}

// NumAdded returns the number of words added.
func (b *Builder) NumAdded() int {
	return b.numAdded
}

// Build finalizes the builder and returns a membership dictionary.
func (b *Builder) Build() *Dictionary {
	return NewDictionary(b.finish())
}

// BuildPerfectHash finalizes the builder and returns a dictionary that maps
// every word to its rank and back.
func (b *Builder) BuildPerfectHash() *PerfectHashDictionary {
	d, err := NewPerfectHashDictionary(b.finish())
	must(err == nil, "built automaton cannot be ranked")
	return d
}

// WriteDot finalizes the builder and writes the automaton in Graphviz
// format.
func (b *Builder) WriteDot(w io.Writer) error {
	return b.finish().WriteDot(w)
}

// Dot finalizes the builder and returns the automaton in Graphviz format.
func (b *Builder) Dot() string {
	return b.finish().Dot()
}

// finish folds the last word into the register and freezes the automaton.
// Later calls return the same automaton.
func (b *Builder) finish() *Automaton {
	if b.automaton == nil {
		b.minimize(0)
		b.automaton = freeze(b.states, rootState, b.numAdded)
		tracer().Infof("automaton built: words=%d states=%d transitions=%d register=%d shared=%d",
			b.numAdded, b.automaton.NumStates(), b.automaton.NumTransitions(),
			b.register.size, b.register.hits)

		// no longer needed
		b.states = nil
		b.free = nil
		b.uncheckedNodes = nil
		b.register = nil
		b.lastRunes = nil
	}
	return b.automaton
}

func (b *Builder) minimize(downTo int) {
	// proceed from the leaf up to a certain point
	for i := len(b.uncheckedNodes) - 1; i >= downTo; i-- {
		u := b.uncheckedNodes[i]
		if canonical, found := b.register.replaceOrRegister(b.states, u.child); found {
			// replace the child with the previously encountered one
			b.states[u.parent].setLastTarget(canonical)
			b.releaseState(u.child)
		}
	}
	b.uncheckedNodes = b.uncheckedNodes[:downTo]
}

func (b *Builder) newState() int {
	if n := len(b.free); n > 0 {
		id := b.free[n-1]
		b.free = b.free[:n-1]
		return id
	}
	b.states = append(b.states, mutableState{})
	return len(b.states) - 1
}

func (b *Builder) releaseState(id int) {
	b.states[id].reset()
	b.free = append(b.free, id)
}
