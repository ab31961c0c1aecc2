package dictomaton

import (
	"fmt"
	"iter"
)

// Dictionary is a read-only set of words backed by an Automaton. It is safe
// for concurrent use.
type Dictionary struct {
	automaton *Automaton
}

// NewDictionary wraps an automaton.
func NewDictionary(a *Automaton) *Dictionary {
	return &Dictionary{automaton: a}
}

// Automaton returns the underlying automaton.
func (d *Dictionary) Automaton() *Automaton {
	return d.automaton
}

// Contains reports whether word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	s := rootState
	for _, ch := range word {
		var ok bool
		if s, ok = d.automaton.Next(s, ch); !ok {
			return false
		}
	}
	return d.automaton.IsFinal(s)
}

// ContainsAll reports whether every one of words is in the dictionary.
func (d *Dictionary) ContainsAll(words []string) bool {
	for _, word := range words {
		if !d.Contains(word) {
			return false
		}
	}
	return true
}

// Size returns the number of words.
func (d *Dictionary) Size() int {
	return d.automaton.NumWords()
}

type walkFrame struct {
	state int
	edge  int
	index int
}

// All yields the words in ascending order. Each call starts a new
// traversal.
func (d *Dictionary) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		a := d.automaton
		if a.IsFinal(rootState) && !yield("") {
			return
		}
		var prefix []rune
		stack := []walkFrame{{state: rootState, edge: a.offsets[rootState]}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.edge == a.offsets[top.state+1] {
				stack = stack[:len(stack)-1]
				continue
			}
			e := top.edge
			top.edge++
			t := a.targets[e]
			prefix = append(prefix[:len(stack)-1], a.chars[e])
			if a.IsFinal(t) && !yield(string(prefix)) {
				return
			}
			stack = append(stack, walkFrame{state: t, edge: a.offsets[t]})
		}
	}
}

// FindResult is the result of a prefix lookup. It contains both the word
// found and its rank.
type FindResult struct {
	Word  string
	Index int
}

// EnumFn is called by Enumerate for every prefix of a word in the
// dictionary. index is the rank of the first word with that prefix. The rune
// slice is only valid during the call.
type EnumFn = func(index int, word []rune, final bool) EnumerationResult

// EnumerationResult is returned by the enumeration function to indicate whether
// enumeration should continue below this depth or to stop altogether
type EnumerationResult = int

const (
	// Continue enumerating all words with this prefix
	Continue EnumerationResult = iota

	// Skip will skip all words with this prefix
	Skip

	// Stop will immediately stop enumerating words
	Stop
)

// PerfectHashDictionary is a Dictionary that also maps every word to its
// rank in sorted order, and every rank back to its word.
type PerfectHashDictionary struct {
	*Dictionary
	hasher *perfectHasher
}

// NewPerfectHashDictionary computes the completion counts of a. It fails if
// a has a cycle or if its word count disagrees with its structure, which
// can only happen for automata read from a corrupted source.
func NewPerfectHashDictionary(a *Automaton) (*PerfectHashDictionary, error) {
	h, err := newPerfectHasher(a)
	if err != nil {
		return nil, err
	}
	if h.size() != a.NumWords() {
		return nil, fmt.Errorf("automaton accepts %d words, header says %d", h.size(), a.NumWords())
	}
	return &PerfectHashDictionary{Dictionary: NewDictionary(a), hasher: h}, nil
}

// Rank returns the zero-based position of word in the sorted word list.
func (d *PerfectHashDictionary) Rank(word string) (int, error) {
	r, ok := d.hasher.rank(d.automaton, word)
	if !ok {
		return 0, &NotFoundError{Key: word}
	}
	return r, nil
}

// Unrank returns the word at position rank of the sorted word list.
func (d *PerfectHashDictionary) Unrank(rank int) (string, error) {
	word, ok := d.hasher.unrank(d.automaton, rank)
	if !ok {
		return "", fmt.Errorf("%d: %w", rank, ErrRankOutOfRange)
	}
	return word, nil
}

// FindAllPrefixesOf returns all words in the dictionary that are a prefix of
// the input string, shortest first.
func (d *PerfectHashDictionary) FindAllPrefixesOf(input string) []FindResult {
	var results []FindResult
	a := d.automaton
	s, skipped := rootState, 0

	// for each character of the input
	for pos, ch := range input {
		// if the state is final, add a result
		if a.IsFinal(s) {
			results = append(results, FindResult{Word: input[:pos], Index: skipped})
		}

		// check if there is an outgoing edge for the letter
		e, ok := a.edge(s, ch)
		if !ok {
			return results
		}
		s = a.targets[e]
		skipped += d.hasher.skip[e]
	}

	if a.IsFinal(s) {
		results = append(results, FindResult{Word: input, Index: skipped})
	}
	return results
}

// Enumerate will call the given method, passing it every possible prefix of
// words in the dictionary, depth first and in ascending order. Return
// Continue to continue enumeration, Skip to skip this branch, or Stop to stop
// enumeration.
func (d *PerfectHashDictionary) Enumerate(fn EnumFn) {
	a := d.automaton
	if fn(0, nil, a.IsFinal(rootState)) != Continue {
		return
	}
	var runes []rune
	stack := []walkFrame{{state: rootState, edge: a.offsets[rootState]}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.edge == a.offsets[top.state+1] {
			stack = stack[:len(stack)-1]
			continue
		}
		e := top.edge
		top.edge++
		t := a.targets[e]
		index := top.index + d.hasher.skip[e]
		runes = append(runes[:len(stack)-1], a.chars[e])
		switch fn(index, runes, a.IsFinal(t)) {
		case Stop:
			return
		case Skip:
		default:
			stack = append(stack, walkFrame{state: t, edge: a.offsets[t], index: index})
		}
	}
}
