package dictomaton

import (
	"errors"
	"math"
	"sort"
)

var (
	errCyclic   = errors.New("automaton contains a cycle")
	errTooLarge = errors.New("automaton accepts too many words to rank")
)

// perfectHasher holds, for every state, the number of words that can be
// completed from it, and for every transition the number of words that sort
// before all words passing through it. The rank of a word is the sum of the
// skip counts along its path.
type perfectHasher struct {
	counts []int
	skip   []int
}

type hashFrame struct {
	state int
	edge  int
}

// newPerfectHasher computes the counts in a single post-order traversal.
// Shared states are visited once.
func newPerfectHasher(a *Automaton) (*perfectHasher, error) {
	const (
		unvisited = iota
		active
		done
	)
	h := &perfectHasher{
		counts: make([]int, a.NumStates()),
		skip:   make([]int, a.NumTransitions()),
	}
	mark := make([]uint8, a.NumStates())
	mark[rootState] = active
	stack := []hashFrame{{rootState, a.offsets[rootState]}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.edge < a.offsets[top.state+1] {
			t := a.targets[top.edge]
			top.edge++
			switch mark[t] {
			case active:
				return nil, errCyclic
			case unvisited:
				mark[t] = active
				stack = append(stack, hashFrame{t, a.offsets[t]})
			}
			continue
		}

		// all successors are counted
		s := top.state
		count := 0
		if a.IsFinal(s) {
			count++
		}
		for e := a.offsets[s]; e < a.offsets[s+1]; e++ {
			h.skip[e] = count
			c := h.counts[a.targets[e]]
			if count > math.MaxInt-c {
				return nil, errTooLarge
			}
			count += c
		}
		h.counts[s] = count
		mark[s] = done
		stack = stack[:len(stack)-1]
	}
	return h, nil
}

func (h *perfectHasher) size() int {
	return h.counts[rootState]
}

func (h *perfectHasher) rank(a *Automaton, word string) (int, bool) {
	s, r := rootState, 0
	for _, ch := range word {
		e, ok := a.edge(s, ch)
		if !ok {
			return 0, false
		}
		r += h.skip[e]
		s = a.targets[e]
	}
	if !a.IsFinal(s) {
		return 0, false
	}
	return r, true
}

func (h *perfectHasher) unrank(a *Automaton, r int) (string, bool) {
	if r < 0 || r >= h.size() {
		return "", false
	}
	var word []rune
	s := rootState
	for {
		if r == 0 && a.IsFinal(s) {
			return string(word), true
		}
		// take the last transition that skips no more than r words
		lo, hi := a.offsets[s], a.offsets[s+1]
		e := lo + sort.Search(hi-lo, func(i int) bool { return h.skip[lo+i] > r }) - 1
		if e < lo {
			return "", false
		}
		r -= h.skip[e]
		word = append(word, a.chars[e])
		s = a.targets[e]
	}
}
