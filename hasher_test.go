package dictomaton

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/bmizerany/assert"
)

// ladder returns an automaton of n+1 states where state i has transitions on
// 'a' and 'b' to state i+1 and only the last state is final. It accepts 2^n
// words.
func ladder(n int, numWords int) *Automaton {
	a := &Automaton{
		offsets:  []int{0},
		final:    bitset.New(uint(n + 1)),
		numWords: numWords,
	}
	for i := 0; i < n; i++ {
		a.chars = append(a.chars, 'a', 'b')
		a.targets = append(a.targets, i+1, i+1)
		a.offsets = append(a.offsets, len(a.chars))
	}
	a.offsets = append(a.offsets, len(a.chars))
	a.final.Set(uint(n))
	return a
}

func TestPerfectHasherLadder(t *testing.T) {
	d, err := NewPerfectHashDictionary(ladder(10, 1024))
	if err != nil {
		t.Fatal(err)
	}
	r, err := d.Rank("baaaaaaaab")
	assert.Equal(t, nil, err)
	assert.Equal(t, 513, r)
	w, err := d.Unrank(1023)
	assert.Equal(t, nil, err)
	assert.Equal(t, "bbbbbbbbbb", w)
}

func TestPerfectHasherOverflow(t *testing.T) {
	// 2^64 paths wrap to 0 in a 64-bit int, matching a forged word count
	_, err := NewPerfectHashDictionary(ladder(64, 0))
	assert.Equal(t, errTooLarge, err)

	_, err = newPerfectHasher(ladder(63, 0))
	assert.Equal(t, errTooLarge, err)
}

func TestPerfectHasherCycle(t *testing.T) {
	a := ladder(2, 0)
	a.targets[3] = 0
	_, err := newPerfectHasher(a)
	assert.Equal(t, errCyclic, err)
}
