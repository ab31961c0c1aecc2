package dictomaton_test

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/armon/go-radix"
	"github.com/bmizerany/assert"

	"github.com/milden6/dictomaton"
)

var alphabet = []rune("abcdeéßz中")

// randomWords returns n random distinct words in ascending order. A radix
// tree serves as the reference ordered set.
func randomWords(seed int64, n int) []string {
	rng := rand.New(rand.NewSource(seed))
	tree := radix.New()
	for tree.Len() < n {
		word := make([]rune, rng.Intn(8))
		for i := range word {
			word[i] = alphabet[rng.Intn(len(alphabet))]
		}
		tree.Insert(string(word), nil)
	}

	words := make([]string, 0, n)
	tree.Walk(func(s string, _ interface{}) bool {
		words = append(words, s)
		return false
	})
	return words
}

func buildDictionary(t *testing.T, words []string) *dictomaton.PerfectHashDictionary {
	t.Helper()
	b := dictomaton.New()
	if err := b.AddAll(slices.Values(words)); err != nil {
		t.Fatal(err)
	}
	return b.BuildPerfectHash()
}

func testDictionary(t *testing.T, d *dictomaton.PerfectHashDictionary, words []string) {
	t.Helper()
	if d.Size() != len(words) {
		t.Errorf("Size() returned %d, expected %d", d.Size(), len(words))
	}
	assert.T(t, d.ContainsAll(words))

	for i, word := range words {
		if !d.Contains(word) {
			t.Errorf("Contains(%q) returned false", word)
		}
		if d.Contains(word + "#") {
			t.Errorf("Contains(%q) returned true", word+"#")
		}

		index, err := d.Rank(word)
		if err != nil || index != i {
			t.Errorf("Rank(%q) returned %d, %v, expected %d", word, index, err, i)
		}
		w, err := d.Unrank(i)
		if err != nil || w != word {
			t.Errorf("Unrank(%d) returned %q, %v, expected %q", i, w, err, word)
		}
	}

	got := slices.Collect(d.All())
	if !slices.Equal(got, words) {
		t.Errorf("All() yielded %d words, expected %d", len(got), len(words))
	}
	// restartable
	assert.Equal(t, len(words), len(slices.Collect(d.All())))

	if _, err := d.Unrank(len(words)); err == nil {
		t.Errorf("Unrank(%d) succeeded on %d words", len(words), len(words))
	}
	if _, err := d.Unrank(-1); err == nil {
		t.Errorf("Unrank(-1) succeeded")
	}
}

func TestSingleEntry(t *testing.T) {
	words := []string{"a"}
	testDictionary(t, buildDictionary(t, words), words)
}

func TestZeroLengthWord(t *testing.T) {
	words := []string{""}
	testDictionary(t, buildDictionary(t, words), words)
}

func TestHelloJello(t *testing.T) {
	words := []string{"hello", "jello"}
	testDictionary(t, buildDictionary(t, words), words)
}

func TestRandomWords(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		words := randomWords(seed, 2000)
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			testDictionary(t, buildDictionary(t, words), words)
		})
	}
}

func TestNotFound(t *testing.T) {
	d := buildDictionary(t, []string{"cat", "cats"})
	for _, word := range []string{"", "ca", "catsup", "dog"} {
		_, err := d.Rank(word)
		var nfe *dictomaton.NotFoundError
		if !errors.As(err, &nfe) {
			t.Fatalf("Rank(%q) returned %v, expected a NotFoundError", word, err)
		}
		assert.Equal(t, word, nfe.Key)
		assert.T(t, errors.Is(err, dictomaton.ErrNotFound))
	}
}

func TestConcurrentReaders(t *testing.T) {
	words := randomWords(42, 500)
	d := buildDictionary(t, words)

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, word := range words {
				if r, err := d.Rank(word); err != nil || r != i {
					errs <- word
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for word := range errs {
		t.Errorf("concurrent Rank(%q) failed", word)
	}
}

func testPrefixes(t *testing.T, words []string, word string, shouldbe []dictomaton.FindResult) {
	d := buildDictionary(t, words)

	results := d.FindAllPrefixesOf(word)

	if len(results) != len(shouldbe) {
		t.Errorf("Got %v but should be %v", results, shouldbe)
	}

	for i, result := range results {
		if result != shouldbe[i] {
			t.Errorf("Got %v but should be %v", results, shouldbe)
			break
		}
	}
}

func TestPrefixes(t *testing.T) {
	words := []string{
		"",
		"blip",
		"cat",
		"catnip",
		"cats",
	}

	testPrefixes(t, words, "catsup", []dictomaton.FindResult{
		{Word: "", Index: 0},
		{Word: "cat", Index: 2},
		{Word: "cats", Index: 4},
	})
	testPrefixes(t, words, "dog", []dictomaton.FindResult{
		{Word: "", Index: 0},
	})
	testPrefixes(t, []string{"aé", "aéb"}, "aébc", []dictomaton.FindResult{
		{Word: "aé", Index: 0},
		{Word: "aéb", Index: 1},
	})
}

func TestEnumerate(t *testing.T) {
	words := []string{"", "blip", "cat", "catnip", "cats"}
	d := buildDictionary(t, words)

	var found []string
	d.Enumerate(func(index int, word []rune, final bool) dictomaton.EnumerationResult {
		if final {
			assert.Equal(t, len(found), index)
			found = append(found, string(word))
		}
		return dictomaton.Continue
	})
	assert.Equal(t, words, found)

	found = nil
	d.Enumerate(func(index int, word []rune, final bool) dictomaton.EnumerationResult {
		if final {
			found = append(found, string(word))
		}
		if string(word) == "cat" {
			return dictomaton.Skip
		}
		return dictomaton.Continue
	})
	assert.Equal(t, []string{"", "blip", "cat"}, found)

	found = nil
	d.Enumerate(func(index int, word []rune, final bool) dictomaton.EnumerationResult {
		if final && len(word) > 0 {
			found = append(found, string(word))
			return dictomaton.Stop
		}
		return dictomaton.Continue
	})
	assert.Equal(t, []string{"blip"}, found)
}

func readDictWords(t *testing.T) []string {
	dict := "/usr/share/dict/words"
	if _, err := os.Stat(dict); os.IsNotExist(err) {
		t.Logf("Skipping full dictionary test; can't find %s", dict)
		return nil
	}

	file, err := os.Open(dict)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	slices.Sort(words)
	return slices.Compact(words)
}

func TestFullDict(t *testing.T) {
	words := readDictWords(t)
	if words == nil {
		return
	}
	d := buildDictionary(t, words)
	testDictionary(t, d, words)
	a := d.Automaton()
	t.Logf("automaton has %v words, %v states, %v transitions",
		a.NumWords(), a.NumStates(), a.NumTransitions())
}

func ExampleBuilder_BuildPerfectHash() {
	b := dictomaton.New()

	b.Add("blip")   // index 0
	b.Add("cat")    // index 1
	b.Add("catnip") // index 2
	b.Add("cats")   // index 3

	d := b.BuildPerfectHash()

	for _, result := range d.FindAllPrefixesOf("catsup") {
		fmt.Printf("Found prefix %s, index %d\n", result.Word, result.Index)
	}

	// Output:
	// Found prefix cat, index 1
	// Found prefix cats, index 3
}

func ExamplePerfectHashDictionary_Unrank() {
	b := dictomaton.New()
	for _, word := range []string{"apple", "banana", "cherry"} {
		b.Add(word)
	}
	d := b.BuildPerfectHash()

	word, _ := d.Unrank(1)
	rank, _ := d.Rank("cherry")
	fmt.Println(word, rank)

	// Output:
	// banana 2
}
