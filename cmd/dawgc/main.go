// Command dawgc compiles a word list, one word per line, into a minimal
// automaton and writes it in binary or Graphviz form.
//
//	dawgc [-sort] [-verify] [-stats] [-dot] [-o out] words.txt
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/milden6/dictomaton"
)

var (
	outName  string
	dotOut   bool
	sortIn   bool
	verify   bool
	stats    bool
	logLevel string
)

func init() {
	flag.StringVar(&outName, "o", "", "Output file. Defaults to standard output.")
	flag.BoolVar(&dotOut, "dot", false, "Write Graphviz instead of the binary format.")
	flag.BoolVar(&sortIn, "sort", false, "Sort and deduplicate the input first.")
	flag.BoolVar(&verify, "verify", false, "Compare the compiled word list with the input.")
	flag.BoolVar(&stats, "stats", false, "Print automaton statistics to standard error.")
	flag.StringVar(&logLevel, "log", "Error", "Trace level: Error, Info or Debug.")
}

func readWords(inName string) ([]string, error) {
	var r io.Reader = os.Stdin
	if inName != "" && inName != "-" {
		file, err := os.Open(inName)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}

	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, strings.TrimRight(scanner.Text(), "\r"))
	}
	return words, scanner.Err()
}

func sortedUnique(words []string) []string {
	sort.Strings(words)
	out := words[:0]
	for i, w := range words {
		if i == 0 || w != words[i-1] {
			out = append(out, w)
		}
	}
	return out
}

// compareWords checks that the dictionary yields exactly the given words, in
// the same order, and that ranks match positions.
func compareWords(d *dictomaton.PerfectHashDictionary, words []string) error {
	i := 0
	for w := range d.All() {
		if i >= len(words) {
			return fmt.Errorf("extra word %q", w)
		}
		if w != words[i] {
			return fmt.Errorf("word %d: got %q, expected %q", i, w, words[i])
		}
		if r, err := d.Rank(w); err != nil || r != i {
			return fmt.Errorf("word %q: rank %d, expected %d (%v)", w, r, i, err)
		}
		i++
	}
	if i != len(words) {
		return fmt.Errorf("got %d words, expected %d", i, len(words))
	}
	return nil
}

func printStats(d *dictomaton.PerfectHashDictionary, elapsed time.Duration) {
	a := d.Automaton()
	fmt.Fprintln(os.Stderr, "Statistics for compiled automaton:")
	fmt.Fprintf(os.Stderr, "  Number of words: %d\n", a.NumWords())
	fmt.Fprintf(os.Stderr, "  Number of states: %d\n", a.NumStates())
	fmt.Fprintf(os.Stderr, "  Total transitions: %d\n", a.NumTransitions())
	fmt.Fprintf(os.Stderr, "  Build time: %v\n", elapsed)
}

func run(inName string) error {
	words, err := readWords(inName)
	if err != nil {
		return err
	}
	if sortIn {
		words = sortedUnique(words)
	}

	start := time.Now()
	b := dictomaton.New()
	for i, w := range words {
		if err := b.Add(w); err != nil {
			var ooe *dictomaton.OutOfOrderError
			if errors.As(err, &ooe) {
				return fmt.Errorf("line %d: %w (use -sort)", i+1, err)
			}
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	d := b.BuildPerfectHash()
	elapsed := time.Since(start)

	if verify {
		if err := compareWords(d, words); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		tracing.Infof("verified %d words", len(words))
	}
	if stats {
		printStats(d, elapsed)
	}

	if outName == "" {
		return writeAutomaton(os.Stdout, d)
	}
	file, err := os.Create(outName)
	if err != nil {
		return err
	}
	err = writeAutomaton(file, d)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeAutomaton(w io.Writer, d *dictomaton.PerfectHashDictionary) error {
	if dotOut {
		return d.Automaton().WriteDot(w)
	}
	n, err := d.Automaton().Write(w)
	tracing.Infof("wrote %d bytes", n)
	return err
}

func main() {
	flag.Parse()

	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	// one tracer serves every key
	tracing.Select("root").SetTraceLevel(tracing.TraceLevelFromString(logLevel))

	if err := run(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}
