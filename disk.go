package dictomaton

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/bits-and-blooms/bitset"
	"github.com/zeebo/blake3"
	"golang.org/x/exp/mmap"
)

/* FILE FORMAT
- 4 bytes: magic "DCTM"
- 1 byte: format version
- 7code: number of words
- 7code: number of states
- 7code: number of transitions
- 1 byte: cbits, bits per character
- 1 byte: abits, bits per state id
- for each state, in id order:
	- 1 bit: is state final?
	- 7code: number of transitions
	- for each transition:
		cbits: character
		abits: target state id
- zero bits up to the next byte boundary
- 32 bytes: BLAKE3-256 digest of everything before it

7code is defined in bits.go.
*/

const (
	magic         = "DCTM"
	formatVersion = 1
	digestLen     = 32
)

var (
	// ErrBadMagic is returned when reading data that is not a saved automaton.
	ErrBadMagic = errors.New("not a dictomaton file")

	// ErrChecksum is returned when a saved automaton fails its integrity check.
	ErrChecksum = errors.New("checksum mismatch")
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Save writes the automaton to a file. Returns the number of bytes written.
func (a *Automaton) Save(filename string) (int64, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	n, err := a.Write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// Write writes the automaton to an io.Writer. Returns the number of bytes
// written.
func (a *Automaton) Write(w io.Writer) (int64, error) {
	var maxChar rune
	for _, ch := range a.chars {
		if ch > maxChar {
			maxChar = ch
		}
	}
	cbits := bits.Len32(uint32(maxChar))
	abits := bits.Len(uint(a.NumStates() - 1))

	h := blake3.New()
	cw := &countingWriter{w: io.MultiWriter(w, h)}
	bw := newBitWriter(cw)

	for i := 0; i < len(magic); i++ {
		bw.WriteBits(uint64(magic[i]), 8)
	}
	bw.WriteBits(formatVersion, 8)
	writeUnsigned(bw, uint64(a.NumWords()))
	writeUnsigned(bw, uint64(a.NumStates()))
	writeUnsigned(bw, uint64(a.NumTransitions()))
	bw.WriteBits(uint64(cbits), 8)
	bw.WriteBits(uint64(abits), 8)

	for s := 0; s < a.NumStates(); s++ {
		if a.IsFinal(s) {
			bw.WriteBits(1, 1)
		} else {
			bw.WriteBits(0, 1)
		}
		writeUnsigned(bw, uint64(a.offsets[s+1]-a.offsets[s]))
		for e := a.offsets[s]; e < a.offsets[s+1]; e++ {
			bw.WriteBits(uint64(a.chars[e]), cbits)
			bw.WriteBits(uint64(a.targets[e]), abits)
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, err
	}

	n, err := w.Write(h.Sum(nil))
	return cw.n + int64(n), err
}

// Load opens a saved automaton from a memory-mapped file.
func Load(filename string) (*PerfectHashDictionary, error) {
	f, err := mmap.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Read(f, int64(f.Len()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return d, nil
}

// Read decodes a saved automaton of the given size in bytes.
func Read(r io.ReaderAt, size int64) (*PerfectHashDictionary, error) {
	if size < int64(len(magic))+1+digestLen {
		return nil, ErrBadMagic
	}

	body := size - digestLen
	h := blake3.New()
	if _, err := io.Copy(h, io.NewSectionReader(r, 0, body)); err != nil {
		return nil, err
	}
	digest := make([]byte, digestLen)
	if _, err := r.ReadAt(digest, body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if !bytes.Equal(digest, h.Sum(nil)) {
		tracer().Errorf("automaton digest mismatch")
		return nil, ErrChecksum
	}

	a, err := decode(newBitSeeker(io.NewSectionReader(r, 0, body)), body*8)
	if err != nil {
		return nil, err
	}
	d, err := NewPerfectHashDictionary(a)
	if err != nil {
		return nil, err
	}
	tracer().Infof("automaton loaded: words=%d states=%d transitions=%d",
		a.NumWords(), a.NumStates(), a.NumTransitions())
	return d, nil
}

func decode(r *bitSeeker, totalBits int64) (*Automaton, error) {
	for i := 0; i < len(magic); i++ {
		if byte(r.ReadBits(8)) != magic[i] {
			return nil, ErrBadMagic
		}
	}
	if v := r.ReadBits(8); v != formatVersion {
		return nil, fmt.Errorf("unsupported format version %d", v)
	}

	var header [3]uint64
	for i := range header {
		var err error
		if header[i], err = readUnsigned(r); err != nil {
			return nil, err
		}
	}
	numWords, numStates, numTransitions := header[0], header[1], header[2]
	cbits := int64(r.ReadBits(8))
	abits := int64(r.ReadBits(8))
	if r.err != nil {
		return nil, r.err
	}

	// every state takes at least 9 bits, every transition cbits+abits
	remaining := totalBits - r.Tell()
	if numStates == 0 || cbits > 32 || abits > 63 ||
		numStates > uint64(remaining)/9 ||
		(cbits+abits > 0 && numTransitions > uint64(remaining)/uint64(cbits+abits)) {
		return nil, fmt.Errorf("corrupt header: states=%d transitions=%d cbits=%d abits=%d",
			numStates, numTransitions, cbits, abits)
	}

	a := &Automaton{
		offsets:  make([]int, 1, numStates+1),
		chars:    make([]rune, 0, numTransitions),
		targets:  make([]int, 0, numTransitions),
		final:    bitset.New(uint(numStates)),
		numWords: int(numWords),
	}
	for s := uint64(0); s < numStates; s++ {
		if r.ReadBits(1) == 1 {
			a.final.Set(uint(s))
		}
		n, err := readUnsigned(r)
		if err != nil {
			return nil, err
		}
		if n > numTransitions-uint64(len(a.chars)) {
			return nil, fmt.Errorf("state %d: too many transitions", s)
		}
		for i := uint64(0); i < n; i++ {
			ch := rune(r.ReadBits(cbits))
			t := r.ReadBits(abits)
			if t >= numStates {
				return nil, fmt.Errorf("state %d: transition to unknown state %d", s, t)
			}
			if i > 0 && ch <= a.chars[len(a.chars)-1] {
				return nil, fmt.Errorf("state %d: transitions out of order", s)
			}
			a.chars = append(a.chars, ch)
			a.targets = append(a.targets, int(t))
		}
		a.offsets = append(a.offsets, len(a.chars))
	}
	if r.err != nil {
		return nil, r.err
	}
	if uint64(len(a.chars)) != numTransitions {
		return nil, fmt.Errorf("expected %d transitions, found %d", numTransitions, len(a.chars))
	}
	return a, nil
}
