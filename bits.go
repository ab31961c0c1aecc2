package dictomaton

import (
	"errors"
	"io"
)

// bitWriter packs values of arbitrary bit width, most significant bit first.
// The first write error is sticky.
type bitWriter struct {
	io.Writer
	cache uint8
	used  int
	err   error
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{Writer: w}
}

func (w *bitWriter) WriteBits(data uint64, n int) error {
	var mask uint8
	for n > 0 && w.err == nil {
		written := n
		if written+w.used > 8 {
			written = 8 - w.used
		}

		mask = uint8(uint16(1<<(written)) - 1)
		w.used += written
		w.cache = (w.cache << written) | byte(data>>(n-written))&mask

		if w.used == 8 {
			_, w.err = w.Write([]byte{w.cache})
			w.used = 0
		}

		n -= written
	}
	return w.err
}

// Flush pads the last partial byte with zero bits and writes it.
func (w *bitWriter) Flush() error {
	if w.used > 0 && w.err == nil {
		_, w.err = w.Write([]byte{w.cache << (8 - w.used)})
		w.used = 0
	}
	return w.err
}

var maskTop = []byte{
	0xff,
	0x7f,
	0x3f,
	0x1f,
	0x0f,
	0x07,
	0x03,
	0x01,
	0x00,
}

// bitSeeker reads bits from an io.ReaderAt, tracking its position in bits.
// A failed read yields zero bits and the first error is kept.
type bitSeeker struct {
	io.ReaderAt
	p      int64
	buffer []byte
	err    error
}

func newBitSeeker(r io.ReaderAt) *bitSeeker {
	return &bitSeeker{ReaderAt: r, buffer: make([]byte, 1)}
}

func (r *bitSeeker) nextByte() byte {
	if r.err != nil {
		return 0
	}
	if _, err := r.ReadAt(r.buffer, r.p>>3); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return 0
	}
	return r.buffer[0]
}

func (r *bitSeeker) ReadBits(n int64) uint64 {
	if n == 0 {
		return 0
	}
	if r.p&7+n <= 8 {
		ret := uint64((r.nextByte() & maskTop[r.p&7]) >> (8 - r.p&7 - n))
		r.p += n
		return ret
	}

	// bits lie incompletely in the current byte
	result := uint64(r.nextByte() & maskTop[r.p&7])

	l := 8 - r.p&7
	r.p += l
	n -= l

	for n >= 8 {
		result = (result << 8) | uint64(r.nextByte())
		r.p += 8
		n -= 8
	}

	if n > 0 {
		result = (result << n) | uint64(r.nextByte()>>(8-n))
		r.p += n
	}

	return result
}

func (r *bitSeeker) Seek(offset int64) {
	r.p = offset
}

func (r *bitSeeker) Tell() int64 {
	return r.p
}

/* We define 7code to be an unsigned that can be read the following way:

result = 0
for {
	data = next 8 bits
	result = result << 7 | data & 0x7f
	if data & 0x80 == 0 break
}
*/

const max7codeLen = 10

func writeUnsigned(w *bitWriter, n uint64) error {
	var groups [max7codeLen]byte
	i := len(groups) - 1
	groups[i] = byte(n & 0x7f)
	for n >>= 7; n > 0; n >>= 7 {
		i--
		groups[i] = byte(n&0x7f) | 0x80
	}
	for _, g := range groups[i:] {
		if err := w.WriteBits(uint64(g), 8); err != nil {
			return err
		}
	}
	return nil
}

var errBad7code = errors.New("malformed variable length integer")

func readUnsigned(r *bitSeeker) (uint64, error) {
	var result uint64
	for i := 0; i < max7codeLen; i++ {
		d := r.ReadBits(8)
		if r.err != nil {
			return 0, r.err
		}
		result = (result << 7) | d&0x7f
		if d&0x80 == 0 {
			return result, nil
		}
	}
	return 0, errBad7code
}
