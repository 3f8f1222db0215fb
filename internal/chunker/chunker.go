// Package chunker splits byte buffers into content-defined chunks using a
// gear rolling hash. Chunk boundaries depend only on nearby byte content,
// so an insert or delete shifts boundaries in the edited region while
// chunks elsewhere in the buffer stay identical.
package chunker

import (
	"fmt"
	"iter"
	"math/bits"
)

// Default chunk size parameters.
const (
	DefaultMinSize = 4096
	DefaultAvgSize = 16384
	DefaultMaxSize = 65535
)

// MinAvgSize is the smallest average the mask derivation supports: the
// permissive mask needs at least two bits below the average's bit width.
const MinAvgSize = 16

// Span is one chunk's location within the source buffer.
type Span struct {
	Offset int
	Length int
}

// Options controls chunk sizing. The zero value selects the defaults.
type Options struct {
	MinSize int // no cut point before this many bytes
	AvgSize int // target chunk size; sets the mask strengths
	MaxSize int // a cut is forced at this many bytes
}

func (o Options) withDefaults() Options {
	if o.MinSize == 0 && o.AvgSize == 0 && o.MaxSize == 0 {
		return Options{MinSize: DefaultMinSize, AvgSize: DefaultAvgSize, MaxSize: DefaultMaxSize}
	}
	return o
}

// Validate reports whether the options describe a usable size ladder.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.MinSize <= 0 || o.AvgSize < o.MinSize || o.MaxSize < o.AvgSize {
		return fmt.Errorf("chunk sizes must satisfy 0 < min <= avg <= max, got %d/%d/%d",
			o.MinSize, o.AvgSize, o.MaxSize)
	}
	if o.AvgSize < MinAvgSize {
		return fmt.Errorf("average chunk size must be at least %d, got %d",
			MinAvgSize, o.AvgSize)
	}
	return nil
}

// gear is the byte-to-hash table for the rolling hash. Generated once from
// a fixed xorshift seed so boundaries are stable across runs and builds.
var gear [256]uint64

func init() {
	x := uint64(0x3c0ffee1badca75e)
	for i := range gear {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		gear[i] = x
	}
}

// masks derives the two cut-point masks from the average size. Below the
// average a stricter mask (more bits) suppresses early cuts; past it a more
// permissive mask pulls oversized chunks back toward the average.
func masks(avg int) (maskS, maskL uint64) {
	b := bits.Len(uint(avg)) - 1
	if b < 2 {
		b = 2 // averages below MinAvgSize would shift negatively
	}
	return 1<<(b+2) - 1, 1<<(b-2) - 1
}

// Spans yields the content-defined chunks of data in ascending offset
// order. The spans cover data exactly: no gaps, no overlaps. An empty
// buffer yields nothing; a buffer shorter than MinSize yields one span.
func Spans(data []byte, opts Options) iter.Seq[Span] {
	o := opts.withDefaults()
	maskS, maskL := masks(o.AvgSize)

	return func(yield func(Span) bool) {
		offset := 0
		for offset < len(data) {
			length := cutPoint(data[offset:], o, maskS, maskL)
			if !yield(Span{Offset: offset, Length: length}) {
				return
			}
			offset += length
		}
	}
}

// Split is Spans collected into a slice.
func Split(data []byte, opts Options) []Span {
	var spans []Span
	for s := range Spans(data, opts) {
		spans = append(spans, s)
	}
	return spans
}

// cutPoint returns the length of the next chunk starting at data[0].
func cutPoint(data []byte, o Options, maskS, maskL uint64) int {
	n := len(data)
	if n <= o.MinSize {
		return n
	}

	max := o.MaxSize
	if n < max {
		max = n
	}
	normal := o.AvgSize
	if normal > max {
		normal = max
	}

	var h uint64
	i := o.MinSize
	for ; i < normal; i++ {
		h = h<<1 + gear[data[i]]
		if h&maskS == 0 {
			return i + 1
		}
	}
	for ; i < max; i++ {
		h = h<<1 + gear[data[i]]
		if h&maskL == 0 {
			return i + 1
		}
	}
	return i
}
