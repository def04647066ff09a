package logparser

import (
	"bytes"
	"fmt"
	"io"
	"iter"
)

// Index is a single forward pass over one day's log: the byte offset of
// every line and the line numbers of every transaction marker, in file
// order. Any line can then be read in O(1) by number.
type Index struct {
	data    []byte
	offsets []int
	markers []int
}

// Build reads r to the end and indexes it. The only failure is a read error,
// which is fatal for the whole day.
func Build(r io.Reader) (*Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return NewIndex(data), nil
}

// NewIndex indexes an in-memory log.
func NewIndex(data []byte) *Index {
	ix := &Index{data: data}
	for off := 0; off < len(data); {
		next := len(data)
		if nl := bytes.IndexByte(data[off:], '\n'); nl >= 0 {
			next = off + nl + 1
		}
		ix.offsets = append(ix.offsets, off)
		if markerPattern.Match(trimEOL(data[off:next])) {
			ix.markers = append(ix.markers, len(ix.offsets)-1)
		}
		off = next
	}
	return ix
}

// Len returns the number of lines.
func (ix *Index) Len() int { return len(ix.offsets) }

// Offset returns the byte offset of line n.
func (ix *Index) Offset(n int) int { return ix.offsets[n] }

// Markers returns the line numbers of transaction markers in file order.
func (ix *Index) Markers() []int { return ix.markers }

// Line returns line n without its line terminator.
func (ix *Index) Line(n int) (string, bool) {
	if n < 0 || n >= len(ix.offsets) {
		return "", false
	}
	end := len(ix.data)
	if n+1 < len(ix.offsets) {
		end = ix.offsets[n+1]
	}
	return string(trimEOL(ix.data[ix.offsets[n]:end])), true
}

// Lines yields line numbers and contents for [from, to), clamped to the log.
// Breaking out of the loop stops the scan; ranging again restarts it.
func (ix *Index) Lines(from, to int) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		if from < 0 {
			from = 0
		}
		if to > ix.Len() {
			to = ix.Len()
		}
		for n := from; n < to; n++ {
			line, _ := ix.Line(n)
			if !yield(n, line) {
				return
			}
		}
	}
}

// window returns the exclusive end line of the record that starts at the
// i-th marker: the next marker, or the end of the log.
func (ix *Index) window(i int) int {
	if i+1 < len(ix.markers) {
		return ix.markers[i+1]
	}
	return ix.Len()
}

func trimEOL(b []byte) []byte {
	return bytes.TrimRight(b, "\r\n")
}
