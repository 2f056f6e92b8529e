package lz77

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

// FindLongestMatch searches the WindowSize bytes before cursor for the
// longest run matching the bytes at cursor, and returns its offset and
// length. The match may run past cursor, overlapping the bytes it describes.
// When several candidates are equally long, the oldest one wins.
// It returns (0, 0) if no byte matches.
func FindLongestMatch(src []byte, cursor int) (offset, length int) {
	m := searchWindow(src, cursor, WindowSize)
	return m.Offset(), m.Length()
}

// searchWindow is the exhaustive window scan. Candidates are tried from the
// oldest to the newest, and a later one only replaces the best match if it
// is strictly longer.
func searchWindow(src []byte, pos, window int) AbsoluteMatch {
	best := AbsoluteMatch{Start: pos, End: pos, Match: pos}
	if pos >= len(src) {
		return best
	}

	start := pos - window
	if start < 0 {
		start = 0
	}
	for candidate := start; candidate < pos; candidate++ {
		if src[candidate] != src[pos] {
			continue
		}
		end := extendMatch(src, candidate+1, pos+1)
		if end-pos > best.End-best.Start {
			best.End = end
			best.Match = candidate
		}
	}
	return best
}

// WindowSearch is an implementation of the MatchFinder interface that
// checks every position in the window. It is slow, but it is the reference
// that the other match finders must agree with.
type WindowSearch struct {
	// WindowSize is how far back (in bytes) to look for a match.
	// The default is 1024.
	WindowSize int

	// Parser chooses the tokens. The default is GreedyParser.
	Parser Parser

	src []byte
}

func (w *WindowSearch) Reset() {
	w.src = nil
}

// FindMatches encodes src as tokens, appends them to dst, and returns dst.
func (w *WindowSearch) FindMatches(dst []Token, src []byte) []Token {
	if w.WindowSize == 0 {
		w.WindowSize = WindowSize
	}
	p := w.Parser
	if p == nil {
		p = GreedyParser{}
	}

	w.src = src
	dst = p.Parse(dst, w, src)
	w.src = nil
	return dst
}

func (w *WindowSearch) Search(pos int) AbsoluteMatch {
	return searchWindow(w.src, pos, w.WindowSize)
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
//
// Because i < j, the range starting at i may run into the range starting at
// j; the comparison is still against src as it is, which is what the decoder
// will have produced by the time it copies those bytes.
func extendMatch(src []byte, i, j int) int {
	switch runtime.GOARCH {
	case "amd64":
		// As long as we are 8 or more bytes before the end of src, we can load and
		// compare 8 bytes at a time. If those 8 bytes are equal, repeat.
		for j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(src[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				// If those 8 bytes were not equal, XOR the two 8 byte values, and return
				// the index of the first byte that differs. The BSF instruction finds the
				// least significant 1 bit, the amd64 architecture is little-endian, and
				// the shift by 3 converts a bit index to a byte index.
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	case "386":
		// On a 32-bit CPU, we do it 4 bytes at a time.
		for j+4 < len(src) {
			iBytes := binary.LittleEndian.Uint32(src[i:])
			jBytes := binary.LittleEndian.Uint32(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros32(iBytes^jBytes)>>3
			}
			i, j = i+4, j+4
		}
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
