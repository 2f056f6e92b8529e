package lz77

import "encoding/binary"

// SingleHash is an implementation of the MatchFinder interface
// that uses a simple 4-byte hash to find matches. It only checks the most
// recent position with the same hash, so it is much faster than HashChain,
// but its tokens are not the canonical ones Encode produces. Matches
// shorter than 4 bytes are never used.
type SingleHash struct {
	// WindowSize is how far back (in bytes) to look for a match.
	// The default is 1024.
	WindowSize int

	// Parser chooses the tokens. The default is GreedyParser.
	Parser Parser

	// table holds position+1 of the last position with each hash.
	table [maxTableSize]int32

	history []byte
	// next is the first position not yet added to table.
	next int
}

func (q *SingleHash) Reset() {
	q.table = [maxTableSize]int32{}
	q.history = nil
	q.next = 0
}

// FindMatches encodes src as tokens, appends them to dst, and returns dst.
func (q *SingleHash) FindMatches(dst []Token, src []byte) []Token {
	if q.WindowSize == 0 {
		q.WindowSize = WindowSize
	}
	p := q.Parser
	if p == nil {
		p = GreedyParser{}
	}

	q.Reset()
	q.history = src
	dst = p.Parse(dst, q, src)
	q.history = nil
	return dst
}

func (q *SingleHash) Search(pos int) AbsoluteMatch {
	none := AbsoluteMatch{Start: pos, End: pos, Match: pos}
	src := q.history
	if pos+hashLen > len(src) {
		return none
	}

	// Catch the table up with the bytes passed over since the last search.
	for ; q.next < pos; q.next++ {
		h := hash4(binary.LittleEndian.Uint32(src[q.next:]))
		q.table[h&tableMask] = int32(q.next + 1)
	}

	h := hash4(binary.LittleEndian.Uint32(src[pos:]))
	candidate := int(q.table[h&tableMask]) - 1
	q.table[h&tableMask] = int32(pos + 1)
	q.next = pos + 1

	if candidate < 0 || pos-candidate > q.WindowSize {
		return none
	}
	if binary.LittleEndian.Uint32(src[pos:]) != binary.LittleEndian.Uint32(src[candidate:]) {
		return none
	}

	// We have a 4-byte match now.
	return AbsoluteMatch{
		Start: pos,
		End:   extendMatch(src, candidate+hashLen, pos+hashLen),
		Match: candidate,
	}
}
