package lz77

import "encoding/binary"

// HashChain is an implementation of the MatchFinder interface that indexes
// the window with hash chains instead of scanning every position.
//
// It produces exactly the same tokens as WindowSearch with the same
// WindowSize and Parser: every candidate of the longest length is on the
// chains, and the chains are walked from the newest position to the oldest,
// keeping the older candidate on a tie.
type HashChain struct {
	// WindowSize is how far back (in bytes) to look for a match.
	// The default is 1024.
	WindowSize int

	// Parser chooses the tokens. The default is GreedyParser.
	Parser Parser

	// table holds the most recent position+1 for each 4-byte hash,
	// and byteTable the same for each byte value. 0 means none.
	table     [maxTableSize]int32
	byteTable [256]int32

	// chain[i] and byteChain[i] are the previous position+1 with the same
	// hash (or byte) as position i.
	chain     []int32
	byteChain []int32

	history []byte
}

const (
	maxTableSize = 1 << 14
	shift        = 32 - 14
	// tableMask is redundant, but helps the compiler eliminate bounds
	// checks.
	tableMask = maxTableSize - 1

	hashLen = 4
)

func (q *HashChain) Reset() {
	q.table = [maxTableSize]int32{}
	q.byteTable = [256]int32{}
	q.chain = q.chain[:0]
	q.byteChain = q.byteChain[:0]
	q.history = nil
}

// FindMatches encodes src as tokens, appends them to dst, and returns dst.
func (q *HashChain) FindMatches(dst []Token, src []byte) []Token {
	if q.WindowSize == 0 {
		q.WindowSize = WindowSize
	}
	p := q.Parser
	if p == nil {
		p = GreedyParser{}
	}

	q.Reset()
	q.history = src

	chain := q.chain
	byteChain := q.byteChain
	// Pre-calculate hashes and chains.
	for i := 0; i < len(src); i++ {
		b := src[i]
		byteChain = append(byteChain, q.byteTable[b])
		q.byteTable[b] = int32(i + 1)

		if i+hashLen > len(src) {
			chain = append(chain, 0)
			continue
		}
		h := hash4(binary.LittleEndian.Uint32(src[i:]))
		chain = append(chain, q.table[h&tableMask])
		q.table[h&tableMask] = int32(i + 1)
	}
	q.chain = chain
	q.byteChain = byteChain

	dst = p.Parse(dst, q, src)
	q.history = nil
	return dst
}

const hashMul32 = 0x1e35a7bd

func hash4(u uint32) uint32 {
	return (u * hashMul32) >> shift
}

func (q *HashChain) Search(pos int) AbsoluteMatch {
	best := AbsoluteMatch{Start: pos, End: pos, Match: pos}
	src := q.history
	if pos >= len(src) {
		return best
	}

	min := pos - q.WindowSize
	if min < 0 {
		min = 0
	}
	var length int

	// Any match of hashLen or more bytes starts at a position with the same
	// hash as pos.
	if pos+hashLen <= len(src) {
		searchSeq := binary.LittleEndian.Uint32(src[pos:])
		for next := q.chain[pos]; next != 0; next = q.chain[next-1] {
			candidate := int(next - 1)
			if candidate < min {
				break
			}
			if binary.LittleEndian.Uint32(src[candidate:]) != searchSeq {
				continue
			}
			end := extendMatch(src, candidate+hashLen, pos+hashLen)
			if end-pos >= length {
				best.End = end
				best.Match = candidate
				length = end - pos
			}
		}
		if length >= hashLen {
			return best
		}
	}

	// Nothing that long, so check every earlier occurrence of the byte at pos.
	for next := q.byteChain[pos]; next != 0; next = q.byteChain[next-1] {
		candidate := int(next - 1)
		if candidate < min {
			break
		}
		end := extendMatch(src, candidate+1, pos+1)
		if end-pos >= length {
			best.End = end
			best.Match = candidate
			length = end - pos
		}
	}
	return best
}
