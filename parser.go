package lz77

// An AbsoluteMatch is like a Token's back-reference, but it stores indexes
// into the byte stream instead of lengths.
type AbsoluteMatch struct {
	// Start is the index of the first byte.
	Start int

	// End is the index of the byte after the last byte
	// (so that End - Start = Length).
	End int

	// Match is the index of the previous data that matches
	// (Start - Match = Offset).
	Match int
}

// Length returns the number of matched bytes.
func (m AbsoluteMatch) Length() int {
	return m.End - m.Start
}

// Offset returns the distance back to the match source, or 0 if m is empty.
func (m AbsoluteMatch) Offset() int {
	if m.End == m.Start {
		return 0
	}
	return m.Start - m.Match
}

// A Searcher is the source of matches for a Parser. It is a lower-level
// interface than MatchFinder, only looking for a match at one position at a
// time. A type that uses a Parser to implement MatchFinder can implement
// Searcher as well, and pass itself to the Parser.
type Searcher interface {
	// Search returns the longest match for the bytes starting at pos.
	// The match has Start == pos, and End == pos if there is none.
	// Match may be less than End, so the match can overlap itself.
	Search(pos int) AbsoluteMatch
}

// A Parser chooses which matches to use to compress the data.
type Parser interface {
	// Parse gets matches for src from s, chooses which ones to use, and
	// appends the resulting tokens to dst. The tokens cover all of src.
	Parse(dst []Token, s Searcher, src []byte) []Token
}

// A GreedyParser implements the greedy matching strategy: It goes from the
// start of the buffer to the end, taking the longest match at each position
// followed by one literal byte.
type GreedyParser struct{}

func (GreedyParser) Parse(dst []Token, s Searcher, src []byte) []Token {
	for pos := 0; pos < len(src); {
		m := s.Search(pos)
		dst = append(dst, tokenAt(src, m))
		pos = m.End + 1
	}
	return dst
}

// tokenAt turns m into a token, taking the literal from the byte after the
// match when there is one.
func tokenAt(src []byte, m AbsoluteMatch) Token {
	t := Token{
		Offset: m.Offset(),
		Length: m.Length(),
	}
	if m.End < len(src) {
		t.Literal = src[m.End]
		t.HasLiteral = true
	}
	return t
}
