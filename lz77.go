// The lz77 package implements a windowed LZ77 compressor that turns a byte
// buffer into a sequence of tokens, and the decoder that replays them.
//
// Compression is split the same way most LZ77 compressors are:
//   - A MatchFinder (backed by a Searcher) looks for the longest earlier
//     occurrence of the upcoming bytes within a bounded window.
//   - A Parser walks the buffer, asks the Searcher for matches, and decides
//     which tokens to emit.
//
// Each Token is a back-reference (Offset, Length) followed by an optional
// literal byte. A back-reference may overlap the bytes it produces, which is
// how runs of a repeated byte or short pattern are encoded.
//
// The binary layout of a token sequence lives in the artifact package.
package lz77

// WindowSize is the default number of trailing bytes eligible as a match
// source.
const WindowSize = 1024

// A Token is the basic unit of the compressed representation.
type Token struct {
	// Offset is how far back from the current write position the copy
	// starts. It is 0 when there is no back-reference.
	Offset int

	// Length is the number of bytes to copy. It is 0 for a literal-only token.
	Length int

	// Literal is the byte emitted after the copy. It is only meaningful
	// when HasLiteral is set.
	Literal byte

	// HasLiteral is false only when the copy reaches exactly the end of
	// the source.
	HasLiteral bool
}

// Size returns the number of bytes t expands to.
func (t Token) Size() int {
	if t.HasLiteral {
		return t.Length + 1
	}
	return t.Length
}

// A MatchFinder performs the LZ77 stage of compression, turning src into
// tokens.
type MatchFinder interface {
	// FindMatches encodes src as tokens, appends them to dst, and returns dst.
	FindMatches(dst []Token, src []byte) []Token

	// Reset clears any internal state, preparing the MatchFinder to be used
	// with a new buffer.
	Reset()
}

// Encode returns the canonical token sequence for src: the longest match in
// a 1024-byte window at each position, with ties going to the oldest
// candidate. An empty src yields an empty sequence.
func Encode(src []byte) []Token {
	var h HashChain
	return h.FindMatches(nil, src)
}
