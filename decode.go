package lz77

import (
	"errors"
	"fmt"
	"math"
)

// ErrCorrupt is returned when a token sequence cannot be decoded, such as a
// back-reference that reaches before the start of the output.
var ErrCorrupt = errors.New("lz77: corrupt token sequence")

// ErrTooLarge is returned when a token sequence would decode to more bytes
// than the caller allows.
var ErrTooLarge = errors.New("lz77: decoded size exceeds limit")

// MaxDecodeSize is the limit Decode places on the decoded size.
const MaxDecodeSize = 1 << 30

// Decode replays tokens and returns the reconstructed bytes.
// It is DecodeLimit with a limit of MaxDecodeSize.
func Decode(tokens []Token) ([]byte, error) {
	return DecodeLimit(tokens, MaxDecodeSize)
}

// DecodeLimit replays tokens and returns the reconstructed bytes, which may
// be at most limit bytes long.
// The whole sequence is checked before anything is copied; if any token is
// invalid, it returns an error wrapping ErrCorrupt and no output. If the
// output would be longer than limit, the error wraps ErrTooLarge.
func DecodeLimit(tokens []Token, limit int) ([]byte, error) {
	size := 0
	for i, t := range tokens {
		if err := checkToken(t); err != nil {
			return nil, fmt.Errorf("%w: token %d: %v", ErrCorrupt, i, err)
		}
		if t.Offset > size {
			printf("lz77: token %d: offset %d with %d bytes of output", i, t.Offset, size)
			return nil, fmt.Errorf("%w: token %d: offset %d is past the start of the output (%d bytes)", ErrCorrupt, i, t.Offset, size)
		}
		if size > math.MaxInt-t.Size() {
			return nil, fmt.Errorf("%w: token %d: output too large", ErrCorrupt, i)
		}
		if size+t.Size() > limit {
			return nil, fmt.Errorf("%w: token %d: more than %d bytes", ErrTooLarge, i, limit)
		}
		size += t.Size()
	}

	out := make([]byte, 0, size)
	for _, t := range tokens {
		// The copy has to go one byte at a time: when Offset < Length, the
		// bytes being read include ones written earlier in the same copy.
		start := len(out) - t.Offset
		for j := 0; j < t.Length; j++ {
			out = append(out, out[start+j])
		}

		if t.HasLiteral {
			out = append(out, t.Literal)
		}
	}
	return out, nil
}

func checkToken(t Token) error {
	switch {
	case t.Offset < 0:
		return fmt.Errorf("negative offset %d", t.Offset)
	case t.Length < 0:
		return fmt.Errorf("negative length %d", t.Length)
	case t.Length > 0 && t.Offset == 0:
		return fmt.Errorf("copy of %d bytes with no offset", t.Length)
	}
	return nil
}
