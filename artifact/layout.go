package artifact

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/andybalholm/lz77"
)

// A Format selects the binary layout of a token sequence.
//
// Both layouts start with the token count as a little-endian uint64,
// followed by one fixed-size record per token. Offset and length are
// little-endian int32.
type Format uint8

const (
	// FormatFlagged stores each token as offset, length, a flags byte
	// (bit 0 set when the literal is present) and the literal byte.
	FormatFlagged Format = iota

	// FormatSentinel stores each token as offset, length and the literal
	// byte, with 0x00 meaning "no literal". It can't represent a zero
	// literal.
	FormatSentinel
)

const (
	countSize       = 8
	flagLiteral     = 1 << 0
	flaggedRecord   = 10
	sentinelRecord  = 9
	sentinelLiteral = 0x00
)

var (
	// ErrCorrupt wraps lz77.ErrCorrupt, so either can be used with
	// errors.Is.
	ErrCorrupt = fmt.Errorf("lz77/artifact: corrupt artifact (%w)", lz77.ErrCorrupt)

	// ErrTooLarge wraps lz77.ErrTooLarge.
	ErrTooLarge = fmt.Errorf("lz77/artifact: artifact too large (%w)", lz77.ErrTooLarge)

	ErrUnknownFormat   = errors.New("lz77/artifact: unknown token format")
	ErrSentinelLiteral = errors.New("lz77/artifact: zero literal can't be stored in sentinel format")
	ErrOutOfRange      = errors.New("lz77/artifact: token field doesn't fit in 32 bits")
)

func (f Format) String() string {
	switch f {
	case FormatFlagged:
		return "flagged"
	case FormatSentinel:
		return "sentinel"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat returns the Format with the given name.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "flagged", "":
		return FormatFlagged, nil
	case "sentinel":
		return FormatSentinel, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

func (f Format) recordSize() (int, error) {
	switch f {
	case FormatFlagged:
		return flaggedRecord, nil
	case FormatSentinel:
		return sentinelRecord, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownFormat, uint8(f))
}

// AppendTokens appends the layout of tokens in format f to dst. On error,
// dst is returned without any of the layout.
func AppendTokens(dst []byte, tokens []lz77.Token, f Format) ([]byte, error) {
	n := len(dst)
	size, err := f.recordSize()
	if err != nil {
		return dst, err
	}
	if len(tokens) > 0 && cap(dst)-len(dst) < countSize+size*len(tokens) {
		dst = append(make([]byte, 0, len(dst)+countSize+size*len(tokens)), dst...)
	}

	dst = binary.LittleEndian.AppendUint64(dst, uint64(len(tokens)))
	for i, t := range tokens {
		if t.Offset < 0 || t.Offset > math.MaxInt32 || t.Length < 0 || t.Length > math.MaxInt32 {
			return dst[:n], fmt.Errorf("%w: token %d: offset %d, length %d", ErrOutOfRange, i, t.Offset, t.Length)
		}
		dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(t.Offset)))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(t.Length)))

		switch f {
		case FormatFlagged:
			var flags byte
			if t.HasLiteral {
				flags |= flagLiteral
			}
			dst = append(dst, flags, literal(t))
		case FormatSentinel:
			if t.HasLiteral && t.Literal == sentinelLiteral {
				return dst[:n], fmt.Errorf("%w: token %d", ErrSentinelLiteral, i)
			}
			dst = append(dst, literal(t))
		}
	}
	return dst, nil
}

// ParseTokens decodes a token sequence stored in format f. The count must
// agree exactly with the number of records in src.
func ParseTokens(src []byte, f Format) ([]lz77.Token, error) {
	size, err := f.recordSize()
	if err != nil {
		return nil, err
	}
	if len(src) < countSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for the token count", ErrCorrupt, len(src))
	}
	count := binary.LittleEndian.Uint64(src)
	src = src[countSize:]
	if len(src)%size != 0 || count != uint64(len(src)/size) {
		return nil, fmt.Errorf("%w: token count %d doesn't match %d bytes of records", ErrCorrupt, count, len(src))
	}

	tokens := make([]lz77.Token, count)
	for i := range tokens {
		rec := src[i*size : (i+1)*size]
		offset := int32(binary.LittleEndian.Uint32(rec))
		length := int32(binary.LittleEndian.Uint32(rec[4:]))
		if offset < 0 || length < 0 {
			return nil, fmt.Errorf("%w: token %d: offset %d, length %d", ErrCorrupt, i, offset, length)
		}
		t := lz77.Token{Offset: int(offset), Length: int(length)}

		switch f {
		case FormatFlagged:
			flags := rec[8]
			if flags&^flagLiteral != 0 {
				return nil, fmt.Errorf("%w: token %d: unknown flags %#x", ErrCorrupt, i, flags)
			}
			t.HasLiteral = flags&flagLiteral != 0
			if t.HasLiteral {
				t.Literal = rec[9]
			} else if rec[9] != 0 {
				return nil, fmt.Errorf("%w: token %d: literal byte set without flag", ErrCorrupt, i)
			}
		case FormatSentinel:
			if rec[8] != sentinelLiteral {
				t.Literal = rec[8]
				t.HasLiteral = true
			}
		}
		tokens[i] = t
	}
	return tokens, nil
}

// literal returns the stored literal byte, which is 0 when there is none.
func literal(t lz77.Token) byte {
	if !t.HasLiteral {
		return 0
	}
	return t.Literal
}
