// Package artifact stores lz77 token sequences as bytes.
//
// An artifact is a small header followed by the token layout (see Format),
// optionally compressed by a Wrapper:
//
//	magic    "LZ7W"
//	version  uint8
//	format   uint8
//	wrapper  uint8
//	checksum uint32, little-endian xxHash32 of the token layout
//	payload  the token layout, compressed by the wrapper
//
// The bare token layout, without the header or a wrapper, is written and read
// by AppendTokens and ParseTokens. Marshal, Unmarshal and the Stores always
// use the full artifact, so files they write start with the header.
//
// Stores save and load artifacts in memory or in files.
package artifact

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/andybalholm/lz77"
	"github.com/pierrec/xxHash/xxHash32"
)

// MaxLayoutSize is the largest token layout Unmarshal will unwrap.
const MaxLayoutSize = 1 << 30

const (
	magic      = "LZ7W"
	version    = 1
	headerSize = len(magic) + 3 + 4
)

// Options controls how Marshal writes an artifact.
type Options struct {
	// Format is the token layout. The default is FormatFlagged.
	Format Format

	// Wrapper compresses the token layout. The default is WrapNone.
	Wrapper Wrapper

	// Level is the wrapper's compression level; 0 means its default.
	Level int
}

// DefaultOptions returns options for the default artifact: flagged layout,
// no wrapper.
func DefaultOptions() *Options {
	return &Options{
		Format:  FormatFlagged,
		Wrapper: WrapNone,
	}
}

// A Header describes an artifact.
type Header struct {
	Version  uint8
	Format   Format
	Wrapper  Wrapper
	Checksum uint32
}

// Checksum returns the checksum stored for a token layout.
func Checksum(layout []byte) uint32 {
	h := xxHash32.New(0)
	h.Write(layout)
	return h.Sum32()
}

// Marshal encodes tokens as an artifact. A nil opts uses DefaultOptions.
func Marshal(tokens []lz77.Token, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	layout, err := AppendTokens(nil, tokens, opts.Format)
	if err != nil {
		return nil, err
	}
	payload, err := wrap(opts.Wrapper, opts.Level, layout)
	if err != nil {
		return nil, fmt.Errorf("lz77/artifact: %v wrapper: %w", opts.Wrapper, err)
	}

	dst := make([]byte, 0, headerSize+len(payload))
	dst = append(dst, magic...)
	dst = append(dst, version, byte(opts.Format), byte(opts.Wrapper))
	dst = binary.LittleEndian.AppendUint32(dst, Checksum(layout))
	return append(dst, payload...), nil
}

// ReadHeader decodes the header at the start of an artifact.
func ReadHeader(b []byte) (Header, error) {
	if len(b) < headerSize || !bytes.Equal(b[:len(magic)], []byte(magic)) {
		return Header{}, fmt.Errorf("%w: not an LZ77 artifact", ErrCorrupt)
	}
	h := Header{
		Version:  b[4],
		Format:   Format(b[5]),
		Wrapper:  Wrapper(b[6]),
		Checksum: binary.LittleEndian.Uint32(b[7:]),
	}
	if h.Version != version {
		return h, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	}
	if _, err := h.Format.recordSize(); err != nil {
		return h, fmt.Errorf("%w: unknown token format %d", ErrCorrupt, uint8(h.Format))
	}
	if h.Wrapper >= numWrappers {
		return h, fmt.Errorf("%w: unknown wrapper %d", ErrCorrupt, uint8(h.Wrapper))
	}
	return h, nil
}

// Unmarshal decodes an artifact written by Marshal, checking its checksum.
func Unmarshal(b []byte) ([]lz77.Token, error) {
	h, err := ReadHeader(b)
	if err != nil {
		return nil, err
	}
	layout, err := unwrap(h.Wrapper, b[headerSize:], MaxLayoutSize)
	if errors.Is(err, ErrTooLarge) {
		return nil, fmt.Errorf("%v wrapper: %w", h.Wrapper, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v wrapper: %v", ErrCorrupt, h.Wrapper, err)
	}
	if sum := Checksum(layout); sum != h.Checksum {
		return nil, fmt.Errorf("%w: checksum %#08x, want %#08x", ErrCorrupt, sum, h.Checksum)
	}
	return ParseTokens(layout, h.Format)
}
