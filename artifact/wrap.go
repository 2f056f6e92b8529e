package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// A Wrapper is a general-purpose compressor applied to the token layout
// before it is stored. The layout's fixed-width records compress well,
// since most offset and length bytes are zero.
type Wrapper uint8

const (
	WrapNone Wrapper = iota
	WrapGzip
	WrapZstd
	WrapSnappy
	WrapS2
	WrapLZ4
	WrapBrotli

	numWrappers
)

var ErrUnknownWrapper = errors.New("lz77/artifact: unknown wrapper")

var wrapperNames = [numWrappers]string{
	WrapNone:   "none",
	WrapGzip:   "gzip",
	WrapZstd:   "zstd",
	WrapSnappy: "snappy",
	WrapS2:     "s2",
	WrapLZ4:    "lz4",
	WrapBrotli: "brotli",
}

func (w Wrapper) String() string {
	if w < numWrappers {
		return wrapperNames[w]
	}
	return fmt.Sprintf("Wrapper(%d)", uint8(w))
}

// ParseWrapper returns the Wrapper with the given name.
func ParseWrapper(name string) (Wrapper, error) {
	if name == "" {
		return WrapNone, nil
	}
	for w, n := range wrapperNames {
		if n == name {
			return Wrapper(w), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWrapper, name)
}

// wrap compresses src with w. A level of 0 selects the compressor's
// default; levels outside a compressor's range are clamped.
func wrap(w Wrapper, level int, src []byte) ([]byte, error) {
	switch w {
	case WrapNone:
		return src, nil

	case WrapGzip:
		if level == 0 {
			level = gzip.DefaultCompression
		} else {
			level = clamp(level, gzip.BestSpeed, gzip.BestCompression)
		}
		var b bytes.Buffer
		zw, err := gzip.NewWriterLevel(&b, level)
		if err != nil {
			return nil, err
		}
		return closeWriter(&b, zw, src)

	case WrapZstd:
		var opts []zstd.EOption
		if level != 0 {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		enc, err := zstd.NewWriter(nil, opts...)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(src, nil), nil

	case WrapSnappy:
		return snappy.Encode(nil, src), nil

	case WrapS2:
		switch {
		case level >= 3:
			return s2.EncodeBest(nil, src), nil
		case level == 2:
			return s2.EncodeBetter(nil, src), nil
		}
		return s2.Encode(nil, src), nil

	case WrapLZ4:
		var b bytes.Buffer
		zw := lz4.NewWriter(&b)
		if level != 0 {
			l := lz4Levels[clamp(level, 1, len(lz4Levels))-1]
			if err := zw.Apply(lz4.CompressionLevelOption(l)); err != nil {
				return nil, err
			}
		}
		return closeWriter(&b, zw, src)

	case WrapBrotli:
		if level == 0 {
			level = brotli.DefaultCompression
		} else {
			level = clamp(level, brotli.BestSpeed, brotli.BestCompression)
		}
		var b bytes.Buffer
		return closeWriter(&b, brotli.NewWriterLevel(&b, level), src)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownWrapper, uint8(w))
}

// unwrap reverses wrap. It fails with ErrTooLarge rather than produce more
// than limit bytes.
func unwrap(w Wrapper, src []byte, limit int64) ([]byte, error) {
	switch w {
	case WrapNone:
		return src, nil

	case WrapGzip:
		zr, err := gzip.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return readLimited(zr, limit)

	case WrapZstd:
		dec, err := zstd.NewReader(bytes.NewReader(src), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return readLimited(dec, limit)

	case WrapSnappy:
		n, err := snappy.DecodedLen(src)
		if err != nil {
			return nil, err
		}
		if int64(n) > limit {
			return nil, tooLarge(limit)
		}
		return snappy.Decode(nil, src)

	case WrapS2:
		n, err := s2.DecodedLen(src)
		if err != nil {
			return nil, err
		}
		if int64(n) > limit {
			return nil, tooLarge(limit)
		}
		return s2.Decode(nil, src)

	case WrapLZ4:
		return readLimited(lz4.NewReader(bytes.NewReader(src)), limit)

	case WrapBrotli:
		return readLimited(brotli.NewReader(bytes.NewReader(src)), limit)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownWrapper, uint8(w))
}

// readLimited reads r to the end, failing if there are more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, tooLarge(limit)
	}
	return b, nil
}

func tooLarge(limit int64) error {
	return fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
}

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

func closeWriter(b *bytes.Buffer, w io.WriteCloser, src []byte) ([]byte, error) {
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
