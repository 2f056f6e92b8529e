package lzio

import (
	"fmt"

	"github.com/andybalholm/lz77"
	"github.com/andybalholm/lz77/artifact"
)

// Options configures Compress and Decompress.
type Options struct {
	// Finder selects the match finder: "hashchain" (the default),
	// "window", or "fast". The first two produce the same tokens; "fast"
	// uses lz77.SingleHash, which gives up some compression for speed.
	Finder string

	// WindowSize is how far back to look for matches. The default is
	// lz77.WindowSize.
	WindowSize int

	// MaxSize is the most bytes Decompress will produce. The default is
	// lz77.MaxDecodeSize.
	MaxSize int
}

// DefaultOptions returns the options that produce the canonical encoding.
func DefaultOptions() *Options {
	return &Options{
		Finder:     "hashchain",
		WindowSize: lz77.WindowSize,
		MaxSize:    lz77.MaxDecodeSize,
	}
}

// MatchFinder returns the lz77.MatchFinder described by o.
func (o *Options) MatchFinder() (lz77.MatchFinder, error) {
	switch o.Finder {
	case "hashchain", "":
		return &lz77.HashChain{WindowSize: o.WindowSize}, nil
	case "window":
		return &lz77.WindowSearch{WindowSize: o.WindowSize}, nil
	case "fast":
		return &lz77.SingleHash{WindowSize: o.WindowSize}, nil
	}
	return nil, fmt.Errorf("lzio: unknown match finder %q", o.Finder)
}

// Result describes one Compress or Decompress run.
type Result struct {
	// Bytes is the size of the uncompressed buffer.
	Bytes int

	// Tokens is the length of the token sequence.
	Tokens int
}

// Compress reads the whole buffer from src, encodes it, and saves the
// tokens to st. A nil opts uses DefaultOptions.
func Compress(src ByteSource, st artifact.Store, opts *Options) (Result, error) {
	if src == nil {
		return Result{}, ErrNoSource
	}
	if st == nil {
		return Result{}, ErrNoSink
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	mf, err := opts.MatchFinder()
	if err != nil {
		return Result{}, err
	}

	data, err := src.Read()
	if err != nil {
		return Result{}, wrapErr("read source", err)
	}
	tokens := mf.FindMatches(nil, data)
	if err := st.Save(tokens); err != nil {
		return Result{}, wrapErr("save artifact", err)
	}
	return Result{Bytes: len(data), Tokens: len(tokens)}, nil
}

// Decompress loads tokens from st, decodes them, and writes the result to
// sink. Nothing is written if the tokens don't decode, or if they decode to
// more than opts.MaxSize bytes. A nil opts uses DefaultOptions.
func Decompress(st artifact.Store, sink ByteSink, opts *Options) (Result, error) {
	if st == nil {
		return Result{}, ErrNoSource
	}
	if sink == nil {
		return Result{}, ErrNoSink
	}
	limit := lz77.MaxDecodeSize
	if opts != nil && opts.MaxSize > 0 {
		limit = opts.MaxSize
	}

	tokens, err := st.Load()
	if err != nil {
		return Result{}, wrapErr("load artifact", err)
	}
	data, err := lz77.DecodeLimit(tokens, limit)
	if err != nil {
		return Result{}, wrapErr("decode", err)
	}
	if err := sink.Write(data); err != nil {
		return Result{}, wrapErr("write sink", err)
	}
	return Result{Bytes: len(data), Tokens: len(tokens)}, nil
}
