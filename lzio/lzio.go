// Package lzio connects lz77 compression to its inputs and outputs: a
// ByteSource supplies the buffer to compress, an artifact.Store keeps the
// tokens, and a ByteSink receives the decompressed bytes.
package lzio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrNoSource = errors.New("lzio: no byte source")
	ErrNoSink   = errors.New("lzio: no byte sink")
)

// A ByteSource supplies the whole buffer to be compressed.
type ByteSource interface {
	Read() ([]byte, error)
}

// A ByteSink accepts the whole decompressed buffer.
type ByteSink interface {
	Write(b []byte) error
}

// FileSource reads a file.
type FileSource string

func (f FileSource) Read() ([]byte, error) {
	return os.ReadFile(string(f))
}

// ReaderSource reads everything from an io.Reader.
type ReaderSource struct {
	R io.Reader
}

func (r ReaderSource) Read() ([]byte, error) {
	if r.R == nil {
		return nil, ErrNoSource
	}
	return io.ReadAll(r.R)
}

// BytesSource supplies a buffer already in memory.
type BytesSource []byte

func (b BytesSource) Read() ([]byte, error) {
	return b, nil
}

// FileSink writes a file, replacing any existing contents.
type FileSink string

func (f FileSink) Write(b []byte) error {
	return os.WriteFile(string(f), b, 0o644)
}

// WriterSink writes to an io.Writer.
type WriterSink struct {
	W io.Writer
}

func (w WriterSink) Write(b []byte) error {
	if w.W == nil {
		return ErrNoSink
	}
	_, err := w.W.Write(b)
	return err
}

// BufferSink keeps the bytes it is given.
type BufferSink struct {
	bytes.Buffer
}

func (s *BufferSink) Write(b []byte) error {
	s.Reset()
	_, err := s.Buffer.Write(b)
	return err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("lzio: %s: %w", op, err)
}
