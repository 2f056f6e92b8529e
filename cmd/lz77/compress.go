package main

import (
	"log"
	"os"

	"github.com/andybalholm/lz77/artifact"
	"github.com/andybalholm/lz77/lzio"
	"github.com/spf13/cobra"
)

var (
	format     string
	wrapper    string
	level      int
	finder     string
	windowSize int
)

var compressCmd = &cobra.Command{
	Use:   "compress [input] [output]",
	Short: "Compress a file into a token artifact",
	Long:  "Compress a file into a token artifact. An input of - reads standard input.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := artifact.ParseFormat(format)
		if err != nil {
			return err
		}
		w, err := artifact.ParseWrapper(wrapper)
		if err != nil {
			return err
		}

		var src lzio.ByteSource = lzio.FileSource(args[0])
		if args[0] == "-" {
			src = lzio.ReaderSource{R: os.Stdin}
		}
		st := &artifact.FileStore{
			Path:    args[1],
			Options: &artifact.Options{Format: f, Wrapper: w, Level: level},
		}
		res, err := lzio.Compress(src, st, &lzio.Options{Finder: finder, WindowSize: windowSize})
		if err != nil {
			return err
		}

		log.Printf("compressed %s into %s: %d bytes, %d tokens (%v format, %v wrapper)",
			args[0], args[1], res.Bytes, res.Tokens, f, w)
		if fi, err := os.Stat(args[1]); err == nil && res.Bytes > 0 {
			log.Printf("artifact is %d bytes, %.1f%% of the input", fi.Size(), 100*float64(fi.Size())/float64(res.Bytes))
		}
		return nil
	},
}

func init() {
	compressCmd.Flags().StringVarP(&format, "format", "f", "flagged", "Token layout: flagged|sentinel")
	compressCmd.Flags().StringVarP(&wrapper, "wrap", "w", "none", "Outer compression: none|gzip|zstd|snappy|s2|lz4|brotli")
	compressCmd.Flags().IntVarP(&level, "level", "L", 0, "Outer compression level (0 = default)")
	compressCmd.Flags().StringVar(&finder, "finder", "hashchain", "Match finder: hashchain|window|fast")
	compressCmd.Flags().IntVar(&windowSize, "window", 0, "Window size in bytes (0 = 1024)")
}
