package main

import (
	"log"
	"os"

	"github.com/andybalholm/lz77"
	"github.com/andybalholm/lz77/artifact"
	"github.com/andybalholm/lz77/lzio"
	"github.com/spf13/cobra"
)

var maxSize int

var decompressCmd = &cobra.Command{
	Use:   "decompress [artifact] [output]",
	Short: "Restore a file from a token artifact",
	Long:  "Restore a file from a token artifact. An output of - writes standard output.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sink lzio.ByteSink = lzio.FileSink(args[1])
		if args[1] == "-" {
			sink = lzio.WriterSink{W: os.Stdout}
		}
		res, err := lzio.Decompress(&artifact.FileStore{Path: args[0]}, sink, &lzio.Options{MaxSize: maxSize})
		if err != nil {
			return err
		}
		log.Printf("decompressed %s into %s: %d tokens, %d bytes", args[0], args[1], res.Tokens, res.Bytes)
		return nil
	},
}

func init() {
	decompressCmd.Flags().IntVar(&maxSize, "max-size", lz77.MaxDecodeSize, "Refuse artifacts that decode to more than this many bytes")
}
