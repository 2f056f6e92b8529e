// Command lz77 compresses files into LZ77 token artifacts and back.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lz77",
	Short: "LZ77 token compressor",
	Long:  "lz77 compresses a file into a sequence of back-reference tokens over a 1024-byte window, and restores it.",

	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(0)
		log.SetPrefix("lz77: ")
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log what each command does")
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(decompressCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lz77: %v\n", err)
		os.Exit(1)
	}
}
