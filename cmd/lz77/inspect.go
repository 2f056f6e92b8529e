package main

import (
	"fmt"
	"os"

	"github.com/andybalholm/lz77"
	"github.com/andybalholm/lz77/artifact"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [artifact]",
	Short: "List the tokens in an artifact",
	Long:  "Print an artifact's header and its tokens, or with --text a rendering of the data with <offset,length> back-references.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetBool("text")
		quiet, _ := cmd.Flags().GetBool("quiet")

		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		h, err := artifact.ReadHeader(b)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		tokens, err := artifact.Unmarshal(b)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if text {
			_, err := out.Write(lz77.AppendText(nil, tokens))
			return err
		}

		size, matches := 0, 0
		for _, t := range tokens {
			size += t.Size()
			if t.Length > 0 {
				matches++
			}
		}
		fmt.Fprintf(out, "%s: version %d, %v format, %v wrapper, checksum %#08x\n",
			args[0], h.Version, h.Format, h.Wrapper, h.Checksum)
		fmt.Fprintf(out, "%d tokens (%d back-references), %d bytes decoded\n", len(tokens), matches, size)
		if quiet {
			return nil
		}

		pos := 0
		for i, t := range tokens {
			fmt.Fprintf(out, "%6d @%-8d offset=%-5d length=%-6d", i, pos, t.Offset, t.Length)
			if t.HasLiteral {
				fmt.Fprintf(out, " literal=%q", t.Literal)
			}
			fmt.Fprintln(out)
			pos += t.Size()
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolP("text", "t", false, "Render the data with <offset,length> back-references")
	inspectCmd.Flags().BoolP("quiet", "Q", false, "Only print the summary")
}
