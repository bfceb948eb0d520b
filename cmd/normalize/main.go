// Command normalize reads an AI coaching response from a file or stdin and
// prints the normalized recommendation as JSON.
//
//	go run ./cmd/normalize response.json
//	cat reply.txt | go run ./cmd/normalize --source
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nutricoach-backend/internal/recommendations"
)

var errNoRecommendation = errors.New("no recommendation could be produced")

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var (
		withSource bool
		indent     bool
	)
	cmd := &cobra.Command{
		Use:           "normalize [file]",
		Short:         "Normalize an AI response into a recommendation record",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			in := stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			payload, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return run(payload, stdout, withSource, indent)
		},
	}
	cmd.Flags().BoolVar(&withSource, "source", false, "Wrap the record together with the stage that produced it")
	cmd.Flags().BoolVar(&indent, "indent", true, "Indent the JSON output")
	return cmd
}

func run(payload []byte, out io.Writer, withSource, indent bool) error {
	rec, source, ok := recommendations.NormalizeWithSource(json.RawMessage(payload))
	if !ok {
		return errNoRecommendation
	}

	var v any = rec
	if withSource {
		v = struct {
			Recommendation recommendations.Record `json:"recommendation"`
			Source         recommendations.Source `json:"source"`
		}{rec, source}
	}

	enc := json.NewEncoder(out)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
