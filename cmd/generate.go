package cmd

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/magidevv/authflows/internal/fakedata"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newGenerateCmd prints synthetic registration records, one JSON document per user.
func newGenerateCmd() *cobra.Command {
	var (
		count  int
		seed   int64
		pretty bool
	)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Print synthetic user records as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			gen := fakedata.Default()
			if cmd.Flags().Changed("seed") {
				gen = fakedata.New(seed)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			for i := 0; i < count; i++ {
				if err := enc.Encode(gen.User()); err != nil {
					return fmt.Errorf("failed to encode user: %w", err)
				}
			}
			return nil
		},
	}

	generateCmd.Flags().IntVarP(&count, "count", "n", 1, "Number of users to generate.")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible output.")
	generateCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output.")
	return generateCmd
}
