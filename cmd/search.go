package cmd

import (
	"github.com/spf13/cobra"
)

// newSearchCmd returns the "search" command. PATTERN is a literal,
// case-sensitive substring; an empty PATTERN lists everything.
func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search PATTERN",
		Short: "Find meals whose name contains PATTERN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cb, err := opts.openCookbook()
			if err != nil {
				return err
			}
			defer cb.Close()

			matches, err := cb.Search(args[0])
			if err != nil {
				return err
			}

			// Show matches with their position in the full listing.
			positions := make(map[string]int)
			for i, meal := range cb.List() {
				positions[meal.Name] = i
			}
			for _, meal := range matches {
				printIndexed(cmd.OutOrStdout(), positions[meal.Name], meal)
			}
			return nil
		},
	}
}
