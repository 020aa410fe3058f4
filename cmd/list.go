package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cookbook/internal/cookbook"
)

// newListCmd returns the "list" command, which prints every meal name with its
// 0-based position in the catalog.
func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the names of all meals in the cookbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cb, err := opts.openCookbook()
			if err != nil {
				return err
			}
			defer cb.Close() // Writes the (unchanged) catalog back on exit

			for i, meal := range cb.List() {
				printIndexed(cmd.OutOrStdout(), i, meal)
			}
			return nil
		},
	}
}

// printIndexed writes one "<index>: <name>" line.
func printIndexed(w io.Writer, i int, meal cookbook.Meal) {
	fmt.Fprintf(w, "%s: %s\n", index.Sprint(i), meal.Name)
}
