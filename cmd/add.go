package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cookbook/internal/cookbook"
)

// newAddCmd returns the "add" command, which appends one meal and saves the
// catalog straight away.
func newAddCmd(opts *options) *cobra.Command {
	var tags []string

	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a meal to the cookbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			// Checked before opening so a bad name never creates the data file.
			if strings.TrimSpace(name) == "" {
				return cookbook.ErrEmptyName
			}

			cb, err := opts.openCookbook()
			if err != nil {
				return err
			}
			defer cb.Close()

			// Add fails on a duplicate name; nothing is written in that case.
			count, err := cb.Add(cookbook.NewMeal(name, tags))
			if err != nil {
				return err
			}
			// Commit explicitly: Close only logs a failed write.
			if err := cb.Commit(); err != nil {
				return fmt.Errorf("failed to save %q: %w", name, err)
			}

			success.Fprintf(cmd.OutOrStdout(), "Added %q (%d meals)\n", name, count)
			return nil
		},
	}

	addCmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "The tags to be associated with the meal (repeatable or comma separated)")
	return addCmd
}
