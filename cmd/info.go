package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newInfoCmd returns the "info" command, which prints one meal as YAML.
// NAME must match exactly.
func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info NAME",
		Short: "Show the detailed information about the meal with the given name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cb, err := opts.openCookbook()
			if err != nil {
				return err
			}
			defer cb.Close()

			meal, err := cb.Info(args[0])
			if err != nil {
				return err
			}

			// Render as a small YAML document: name, then tags as a list.
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(meal); err != nil {
				return fmt.Errorf("failed to render %q: %w", meal.Name, err)
			}
			return enc.Close()
		},
	}
}
