package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cookbook/internal/cookbook"
	"cookbook/internal/importer"
	"cookbook/internal/logger"
)

// newImportCmd returns the "import" command, which merges the meals from an
// external file into the catalog.
func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add every meal listed in a JSON or YAML file (optionally compressed or archived)",
		Long: `Add every meal listed in FILE to the cookbook.

FILE holds a list of meals, either bare or under a top-level "meals" key.
It may be .json, .yaml or .yml, compressed with gzip, bzip2 or xz
(e.g. meals.json.xz), or packed in a .zip, .7z or .tar(.gz|.bz2|.xz) archive,
in which case the first meal file inside is used. Meals whose name is already
in the cookbook are skipped with a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse the whole source first so a bad file never touches the catalog.
			meals, err := importer.ReadMeals(args[0])
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}

			cb, err := opts.openCookbook()
			if err != nil {
				return err
			}
			defer cb.Close()

			// Duplicates are reported and skipped; any other error aborts the import.
			added := 0
			for _, meal := range meals {
				if _, err := cb.Add(meal); err != nil {
					var dup *cookbook.DuplicateMealError
					if !errors.As(err, &dup) {
						return err
					}
					logger.Warn("skipping duplicate meal", "name", dup.Name, "source", args[0])
					warning.Fprintf(cmd.ErrOrStderr(), "Skipped %q: already in the cookbook\n", dup.Name)
					continue
				}
				added++
			}

			// Commit explicitly: Close only logs a failed write.
			if err := cb.Commit(); err != nil {
				return fmt.Errorf("failed to save imported meals: %w", err)
			}
			success.Fprintf(cmd.OutOrStdout(), "Imported %d of %d meals\n", added, len(meals))
			return nil
		},
	}
}
