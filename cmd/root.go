package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cookbook/internal/config"
	"cookbook/internal/cookbook"
	"cookbook/internal/logger"
)

// options carries state shared by every subcommand of one invocation.
type options struct {
	v   *viper.Viper  // Layered settings: flags > env > config file > defaults
	cfg config.Config // Resolved in PersistentPreRunE, before any subcommand runs
}

// Colour helpers for human-facing output. fatih/color disables itself when
// stdout is not a terminal or NO_COLOR is set.
var (
	success = color.New(color.FgGreen)
	warning = color.New(color.FgHiMagenta)
	failure = color.New(color.FgRed)
	index   = color.New(color.FgCyan)
)

// NewRootCmd builds the `cookbook` command tree with its global flags.
func NewRootCmd() *cobra.Command {
	opts := &options{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:           "cookbook",
		Short:         "Keep a catalog of meals and their tags",
		SilenceUsage:  true,
		SilenceErrors: true,

		// PersistentPreRunE runs before any subcommand.
		// Here, we resolve configuration and initialize the logger so that
		// --verbose takes effect before the cookbook is touched.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.v)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			logger.Init(logger.Options{
				Verbose:    cfg.Verbose,
				Level:      cfg.Log.Level,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSize,
				MaxBackups: cfg.Log.MaxBackups,
			})
			logger.Debug("configuration resolved", "data", cfg.DataPath, "config_file", cfg.File)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Show all log messages")
	flags.StringP("data", "d", config.DefaultDataPath, "The cookbook file to connect to")
	_ = opts.v.BindPFlag(config.KeyVerbose, flags.Lookup("verbose"))
	_ = opts.v.BindPFlag(config.KeyData, flags.Lookup("data"))

	rootCmd.AddCommand(
		newAddCmd(opts),
		newInfoCmd(opts),
		newListCmd(opts),
		newSearchCmd(opts),
		newImportCmd(opts),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on any error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		failure.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Close()
		os.Exit(1)
	}
}

// openCookbook makes sure the backing file exists and loads it.
// Callers must Close the returned cookbook.
func (o *options) openCookbook() (*cookbook.Cookbook, error) {
	if err := cookbook.EnsureFile(o.cfg.DataPath); err != nil {
		return nil, err
	}
	return cookbook.Connect(o.cfg.DataPath)
}
