// Package cmd wires the otr-tidy command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Digital-Shane/otr-tidy/internal/config"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
)

// options holds the flags shared by all commands.
type options struct {
	configPath string
	dryRun     bool
	series     string
	method     string
	yes        bool
	verbose    bool
}

// NewRootCommand builds the otr-tidy command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "otr-tidy [path]",
		Short: "Rename OnlineTVRecorder downloads",
		Long: `otr-tidy renames OnlineTVRecorder downloads into readable names.

Series recordings are matched by channel and air time against the
fernsehserien.de episode guide and become "<series> <season>.<episode> (<title>).avi".
Without --series every recording is treated as a movie and named after its
title, optionally corrected through TMDB or OMDb.

The path may be a single recording or a directory. Renamed files no longer
carry the TVOON marker and are skipped on later runs.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runRename(cmd, opts, path)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (default ~/.otr-tidy/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every lookup step")
	rootCmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Show the new names without renaming")
	rootCmd.Flags().StringVar(&opts.series, "series", "", "Series name as spelled on fernsehserien.de; without it recordings are movies")
	rootCmd.Flags().StringVar(&opts.method, "method", "", "Movie title update: none, imdb_global, imdb_closest or imdb_local (default from config)")
	rootCmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Accept the closest broadcast when no exact match exists")

	rootCmd.AddCommand(newUndoCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	setupLogging(os.Stderr, false)
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging(w io.Writer, verbose bool) {
	log.SetHandler(cli.New(w))
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func loadConfig(opts *options) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFrom(opts.configPath)
	}
	return config.Load()
}

func configPath(opts *options) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return config.ConfigPath()
}
