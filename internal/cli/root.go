// Package cli holds the kataster commands.
package cli

import (
	"context"

	"github.com/UnknownOlympus/kataster/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
	cfg     *config.Config
}

// Execute runs the kataster command line with ctx cancelled on shutdown signals.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the kataster command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "kataster",
		Short:        "Look up cadastral parcel outlines in the Polish ULDK registry",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.envFile != "" {
				opts.cfg = config.MustLoadFrom(opts.envFile)
				return
			}
			opts.cfg = config.MustLoad()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "read configuration from this dotenv file instead of ./.env")

	cmd.AddCommand(lookupCmd(opts), tuiCmd(opts), serveCmd(opts))

	return cmd
}
