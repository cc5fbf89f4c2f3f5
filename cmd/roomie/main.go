package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"roomie/internal/bootstrap"
	"roomie/internal/config"
	"roomie/internal/handler"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// askerFactory builds the pipeline; the closer releases the store
type askerFactory func(ctx context.Context) (handler.Asker, io.Closer, error)

func main() {
	if err := newRootCmd(loadAssistant).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(factory askerFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "roomie",
		Short:        "Roomie accommodation assistant",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newAskCmd(factory), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "roomie %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
		},
	}
}

func loadAssistant(ctx context.Context) (handler.Asker, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.Assistant, app, nil
}
