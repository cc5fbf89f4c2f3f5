package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(factory askerFactory) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the assistant a single question",
		Long: `Runs one question through the full pipeline (classification, slot
extraction, store queries and synthesis) using the same configuration as the server.`,
		Example: `  roomie ask "Deluxe room in Bali with a pool under 800k"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			asker, closer, err := factory(ctx)
			if err != nil {
				return err
			}
			defer closer.Close()

			resp := asker.Ask(ctx, message)
			if asJSON {
				data, err := json.MarshalIndent(resp, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal response: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Response)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the response as the API JSON payload")
	return cmd
}
