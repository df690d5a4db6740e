package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sceneforge/internal/config"
	"sceneforge/internal/scene"
)

// newResetCommand recovers scenes stranded in a processing status by a
// crashed or killed run.
func newResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-stuck",
		Short: "Reset scenes stuck in a processing status back to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *scene.Store) error {
				count, err := store.ResetStuckProcessing(cmd.Context())
				if err != nil {
					return fmt.Errorf("reset stuck scenes: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d scene(s) to pending\n", count)
				return nil
			})
		},
	}
}
