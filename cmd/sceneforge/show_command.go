package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sceneforge/internal/config"
	"sceneforge/internal/scene"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <scene-id>",
		Short: "Show the full record for one scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *scene.Store) error {
				sc, err := store.Fetch(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("fetch scene: %w", err)
				}
				if sc == nil {
					return fmt.Errorf("scene %s not found", args[0])
				}
				printScene(cmd, sc)
				return nil
			})
		},
	}
}

func printScene(cmd *cobra.Command, sc *scene.Scene) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scene %s\n", sc.ID)
	fmt.Fprintf(out, "  episode:      %s (#%d)\n", sc.EpisodeID, sc.Number)
	fmt.Fprintf(out, "  status:       %s\n", sc.Status)
	fmt.Fprintf(out, "  description:  %s\n", sc.Description)
	fmt.Fprintf(out, "  location:     %s\n", sc.Location)
	if sc.TimeOfDay != "" {
		fmt.Fprintf(out, "  time of day:  %s\n", sc.TimeOfDay)
	}
	if sc.CameraAngle != "" {
		fmt.Fprintf(out, "  camera angle: %s\n", sc.CameraAngle)
	}
	if len(sc.Characters) > 0 {
		fmt.Fprintf(out, "  characters:   %s\n", strings.Join(sc.Characters, ", "))
	}
	if len(sc.Props) > 0 {
		fmt.Fprintf(out, "  props:        %s\n", strings.Join(sc.Props, ", "))
	}
	if sc.CompositeURL != "" {
		fmt.Fprintf(out, "  composite:    %s\n", sc.CompositeURL)
	}
	if sc.VideoURL != "" {
		fmt.Fprintf(out, "  video:        %s\n", sc.VideoURL)
	}
	if sc.LastFrameURL != "" {
		fmt.Fprintf(out, "  frame:        %s\n", sc.LastFrameURL)
	}
	if sc.ErrorMessage != "" {
		fmt.Fprintf(out, "  error:        %s\n", sc.ErrorMessage)
	}
}
