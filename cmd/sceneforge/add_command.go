package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sceneforge/internal/config"
	"sceneforge/internal/scene"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		episodeID   string
		projectID   string
		number      int
		location    string
		timeOfDay   string
		cameraAngle string
		characters  []string
		props       []string
		dialogue    []string
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a scene to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.TrimSpace(args[0])
			if description == "" {
				return errors.New("scene description required")
			}
			return ctx.withStore(func(_ *config.Config, store *scene.Store) error {
				created, err := store.Create(cmd.Context(), &scene.Scene{
					EpisodeID:   episodeID,
					ProjectID:   projectID,
					Number:      number,
					Description: description,
					Location:    location,
					TimeOfDay:   timeOfDay,
					CameraAngle: cameraAngle,
					Characters:  characters,
					Props:       props,
					Dialogue:    dialogue,
				})
				if err != nil {
					return fmt.Errorf("create scene: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added scene %s (episode %s, #%d)\n", created.ID, created.EpisodeID, created.Number)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&episodeID, "episode", "", "Episode identifier")
	cmd.Flags().StringVar(&projectID, "project", "", "Project identifier")
	cmd.Flags().IntVar(&number, "number", 0, "Scene number within the episode")
	cmd.Flags().StringVar(&location, "location", "", "Location name resolved against the knowledge graph")
	cmd.Flags().StringVar(&timeOfDay, "time-of-day", "", "Time of day (dawn, day, dusk, night)")
	cmd.Flags().StringVar(&cameraAngle, "camera-angle", "", "Camera angle for the shot")
	cmd.Flags().StringSliceVar(&characters, "character", nil, "Character name (repeatable)")
	cmd.Flags().StringSliceVar(&props, "prop", nil, "Prop name (repeatable)")
	cmd.Flags().StringSliceVar(&dialogue, "dialogue", nil, "Dialogue line (repeatable)")
	return cmd
}
