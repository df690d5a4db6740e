package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sceneforge/internal/config"
	"sceneforge/internal/scene"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

var statusTitleCaser = cases.Title(language.English)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var byStatus string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show scene counts and the scene table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *scene.Store) error {
				health, err := store.Health(cmd.Context())
				if err != nil {
					return fmt.Errorf("scene health: %w", err)
				}

				var scenes []*scene.Scene
				if byStatus != "" {
					status, ok := scene.ParseStatus(byStatus)
					if !ok {
						return fmt.Errorf("unknown status %q", byStatus)
					}
					scenes, err = store.ScenesByStatus(cmd.Context(), status)
					if err != nil {
						return fmt.Errorf("list scenes: %w", err)
					}
				} else {
					scenes, err = store.List(cmd.Context())
					if err != nil {
						return fmt.Errorf("list scenes: %w", err)
					}
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Scenes: %d total, %d pending, %d processing, %d completed, %d failed\n\n",
					health.Total, health.Pending, health.Processing, health.Completed, health.Failed)
				fmt.Fprintln(out, renderSceneTable(scenes, colorize))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&byStatus, "status", "", "Only show scenes with this status")
	return cmd
}

func renderSceneTable(scenes []*scene.Scene, colorize bool) string {
	sort.SliceStable(scenes, func(i, j int) bool {
		if scenes[i].EpisodeID != scenes[j].EpisodeID {
			return scenes[i].EpisodeID < scenes[j].EpisodeID
		}
		return scenes[i].Number < scenes[j].Number
	})

	rows := make([][]string, 0, len(scenes))
	for _, sc := range scenes {
		rows = append(rows, []string{
			sc.ID,
			sc.EpisodeID,
			strconv.Itoa(sc.Number),
			statusLabel(sc.Status, colorize),
			truncate(sc.Description, 48),
		})
	}
	return renderSceneRows([]tableColumn{
		{Title: "ID"},
		{Title: "Episode"},
		{Title: "#", Numeric: true},
		{Title: "Status"},
		{Title: "Description", MaxWidth: 48},
	}, rows)
}

// statusLabel renders the lifecycle status as a human title, colorized for
// terminals.
func statusLabel(status scene.Status, colorize bool) string {
	label := statusTitleCaser.String(strings.ReplaceAll(string(status), "_", " "))
	if !colorize {
		return label
	}
	switch status {
	case scene.StatusCompleted:
		return ansiGreen + label + ansiReset
	case scene.StatusFailed:
		return ansiRed + label + ansiReset
	case scene.StatusPending:
		return label
	default:
		return ansiYellow + label + ansiReset
	}
}

func truncate(value string, limit int) string {
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
