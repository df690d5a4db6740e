package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sceneforge/internal/config"
	"sceneforge/internal/pipeline"
	"sceneforge/internal/scene"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "generate <scene-id> [scene-id...]",
		Short: "Run scenes through the generation pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *scene.Store) error {
				generator, err := ctx.buildGenerator(cfg, store)
				if err != nil {
					return err
				}

				if concurrency <= 0 {
					concurrency = cfg.Pipeline.BatchConcurrency
				}

				if len(args) == 1 {
					sc, err := generator.Generate(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					printSceneResult(cmd, sc)
					return nil
				}

				results := generator.GenerateBatch(cmd.Context(), args, concurrency)
				return printBatchResults(cmd, results)
			})
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel scene limit for batches (defaults to config)")
	return cmd
}

func printSceneResult(cmd *cobra.Command, sc *scene.Scene) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scene %s completed\n", sc.ID)
	fmt.Fprintf(out, "  composite: %s\n", sc.CompositeURL)
	fmt.Fprintf(out, "  video:     %s\n", sc.VideoURL)
	if sc.LastFrameURL != "" {
		fmt.Fprintf(out, "  frame:     %s\n", sc.LastFrameURL)
	} else {
		fmt.Fprintln(out, "  frame:     (not extracted)")
	}
}

func printBatchResults(cmd *cobra.Command, results []pipeline.BatchResult) error {
	rows := make([][]string, 0, len(results))
	failures := 0
	for _, result := range results {
		outcome := "completed"
		detail := ""
		if result.Err != nil {
			failures++
			outcome = "failed"
			detail = result.Err.Error()
		} else if result.Scene != nil {
			detail = result.Scene.VideoURL
		}
		rows = append(rows, []string{result.SceneID, outcome, detail})
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSceneRows([]tableColumn{
		{Title: "Scene"},
		{Title: "Outcome"},
		{Title: "Detail", MaxWidth: 72},
	}, rows))
	if failures > 0 {
		return fmt.Errorf("%d of %d scenes failed", failures, len(results))
	}
	return nil
}
