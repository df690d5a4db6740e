package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sceneforge/internal/config"
	"sceneforge/internal/scene"
	"sceneforge/internal/services/knowledge"
	"sceneforge/internal/shotplan"
)

// newPlanCommand builds the shot plan for a scene without generating
// anything, so plans can be inspected before spending composite iterations.
func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <scene-id>",
		Short: "Show the composite build plan for a scene without generating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *scene.Store) error {
				sc, err := store.Fetch(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("fetch scene: %w", err)
				}
				if sc == nil {
					return fmt.Errorf("scene %s not found", args[0])
				}

				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				graph := knowledge.NewClient(knowledge.Config{
					BaseURL:        cfg.KnowledgeGraph.BaseURL,
					APIKey:         cfg.KnowledgeGraph.APIKey,
					TimeoutSeconds: cfg.KnowledgeGraph.TimeoutSeconds,
					RetryAttempts:  cfg.KnowledgeGraph.RetryAttempts,
				})

				decision, err := shotplan.NewPlanner(graph, logger).Plan(cmd.Context(), sc)
				if err != nil {
					return err
				}
				printDecision(cmd, decision)
				return nil
			})
		},
	}
}

func printDecision(cmd *cobra.Command, decision *shotplan.Decision) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(decision.Steps))
	for _, step := range decision.Steps {
		refs := make([]string, 0, len(step.References))
		for _, ref := range step.References {
			refs = append(refs, ref.URL)
		}
		rows = append(rows, []string{
			strconv.Itoa(step.Index),
			string(step.Type),
			step.Subject,
			strconv.Itoa(len(refs)),
			step.Prompt,
		})
	}
	fmt.Fprintln(out, renderSceneRows([]tableColumn{
		{Title: "Step", Numeric: true},
		{Title: "Type"},
		{Title: "Subject"},
		{Title: "Refs", Numeric: true},
		{Title: "Prompt", MaxWidth: 60},
	}, rows))

	if len(decision.CharacterAngles) > 0 {
		pairs := make([]string, 0, len(decision.CharacterAngles))
		for name, angle := range decision.CharacterAngles {
			pairs = append(pairs, fmt.Sprintf("%s=%s", name, angle))
		}
		fmt.Fprintf(out, "Character angles: %s\n", strings.Join(pairs, ", "))
	}
	fmt.Fprintf(out, "Pacing: %.1fs clip, motion %.2f, %s transition\n",
		decision.Pacing.DurationSeconds, decision.Pacing.MotionStrength, decision.Pacing.Transition)
}
