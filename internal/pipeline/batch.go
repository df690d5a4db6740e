package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"sceneforge/internal/logging"
	"sceneforge/internal/scene"
)

// DefaultBatchConcurrency bounds parallel scene generation when the caller
// does not choose a limit.
const DefaultBatchConcurrency = 2

// BatchResult is the outcome of one scene within a batch.
type BatchResult struct {
	SceneID string
	Scene   *scene.Scene
	Err     error
}

// GenerateBatch runs a set of scenes with bounded parallelism. Failures are
// isolated per scene: one scene's error is captured in its result and never
// aborts its siblings. Results are returned in the order the IDs were given.
func (g *Generator) GenerateBatch(ctx context.Context, sceneIDs []string, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]BatchResult, len(sceneIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i, id := range sceneIDs {
		i, id := i, id
		group.Go(func() error {
			sc, err := g.Generate(groupCtx, id)
			results[i] = BatchResult{SceneID: id, Scene: sc, Err: err}
			return nil
		})
	}
	// Goroutines always return nil, so Wait only synchronizes.
	_ = group.Wait()

	failures := 0
	for _, result := range results {
		if result.Err != nil {
			failures++
		}
	}
	g.logger.Info("batch generation finished",
		logging.Args(
			logging.Int("scenes", len(sceneIDs)),
			logging.Int("failures", failures),
		)...)
	return results
}
