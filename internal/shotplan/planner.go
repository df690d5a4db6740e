package shotplan

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"sceneforge/internal/logging"
	"sceneforge/internal/scene"
	"sceneforge/internal/services"
	"sceneforge/internal/services/knowledge"
)

// NodeLookup resolves scene elements against the knowledge graph.
type NodeLookup interface {
	QueryNode(ctx context.Context, kind knowledge.NodeKind, name string) (*knowledge.Node, error)
}

// Planner turns a scene record into an ordered composite build plan.
type Planner struct {
	graph  NodeLookup
	logger *slog.Logger
}

// NewPlanner constructs a planner backed by the supplied graph lookup.
func NewPlanner(graph NodeLookup, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Planner{graph: graph, logger: logging.NewComponentLogger(logger, "shotplan")}
}

// Plan resolves the scene's elements, assembles the fixed-order step list,
// and derives camera angles and pacing. Elements the graph cannot resolve are
// skipped; a scene yielding no steps at all is a planning failure.
func (p *Planner) Plan(ctx context.Context, sc *scene.Scene) (*Decision, error) {
	if sc == nil {
		return nil, services.Wrap(services.ErrValidation, services.PhaseAnalyzing, "plan", "scene is nil", nil)
	}

	angle := CharacterAngleFor(sc.CameraAngle)
	characterAngles := make(map[string]string)

	var steps []Step

	if location := strings.TrimSpace(sc.Location); location != "" {
		node, err := p.graph.QueryNode(ctx, knowledge.NodeLocation, location)
		if err != nil {
			return nil, services.Wrap(services.ErrPlanning, services.PhaseAnalyzing, "plan",
				fmt.Sprintf("look up location %q", location), err)
		}
		if node == nil {
			p.logger.Warn("location not found in knowledge graph, skipping",
				logging.Args(logging.String("scene_id", sc.ID), logging.String("location", location))...)
		} else {
			steps = append(steps, p.buildStep(sc, StepLocation, location, node, ""))
		}
	}

	for _, character := range sc.Characters {
		character = strings.TrimSpace(character)
		if character == "" {
			continue
		}
		node, err := p.graph.QueryNode(ctx, knowledge.NodeCharacter, character)
		if err != nil {
			return nil, services.Wrap(services.ErrPlanning, services.PhaseAnalyzing, "plan",
				fmt.Sprintf("look up character %q", character), err)
		}
		if node == nil {
			p.logger.Warn("character not found in knowledge graph, skipping",
				logging.Args(logging.String("scene_id", sc.ID), logging.String("character", character))...)
			continue
		}
		characterAngles[character] = angle
		steps = append(steps, p.buildStep(sc, StepCharacter, character, node, angle))
	}

	for _, prop := range sc.Props {
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		node, err := p.graph.QueryNode(ctx, knowledge.NodeProp, prop)
		if err != nil {
			return nil, services.Wrap(services.ErrPlanning, services.PhaseAnalyzing, "plan",
				fmt.Sprintf("look up prop %q", prop), err)
		}
		if node == nil {
			p.logger.Warn("prop not found in knowledge graph, skipping",
				logging.Args(logging.String("scene_id", sc.ID), logging.String("prop", prop))...)
			continue
		}
		steps = append(steps, p.buildStep(sc, StepProp, prop, node, ""))
	}

	if len(steps) == 0 {
		return nil, services.Wrap(services.ErrPlanning, services.PhaseAnalyzing, "plan",
			fmt.Sprintf("scene %s resolved to no composite steps", sc.ID), nil)
	}

	sort.SliceStable(steps, func(i, j int) bool {
		return stepOrder[steps[i].Type] < stepOrder[steps[j].Type]
	})
	for i := range steps {
		steps[i].Index = i
	}

	return &Decision{
		Steps:           steps,
		CharacterAngles: characterAngles,
		Pacing:          derivePacing(sc.Description, len(sc.Characters)),
	}, nil
}

func (p *Planner) buildStep(sc *scene.Scene, stepType StepType, subject string, node *knowledge.Node, angle string) Step {
	refs := p.collectReferences(sc, stepType, subject, node, angle)
	return Step{
		Type:        stepType,
		Subject:     subject,
		Description: stepDescription(stepType, subject),
		References:  refs,
		Prompt:      buildPrompt(stepType, subject, sc),
	}
}

// collectReferences gathers reference imagery for a step. Characters prefer
// the angle-matched set; everything falls back to the node's general
// references. The image backend accepts at most MaxReferencesPerStep, so
// overflow is truncated rather than treated as an error.
func (p *Planner) collectReferences(sc *scene.Scene, stepType StepType, subject string, node *knowledge.Node, angle string) []ReferenceImage {
	var urls []string
	refAngle := ""
	if stepType == StepCharacter && angle != "" {
		if angled := node.AngleImages[angle]; len(angled) > 0 {
			urls = angled
			refAngle = angle
		}
	}
	if len(urls) == 0 {
		urls = node.ReferenceImages
	}

	if len(urls) > MaxReferencesPerStep {
		p.logger.Warn("reference images exceed backend limit, truncating",
			logging.Args(
				logging.String("scene_id", sc.ID),
				logging.String("subject", subject),
				logging.Int("available", len(urls)),
				logging.Int("limit", MaxReferencesPerStep),
			)...)
		urls = urls[:MaxReferencesPerStep]
	}

	refs := make([]ReferenceImage, 0, len(urls))
	for _, url := range urls {
		ref := ReferenceImage{URL: url, Type: string(stepType), Weight: 1.0, Angle: refAngle}
		if stepType == StepCharacter {
			ref.Character = subject
		}
		refs = append(refs, ref)
	}
	return refs
}

func stepDescription(stepType StepType, subject string) string {
	switch stepType {
	case StepLocation:
		return fmt.Sprintf("establish location %s", subject)
	case StepCharacter:
		return fmt.Sprintf("place character %s in the scene", subject)
	default:
		return fmt.Sprintf("add %s %s", stepType, subject)
	}
}

func buildPrompt(stepType StepType, subject string, sc *scene.Scene) string {
	var b strings.Builder
	switch stepType {
	case StepLocation:
		fmt.Fprintf(&b, "Wide establishing view of %s", subject)
		if tod := strings.TrimSpace(sc.TimeOfDay); tod != "" {
			fmt.Fprintf(&b, " at %s", tod)
		}
	case StepCharacter:
		fmt.Fprintf(&b, "Composite %s into the scene, matching the existing lighting and perspective", subject)
	default:
		fmt.Fprintf(&b, "Add %s to the scene, matching the existing lighting and perspective", subject)
	}
	if desc := strings.TrimSpace(sc.Description); desc != "" {
		fmt.Fprintf(&b, ". Scene: %s", desc)
	}
	return b.String()
}
