// Package synthesis animates finished composites into short video clips and
// samples a continuity frame from each clip's tail so the following scene can
// chain from it visually.
package synthesis
