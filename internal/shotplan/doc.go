// Package shotplan turns scene records into ordered composite build plans.
// It resolves scene elements against the knowledge graph, fixes the build
// order (locations before characters before props), selects character view
// angles from the scene camera angle, and derives clip pacing from the scene
// content.
package shotplan
