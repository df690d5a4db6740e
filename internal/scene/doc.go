// Package scene defines the persisted scene model, its status lifecycle, and
// the SQLite-backed store the orchestrator uses between pipeline phases.
package scene
