// Package pipeline orchestrates scene generation end to end: shot planning,
// composite construction, video synthesis, and continuity-frame extraction.
// Scene status is persisted at every phase boundary and batches run with
// bounded parallelism and per-scene failure isolation.
package pipeline
