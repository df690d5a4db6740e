// Package services provides the shared error taxonomy and context annotation
// helpers used by the pipeline components and the collaborator clients under
// services/*. Errors raised here carry a structured phase tag so the
// orchestrator can map failures to scene statuses without inspecting message
// text.
package services
