// Package compositor builds a scene's final composite image by executing the
// planned steps in order. Each step runs inside a bounded verify-retry loop
// where rejected candidates are fed back as the edit base, and a global
// iteration cap across all steps acts as a circuit breaker. Every attempt is
// recorded in an append-only history.
package compositor
