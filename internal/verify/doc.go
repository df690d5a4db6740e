// Package verify gates composite attempts behind two independent checks: a
// knowledge-graph reasoning check and a direct vision check. Both checks run
// on every attempt and both must pass, with the combined score clearing the
// acceptance threshold, before a step's output is accepted.
package verify
