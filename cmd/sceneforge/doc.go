// Command sceneforge is the CLI for the scene generation pipeline: it manages
// the scene store and drives scenes through planning, compositing, video
// synthesis, and continuity-frame extraction.
package main
