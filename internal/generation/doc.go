// Package generation defines the ports between the workflow core and the
// external poster and video generation services. Concrete adapters live in
// internal/platform/gemini; tests substitute hand-written fakes.
package generation
