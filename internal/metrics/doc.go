// Package metrics exposes Prometheus metrics derived from workflow events.
//
// A Recorder registers with the event emitter like any other handler and
// keeps its collectors in a private registry, so several recorders (one per
// test, for example) never collide on metric names.
package metrics
