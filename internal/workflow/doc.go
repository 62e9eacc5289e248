// Package workflow holds the poster-to-video workflow state and the
// coordinators that drive it.
//
// All state lives in a single Store. Every mutation, whether a user intent or
// the settlement of an asynchronous poster or video task, is expressed as an
// Action and applied with the pure Reduce function to the freshest state under
// the store's lock. Settlements are matched to their originating request by
// correlation id, so completions that arrive in any order, or after a reset,
// never overwrite sibling updates.
package workflow
