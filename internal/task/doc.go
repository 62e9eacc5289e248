// Package task runs independent units of remote work on goroutines and
// settles each one as soon as it finishes. There is no all-or-nothing join:
// a task's outcome is delivered to its own Settle method the moment it
// completes, regardless of what its siblings are doing.
package task
