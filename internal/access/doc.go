// Package access gates the workflow behind an externally selected
// capability, typically an API key for the generation services.
//
// The Gate is a two-state machine (unauthenticated, authenticated). It asks
// an injected CapabilityProvider whether access is available, lets the user
// request access, and can be invalidated from any goroutine when a remote
// call reports that the credential is no longer usable.
package access
