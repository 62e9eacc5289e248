// Package events provides types and interfaces for workflow notifications.
//
// Workflow components emit events when something noteworthy happens (a poster
// finished, a video task settled, access was invalidated) without knowing
// which handlers will process them. Handlers such as the metrics recorder
// subscribe through an EventEmitter.
//
// The primary components are:
// - Event: a typed notification with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
