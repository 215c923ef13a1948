// Package events provides types and interfaces for an event-driven architecture.
//
// Components emit events without knowing which handlers will process them.
// The study session engine uses this to announce finished sessions so that
// the card store can archive them without the engine depending on it.
//
// The primary components are:
// - Event: a typed envelope with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
