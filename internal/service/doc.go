// Package service implements business logic for the almostcircle server.
//
// This package provides service layers that coordinate between the HTTP handlers
// and the repository layer, implementing business rules, validation, and event
// publishing.
//
// # Services
//
// ShapeService manages rectangles and squares: creation from attribute maps,
// keyword and positional updates, deletion, text display, import and export
// through the codec package, and syncing with the per-kind JSON files of the
// data directory.
//
// StateService wraps the states and cities queries. Missing records are
// reported as domain.ErrNotFound and invalid names as *domain.ValidationError.
//
// # Event System
//
// Services publish events via EventBus for real-time updates to connected
// clients via Server-Sent Events (SSE). Publishing never blocks: a subscriber
// whose channel is full misses the event.
//
// # Design Principles
//
// - Services own business logic and validation
// - Repository pattern for data access
// - Event-driven for real-time updates
// - Context-aware for cancellation and timeouts
package service
