// Package handler implements the HTTP API for the almostcircle server.
//
// # Handlers
//
// ShapeHandler serves rectangles and squares under /api/shapes/{kind}, where
// kind is Rectangle or Square in any letter case, plus bulk import and
// export under /api/import/{kind} and /api/export/{kind}.
//
// StateHandler serves the states and cities tables under /api/states and
// /api/cities.
//
// # API Design
//
// All handlers follow REST conventions:
// - GET for retrieval
// - POST for creation
// - PUT for updates
// - DELETE for removal
//
// Success responses return JSON data with appropriate status codes (200, 201,
// 204). Error responses return JSON with {error, details} structure.
// Validation errors map to 400 and missing records to 404.
//
// # Middleware
//
// NewRouter applies panic recovery, request ids, CORS, Prometheus metrics,
// request logging, and per-IP rate limiting on /api.
//
// # Server-Sent Events
//
// The /events endpoint streams service events to connected clients.
package handler
