// Package repository defines the data access interfaces for almostcircle.
//
// This package provides the repository abstraction layer for persisting
// and retrieving domain entities. The actual implementation is in the
// sqlite subpackage.
//
// # Repository Interface
//
// ShapeRepository stores rectangles and squares keyed by kind and id.
// StateRepository covers the states and cities tables: listing, prefix and
// substring filters, exact name lookups, renames, deletes, and states with
// their nested cities.
//
// # SQLite Implementation
//
// The sqlite implementation uses the pure Go modernc.org/sqlite driver with
// WAL mode and foreign keys enabled through DSN pragmas. It handles:
//
// - Parameterised queries for every user supplied value
// - Case-sensitive prefix and substring filters
// - Cascade deletes from states to cities
// - Transactional bulk replacement of shapes and state creation with cities
//
// # Schema Migration
//
// The sqlite repository creates its tables and indexes on open if they do
// not exist yet.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
