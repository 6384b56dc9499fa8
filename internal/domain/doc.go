// Package domain defines the core types of the almostcircle shape toolkit.
//
// This package contains the shape model hierarchy, the validation errors it
// raises, and the small record types (students, states, cities) that the
// persistence and query layers work with.
//
// # Shape Hierarchy
//
// Base carries the integer identity shared by every shape. A zero id draws
// the next value from a process-wide counter; a non-zero id is kept as given.
//
// Rectangle adds width and height (both > 0) and an x/y offset (both >= 0).
//
// Square is a Rectangle whose sides are always equal. Setting any side of a
// Square sets both.
//
// Shape is the interface both concrete types satisfy. Kind names the
// concrete type and encodes the Square-is-a-Rectangle relation.
//
// # Validation
//
// Every setter validates its input and returns a *ValidationError. The error
// carries the field name and whether the input had the wrong type (ErrType)
// or an out-of-range value (ErrValue). Dynamic updates (positional or keyed,
// as decoded from JSON, CSV or YAML) are applied all-or-nothing.
//
// # Dictionaries
//
// ToDictionary flattens a shape into string keys and integer values. Create
// rebuilds a shape from such a dictionary, and ToJSONString/FromJSONString
// convert lists of dictionaries to and from JSON text.
//
// # Design Principles
//
// - No database or transport dependencies
// - Constructors validate before consuming an id
// - Rich type system with meaningful constants
package domain
