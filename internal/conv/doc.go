// Package conv provides checked integer conversions and power-of-two
// alignment helpers used by the arena backends.
//
// Conversions perform bounds checking so that sizes coming from configuration
// can be narrowed to the platform int (slice indices) or to the fixed-width
// fields of the arena header without silent truncation.
//
// Alignment helpers require a power-of-two alignment. They do not validate it;
// callers validate once at construction time.
package conv
