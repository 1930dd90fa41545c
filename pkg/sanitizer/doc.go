// Package sanitizer normalizes caller supplied identifiers and free text
// before validation.
//
// All functions are idempotent: applying them twice gives the same result.
// Invalid input is reduced to an empty string or dropped from a slice rather
// than reported as an error; validation decides what is acceptable.
package sanitizer
