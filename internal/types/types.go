// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// Hero represents a hero record in our system.
//
// Struct tags serve three purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (lowercase names match REST API conventions).
//     Without this tag Go uses the exported field name, e.g. "Name".
//
//  2. db:"..."    — column mapping used by sqlx when scanning database
//     rows into the struct, so column order never has to match field
//     order.
//
//  3. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty.
//
// Age is *int rather than int because age is optional: a nil pointer
// round-trips as JSON null and SQL NULL, whereas a plain int would
// silently turn "absent" into 0. ID has no validate tag — clients may
// send one on create but storage always assigns its own.
type Hero struct {
	ID   int64  `json:"id"   db:"id"`
	Name string `json:"name" db:"name" validate:"required"`
	Age  *int   `json:"age"  db:"age"`
}
