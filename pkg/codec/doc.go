// Package codec decodes the textual field values found in pfostream files.
//
// A stream record is a named group of fields. Each field carries a single
// string, and this package turns those strings into typed values. It knows
// nothing about records, containers or documents; the stream package looks
// fields up and hands their text here.
//
// # Value Syntax
//
//	scalar       "1.5", "-3", "42"
//	boolean      "1", "0", "true", "false"
//	address      "0x7f3a10", "12345"
//	3-vector     "x y z"
//	track state  "x y z px py pz"
//	sequence     "v0 v1 v2 ..." (may be empty)
//	enum         numeric code or symbolic name, see EnumTable
//
// Components are separated by any run of whitespace.
//
// # Addresses
//
// Addresses are minted by whatever program wrote the stream, usually by
// printing a pointer. They are foreign keys and nothing more: two addresses
// are the same object iff their bit patterns are equal.
//
// # Error Handling
//
// Every parse failure wraps ErrInvalidValue, so callers can separate a
// malformed value from an absent one with errors.Is.
package codec
