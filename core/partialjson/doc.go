// Package partialjson parses prefixes of JSON documents that may be cut off
// at an arbitrary byte boundary. Streaming tool-call arguments arrive as
// fragments of a single JSON object, so at almost every point during a
// stream the accumulated text is structurally incomplete: a string literal
// may stop mid-escape, a number may be missing digits, containers may still
// be open.
//
// [Parse] recovers the deepest structurally valid value reachable from such
// a prefix: it drops an incomplete trailing token, optionally keeps the
// decoded prefix of an unterminated string value, and synthesizes closing
// brackets for every container still open. It fails only on structural
// errors that truncation cannot explain, such as an unmatched closing
// bracket or an invalid escape sequence.
package partialjson
