// Package parse converts tool-call arguments into caller-defined Go types.
// Models occasionally emit almost-JSON (single quotes, unquoted keys,
// trailing commas), so decoding falls back to automatic JSON repair before
// giving up.
//
// [ParseArgumentsAs] decodes the raw argument text of a completed tool
// call; [ParseValueAs] re-types the already-parsed argument value carried
// by a normalized event.
package parse
