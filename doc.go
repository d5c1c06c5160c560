// Package rson implements a parser and value model for RSON
// (Restructured Object Notation), a superset of JSON that adds
// comments, trailing commas, extended number literals, single- and
// triple-quoted strings, byte-strings, sets, ordered tables, and
// user-extensible tagged values.
//
// The package is organized as:
//
//   - value.go: the Value tree and its equality/hashing rules
//   - errors.go: the structured Error type and its Kind taxonomy
//   - parse.go: the public entry points, Parse and ParseValue
//   - lexical.go, number.go, stringlit.go, structural.go, tags.go: the
//     recursive-descent grammar
//   - internal/cursor: the UTF-8 byte cursor the grammar is built on
//
// Parsing is synchronous and single-threaded: a *Value tree is built
// bottom-up from a byte slice and is immutable once returned. There is
// no facility for serializing Values back to RSON or JSON; this
// package only reads.
package rson
