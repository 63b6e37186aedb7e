// Package sexp implements the canonical S-expression encoding that all
// ledger records and content objects are hashed over. The grammar has
// three productions: length-prefixed atoms, named groups, and verbatim
// fields. Encoding is deterministic; identical values always produce
// identical bytes, which is what makes content addressing possible.
package sexp

import "strconv"

// String encodes s as a length-prefixed atom: "<length>:<bytes>".
// The length counts UTF-8 bytes, so atom bodies may contain any byte
// sequence, including "(", ")" and ":", without escaping.
//
// The empty string encodes to nothing at all, not "0:". Absent and
// empty values leave no trace in the parent encoding.
func String(s string) string {
	if s == "" {
		return ""
	}
	return strconv.Itoa(len(s)) + ":" + s
}

// Object encodes a named group of already-encoded children:
// "(" + String(name) + content + ")".
//
// Empty content encodes to nothing, so a group without substantive
// children vanishes from its parent entirely. An optional field that
// is unset must never appear as an empty group in the output.
func Object(name, content string) string {
	if content == "" {
		return ""
	}
	return "(" + String(name) + content + ")"
}

// Verbatim wraps a fixed-shape identifier in "|" delimiters instead of
// length-prefixing it. It is used for values that are themselves
// digests or source ids and must round-trip byte for byte. The empty
// string encodes to nothing, same as String.
func Verbatim(s string) string {
	if s == "" {
		return ""
	}
	return "|" + s + "|"
}
