package sexp

import (
	"crypto/sha256"
	"encoding/base64"
)

// Hash returns the content address of a canonical form: the SHA-256
// digest of its UTF-8 bytes, rendered as standard base64 with padding.
// The result is always 44 characters.
func Hash(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return base64.StdEncoding.EncodeToString(sum[:])
}
