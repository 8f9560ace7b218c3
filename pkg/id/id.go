// Package id generates prefixed entity identifiers such as "theme_5f0c...".
package id

import (
	"strings"

	"github.com/google/uuid"
)

const separator = "_"

// New returns a new identifier with the given prefix.
// An empty prefix yields a bare UUID string.
func New(prefix string) string {
	u := uuid.New().String()
	if prefix == "" {
		return u
	}
	return prefix + separator + u
}

// Prefix returns the prefix part of an identifier created by New.
// Identifiers without a separator return an empty string.
func Prefix(v string) string {
	i := strings.Index(v, separator)
	if i <= 0 {
		return ""
	}
	return v[:i]
}

// HasPrefix reports whether v was generated with the given prefix.
func HasPrefix(v, prefix string) bool {
	return Prefix(v) == prefix
}
