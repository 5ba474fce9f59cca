package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTag trims surrounding whitespace and applies Unicode NFC
// normalization. All tag comparison and uniqueness checks operate on the
// normalized form, so "café" composed and decomposed are the same tag.
func NormalizeTag(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ContainsTag reports whether the normalized form of name is present.
// The haystack is assumed to already be normalized.
func ContainsTag(tags []string, name string) bool {
	name = NormalizeTag(name)
	for _, t := range tags {
		if t == name {
			return true
		}
	}
	return false
}

// RemoveTags returns tags with every name in remove taken out.
// Order of the survivors is preserved.
func RemoveTags(tags []string, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, r := range remove {
		drop[NormalizeTag(r)] = true
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !drop[t] {
			out = append(out, t)
		}
	}
	return out
}
