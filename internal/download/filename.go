// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import "strings"

// disallowed lists the characters Filename replaces with '-'.
const disallowed = `!#$^&=+{}[]:;"'<>?|`

// Filename derives the local filename for an enclosure URL: the last path
// segment, with the query string dropped, then every disallowed character
// replaced by '-'. The query is removed before substitution, so "?" only
// survives to be replaced when it cannot start a query.
func Filename(rawURL string) string {
	name := rawURL
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(disallowed, r) {
			return '-'
		}
		return r
	}, name)
}
