// Package match builds best-effort 1:1 mappings between independently
// named branch lists: the raw names in the transaction feed and the
// canonical names in the branch registry.
package match

import (
	"regexp"
	"strings"
)

// stopTokens are boilerplate words stripped from branch names before
// comparison. "BPI Ayala Branch" and "Ayala" must canonicalize equal.
var stopTokens = map[string]struct{}{
	"bpi":    {},
	"branch": {},
	"office": {},
	"center": {},
	"the":    {},
	"and":    {},
	"of":     {},
	"in":     {},
	"at":     {},
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize derives the canonical comparison key for a raw branch name:
// lower-cased, stop tokens removed, punctuation collapsed to single
// spaces, trimmed. Normalize is idempotent and maps empty input to empty
// output.
func Normalize(raw string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(raw), " ")
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, w := range fields {
		if _, stop := stopTokens[w]; !stop {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
