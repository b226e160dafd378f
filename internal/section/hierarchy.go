package section

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidToken reports a token the hierarchy grammar cannot split.
// The Matcher's grammar should make this unreachable for matched tokens,
// so hitting it indicates an internal inconsistency, not bad input.
var ErrInvalidToken = errors.New("invalid section token")

// Hierarchy describes where a canonical token sits in the numbering tree.
type Hierarchy struct {
	Level    int      // number of separator-delimited parts
	Parent   string   // immediate ancestor token, "" at level 1
	Ancestry []string // increasingly-long prefixes, root to parent
}

// Resolve derives level, parent and ancestry from a canonical token.
// Pure function; the letter prefix is carried literally, so "A1.2"
// resolves to parent "A1", not "1".
func Resolve(token string) (Hierarchy, error) {
	if token == "" {
		return Hierarchy{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	parts := strings.Split(token, ".")
	for _, p := range parts {
		if p == "" {
			return Hierarchy{}, fmt.Errorf("%w: %q has an empty part", ErrInvalidToken, token)
		}
	}

	h := Hierarchy{Level: len(parts)}
	if h.Level > 1 {
		h.Parent = strings.Join(parts[:len(parts)-1], ".")
		h.Ancestry = make([]string, 0, h.Level-1)
		for i := 1; i < h.Level; i++ {
			h.Ancestry = append(h.Ancestry, strings.Join(parts[:i], "."))
		}
	}
	return h, nil
}
