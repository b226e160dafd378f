package section

import (
	"regexp"
	"strings"
)

// Mode selects which numbering grammar the Matcher applies.
type Mode int

const (
	// ModeStrict requires a literal dot after the first numeric group
	// (e.g. "1.", "12.", "A1."). Used when separating true headers from
	// body text that merely starts with a number.
	ModeStrict Mode = iota
	// ModeLoose requires at least two numeric components (e.g. "1.2",
	// "A1.1.1.") and rejects a bare "1". Used by the line-folding pass,
	// where a lone number at line start is almost always prose.
	ModeLoose
)

var (
	strictRe = regexp.MustCompile(`(?m)^(A?\d{1,2}\.(?:\d{1,2}\.?)*)[ \t]*(.*)$`)
	looseRe  = regexp.MustCompile(`(?m)^(A?\d{1,2}(?:\.\d{1,2}){1,3}\.?)[ \t]*(.*)$`)
)

// Matcher recognizes section-number tokens at the start of a line.
type Matcher struct {
	re   *regexp.Regexp
	mode Mode
}

func NewMatcher(mode Mode) *Matcher {
	re := strictRe
	if mode == ModeLoose {
		re = looseRe
	}
	return &Matcher{re: re, mode: mode}
}

func (m *Matcher) Mode() Mode { return m.mode }

// Match is one header occurrence within the scanned text.
type Match struct {
	Raw       string // token as captured, trailing punctuation intact
	Canonical string // token with trailing separators stripped
	Title     string // remainder of the header line
	Start     int    // byte offset of the token in the scanned text
	End       int    // byte offset just past the end of the header line
}

// MatchLine reports whether a single line begins with a section-number
// token. The false return is the common case for body text, not an error.
func (m *Matcher) MatchLine(line string) (Match, bool) {
	sub := m.re.FindStringSubmatchIndex(line)
	if sub == nil || sub[0] != 0 {
		return Match{}, false
	}
	raw := line[sub[2]:sub[3]]
	return Match{
		Raw:       raw,
		Canonical: Canonicalize(raw),
		Title:     strings.TrimSpace(line[sub[4]:sub[5]]),
		Start:     sub[0],
		End:       sub[1],
	}, true
}

// FindAll scans the whole text and returns every header occurrence in
// document order. A nil result means no headers were found.
func (m *Matcher) FindAll(text string) []Match {
	subs := m.re.FindAllStringSubmatchIndex(text, -1)
	if subs == nil {
		return nil
	}
	matches := make([]Match, 0, len(subs))
	for _, sub := range subs {
		raw := text[sub[2]:sub[3]]
		matches = append(matches, Match{
			Raw:       raw,
			Canonical: Canonicalize(raw),
			Title:     strings.TrimSpace(text[sub[4]:sub[5]]),
			Start:     sub[0],
			End:       sub[1],
		})
	}
	return matches
}

// Canonicalize strips trailing separators from a matched token so it can
// serve as a stable key ("1.2." -> "1.2").
func Canonicalize(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), ".")
}
