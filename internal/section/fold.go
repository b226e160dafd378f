package section

import "strings"

// FoldLines re-joins a physical-line layout so that each section, the
// header plus all of its wrapped content lines, becomes a single
// logical line.
// Section starts are found with the loose grammar, which demands at least
// two numeric components so that prose beginning with a bare number is
// not treated as a header. When no section markers are found at all the
// entire text collapses to one line.
func FoldLines(raw string) string {
	if raw == "" {
		return ""
	}

	m := NewMatcher(ModeLoose)
	matches := m.FindAll(raw)
	if len(matches) == 0 {
		return collapse(raw)
	}

	var out []string

	if matches[0].Start > 0 {
		if pre := collapse(raw[:matches[0].Start]); pre != "" {
			out = append(out, pre)
		}
	}

	for i, cur := range matches {
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1].Start
		}
		if line := collapse(raw[cur.Start:end]); line != "" {
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}

func collapse(block string) string {
	return strings.TrimSpace(strings.ReplaceAll(block, "\n", " "))
}
