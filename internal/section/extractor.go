package section

import (
	"regexp"
	"strings"
)

// Page-break markers inserted by the text extraction stage. They are
// stripped before header scanning so a marker is never mistaken for a
// header and never splits a section's content.
var pageMarkerRe = regexp.MustCompile(`--- PAGE \d+ ---\n?`)

// Options controls section extraction.
type Options struct {
	// IncludePreamble attaches text found before the first header as a
	// synthetic level-0 record instead of discarding it.
	IncludePreamble bool
}

// Record is one header occurrence and its associated span of text.
// Records are immutable once created and ordered by document position.
type Record struct {
	Number   string   `json:"section_number"`          // canonical token, "" for the synthetic preamble
	Raw      string   `json:"raw_number"`              // token as captured, trailing punctuation intact
	Title    string   `json:"section_title"`           // text remaining on the header line, possibly empty
	Content  string   `json:"content"`                 // text strictly between this header line and the next header
	Level    int      `json:"level"`                   // count of numbering parts, 0 for preamble/flagged
	Parent   string   `json:"parent_number,omitempty"` // canonical token of the immediate ancestor, "" at level 1
	Ancestry []string `json:"ancestry"`                // ancestor tokens root to parent, len == Level-1
	Flagged  bool     `json:"flagged,omitempty"`       // hierarchy could not be resolved; record kept anyway
}

// Extract scans normalized text once and slices it into ordered section
// records using the strict grammar. Zero matches yields an empty result,
// never an error: unstructured documents are a valid outcome. Numbering
// is not validated for monotonicity or completeness: a document that
// jumps from 1.2 to 1.9 or repeats 2.1 produces literal records.
func Extract(text string, opts Options) []Record {
	if text == "" {
		return nil
	}
	cleaned := pageMarkerRe.ReplaceAllString(text, "")

	m := NewMatcher(ModeStrict)
	matches := m.FindAll(cleaned)
	if len(matches) == 0 {
		return nil
	}

	records := make([]Record, 0, len(matches)+1)

	if opts.IncludePreamble && matches[0].Start > 0 {
		pre := strings.TrimSpace(cleaned[:matches[0].Start])
		if pre != "" {
			records = append(records, Record{Content: pre})
		}
	}

	for i, cur := range matches {
		end := len(cleaned)
		if i+1 < len(matches) {
			end = matches[i+1].Start
		}
		content := strings.TrimSpace(cleaned[cur.End:end])

		rec := Record{
			Number:  cur.Canonical,
			Raw:     cur.Raw,
			Title:   cur.Title,
			Content: content,
		}
		h, err := Resolve(cur.Canonical)
		if err != nil {
			// Should be unreachable given the grammar; keep the record
			// rather than dropping content, but mark the lineage unknown.
			rec.Flagged = true
		} else {
			rec.Level = h.Level
			rec.Parent = h.Parent
			rec.Ancestry = h.Ancestry
		}
		records = append(records, rec)
	}

	return records
}
