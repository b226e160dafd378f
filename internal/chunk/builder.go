// Package chunk turns ordered section records into stably-identified
// chunks annotated with the chain of ancestor headers open at the point
// each chunk is created.
package chunk

import (
	"fmt"
	"strings"

	"github.com/dgallion1/sectionize/internal/section"
)

// Chunk is a section record augmented with a stable identifier and the
// lineage open on the header stack when it was created. Field order
// matches the serialized record layout.
type Chunk struct {
	ID                 string   `json:"id"`
	Role               string   `json:"role"`
	Header             string   `json:"header"`
	Title              string   `json:"title"`
	Text               string   `json:"text"`
	PrecedingHeaderIDs []string `json:"preceding_header_ids"`
	PrecedingChunkIDs  []string `json:"preceding_chunk_ids"`
}

type stackEntry struct {
	header  string // header as captured, trailing punctuation intact
	depth   int    // separator part count of the canonical token
	chunkID string
}

// Build walks ordered section records maintaining a stack of open
// headers. For each record it pops entries whose depth is >= the
// record's own depth, snapshots the remaining stack as the chunk's
// lineage, then pushes the record's header. Depth comes from the token's
// own part count, never from stack position, so a malformed document
// can produce a lineage that numerically skips levels. That is
// intentional pass-through, not corrected here.
//
// Records without a resolvable hierarchy (the synthetic preamble, or
// flagged tokens) still become chunks, carrying the current stack as
// lineage, but do not join the stack themselves.
func Build(records []section.Record) []Chunk {
	if len(records) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, len(records))
	var stack []stackEntry

	for _, rec := range records {
		depth := rec.Level

		if depth >= 1 {
			for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
				stack = stack[:len(stack)-1]
			}
		}

		headerIDs := make([]string, 0, len(stack))
		chunkIDs := make([]string, 0, len(stack))
		for _, e := range stack {
			headerIDs = append(headerIDs, e.header)
			chunkIDs = append(chunkIDs, e.chunkID)
		}

		id := fmt.Sprintf("chunk_%03d", len(chunks)+1)
		chunks = append(chunks, Chunk{
			ID:                 id,
			Role:               "",
			Header:             rec.Raw,
			Title:              rec.Title,
			Text:               sectionText(rec),
			PrecedingHeaderIDs: headerIDs,
			PrecedingChunkIDs:  chunkIDs,
		})

		if depth >= 1 {
			stack = append(stack, stackEntry{header: rec.Raw, depth: depth, chunkID: id})
		}
	}

	return chunks
}

// FromText is the re-scan convenience: extract sections and build chunks
// in one pass over the same text.
func FromText(text string, opts section.Options) []Chunk {
	return Build(section.Extract(text, opts))
}

// Unstructured wraps an entire document in a single chunk. Callers use
// this as the fallback when no headers were recognized and "the whole
// input is one chunk" is the desired degradation.
func Unstructured(text string) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return []Chunk{{
		ID:                 "chunk_001",
		Header:             "",
		Text:               text,
		PrecedingHeaderIDs: []string{},
		PrecedingChunkIDs:  []string{},
	}}
}

func sectionText(rec section.Record) string {
	// A header whose title line carried text but whose body is empty
	// still contributes the title, so no captured text is lost.
	if rec.Content != "" {
		return rec.Content
	}
	return rec.Title
}
