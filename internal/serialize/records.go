// Package serialize is the boundary between the core and its writers.
// Chunk bodies routinely contain literal braces, quotes and newlines;
// escaping them so they cannot be mistaken for record delimiters happens
// here, never inside the builder.
package serialize

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/sectionize/internal/chunk"
)

// ErrMalformedRecord reports a chunk body that cannot be round-tripped
// through the record format. The caller chooses an alternate strategy;
// content is never silently dropped.
var ErrMalformedRecord = errors.New("chunk body cannot be safely serialized")

const recordSeparator = "\n---\n\n"

// WriteRecords writes chunks in the record format consumed by the role
// annotation pass: one brace-delimited object per chunk, fields in the
// fixed order id, role, header, title, text, preceding_header_ids,
// preceding_chunk_ids, records separated by a "---" line.
func WriteRecords(w io.Writer, chunks []chunk.Chunk) error {
	for i, c := range chunks {
		if !utf8.ValidString(c.Text) {
			return fmt.Errorf("%w: %s contains invalid UTF-8", ErrMalformedRecord, c.ID)
		}

		text, err := json.Marshal(c.Text)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedRecord, c.ID, err)
		}
		headerIDs, err := json.Marshal(emptyIfNil(c.PrecedingHeaderIDs))
		if err != nil {
			return fmt.Errorf("marshal preceding headers for %s: %w", c.ID, err)
		}
		chunkIDs, err := json.Marshal(emptyIfNil(c.PrecedingChunkIDs))
		if err != nil {
			return fmt.Errorf("marshal preceding chunk ids for %s: %w", c.ID, err)
		}

		var sb strings.Builder
		sb.WriteString("{\n")
		fmt.Fprintf(&sb, "    \"id\": %s,\n", mustJSON(c.ID))
		fmt.Fprintf(&sb, "    \"role\": %s,\n", mustJSON(c.Role))
		fmt.Fprintf(&sb, "    \"header\": %s,\n", mustJSON(c.Header))
		fmt.Fprintf(&sb, "    \"title\": %s,\n", mustJSON(c.Title))
		fmt.Fprintf(&sb, "    \"text\": %s,\n", text)
		fmt.Fprintf(&sb, "    \"preceding_header_ids\": %s,\n", headerIDs)
		fmt.Fprintf(&sb, "    \"preceding_chunk_ids\": %s\n", chunkIDs)
		sb.WriteString("}\n")
		if i < len(chunks)-1 {
			sb.WriteString(recordSeparator)
		}

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("write record %s: %w", c.ID, err)
		}
	}
	return nil
}

// MarshalRecord renders a single chunk in the record format. This is
// the payload shape the role annotator receives.
func MarshalRecord(c chunk.Chunk) (string, error) {
	var sb strings.Builder
	if err := WriteRecords(&sb, []chunk.Chunk{c}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ReadRecords reconstructs chunks from a record stream by counting
// braces, skipping separator and blank lines between records.
func ReadRecords(r io.Reader) ([]chunk.Chunk, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var chunks []chunk.Chunk
	var current strings.Builder
	braces := 0
	inRecord := false

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if !inRecord {
			if trimmed == "" || strings.HasPrefix(trimmed, "---") {
				continue
			}
			if strings.HasPrefix(trimmed, "{") {
				inRecord = true
			} else {
				return nil, fmt.Errorf("unexpected content outside record: %q", trimmed)
			}
		}

		current.WriteString(line)
		current.WriteString("\n")
		braces += countUnquoted(line, '{') - countUnquoted(line, '}')

		if braces == 0 {
			var c chunk.Chunk
			if err := json.Unmarshal([]byte(current.String()), &c); err != nil {
				return nil, fmt.Errorf("decode record: %w", err)
			}
			chunks = append(chunks, c)
			current.Reset()
			inRecord = false
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if inRecord {
		return nil, fmt.Errorf("decode record: unterminated record at end of input")
	}
	return chunks, nil
}

// countUnquoted counts occurrences of b outside JSON string literals, so
// braces inside a chunk body never unbalance the record scan.
func countUnquoted(line string, b byte) int {
	count := 0
	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case ch == b && !inString:
			count++
		}
	}
	return count
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s) // marshaling a string cannot fail
	return string(b)
}
