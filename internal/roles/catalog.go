// Package roles is the classification collaborator: it carries the
// catalog of organizational roles a document defines and fills the
// role field of chunks the core deliberately left empty.
package roles

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Role is one entry in the catalog, e.g. "Career Field Manager (CFM)".
type Role struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

var rolePairRe = regexp.MustCompile(`([A-Za-z][A-Za-z\s.,-]*?)\s+\(([A-Za-z0-9/-]{2,})\)`)

// ExtractCatalog scans the chapter that defines roles and
// responsibilities and collects "Role Name (ABBR)" pairs. Duplicate
// abbreviations keep the first name seen.
func ExtractCatalog(text string, chapter int) []Role {
	body := chapterText(text, chapter)
	if body == "" {
		return nil
	}

	pairs := rolePairRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]bool)
	var catalog []Role
	for _, pair := range pairs {
		name := strings.Join(strings.Fields(pair[1]), " ")
		abbr := strings.ToUpper(pair[2])
		if name == "" || seen[abbr] {
			continue
		}
		seen[abbr] = true
		catalog = append(catalog, Role{Name: name, Abbreviation: abbr})
	}
	return catalog
}

// chapterText slices the text between "Chapter N" and "Chapter N+1".
// When the closing marker is missing the chapter runs to end of text.
func chapterText(text string, chapter int) string {
	start := chapterMarker(chapter).FindStringIndex(text)
	if start == nil {
		return ""
	}
	rest := text[start[1]:]
	if end := chapterMarker(chapter + 1).FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return rest
}

func chapterMarker(n int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)Chapter[\s—-]+%d\b`, n))
}

// LoadCatalog reads a role catalog from a JSON file.
func LoadCatalog(path string) ([]Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}
	var catalog []Role
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode roles file: %w", err)
	}
	return catalog, nil
}

// FormatForPrompt renders the catalog as the bullet list the annotation
// prompt expects.
func FormatForPrompt(catalog []Role) string {
	var sb strings.Builder
	for i, r := range catalog {
		if i > 0 {
			sb.WriteString("\n")
		}
		if r.Abbreviation != "" {
			fmt.Fprintf(&sb, "- %s (%s)", r.Name, r.Abbreviation)
		} else {
			fmt.Fprintf(&sb, "- %s", r.Name)
		}
	}
	return sb.String()
}
