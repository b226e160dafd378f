package roles

import (
	"fmt"
	"strings"
)

// RoleNotFound is the literal value stored when the annotator cannot
// attribute a chunk to any cataloged role.
const RoleNotFound = "Role not found"

const annotationPrompt = `You classify sections of a policy document by the organizational role they describe responsibilities for.

Known roles:
<ROLES_LIST>

You will be given one document chunk as a JSON object. Its "header" is the section number, "title" is the heading text on the header line, "text" is the section body, and "preceding_header_ids" are the ancestor section numbers that scope it.

Respond with ONLY the single role name (exactly as listed above, including its abbreviation if shown) that the chunk assigns responsibilities to. If no listed role fits, respond with exactly: ` + RoleNotFound

// BuildRolePrompt assembles the full annotation prompt for one chunk
// record, substituting the role catalog into the template.
func BuildRolePrompt(catalog []Role, chunkJSON string) string {
	instructions := strings.Replace(annotationPrompt, "<ROLES_LIST>", FormatForPrompt(catalog), 1)

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	fmt.Fprintln(&sb, chunkJSON)
	return sb.String()
}
