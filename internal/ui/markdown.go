package ui

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// MigrationMarkdown describes a migration record and its SQL as markdown.
func MigrationMarkdown(m *domain.Migration, statements []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Migration %s\n\n", m.ID)
	fmt.Fprintf(&b, "Format version `%s`.\n\n", m.Version)

	b.WriteString("## Changes\n\n")
	if m.Diff.IsEmpty() {
		b.WriteString("_No changes._\n\n")
	} else {
		b.WriteString("```\n")
		b.WriteString(RenderDiff(m.Diff))
		b.WriteString("```\n\n")
	}

	if len(statements) > 0 {
		b.WriteString("## SQL\n\n```sql\n")
		for _, s := range statements {
			b.WriteString(s)
			b.WriteString(";\n")
		}
		b.WriteString("```\n")
	}
	return b.String()
}
