package assemble

import (
	"strings"

	"github.com/dgallion1/filingqa/internal/segment"
)

// NoRelevantContent is returned when no sections were selected. Callers must
// not forward it to the answering model.
const NoRelevantContent = "No relevant information found in the document."

// Context concatenates the selected sections in rank order under a hard
// character budget: each section's content is truncated to perSectionCap
// runes, sections are joined with a blank line, and the joined result is
// truncated to globalCap runes. The final cut is hard and may end mid-word.
func Context(selected []segment.Section, perSectionCap, globalCap int) string {
	if len(selected) == 0 {
		return NoRelevantContent
	}

	parts := make([]string, 0, len(selected))
	for _, sec := range selected {
		parts = append(parts, "SECTION: "+sec.Title+"\n"+truncateRunes(sec.Content, perSectionCap))
	}

	return truncateRunes(strings.Join(parts, "\n\n"), globalCap)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
