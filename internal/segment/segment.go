package segment

import (
	"fmt"
	"regexp"
	"strings"
)

// Section is a titled, contiguous span of document text.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DefaultTitle is assigned to text that precedes the first detected heading.
const DefaultTitle = "Introduction"

// MaxTitleLen caps section titles, in runes.
const MaxTitleLen = 100

// DefaultPatterns are the heading patterns for SEC-style filings, in priority
// order. The first matching pattern wins for a given line.
var DefaultPatterns = []string{
	`Item \d+\.`,
	`PART [IVX]+`,
	`Table of Contents`,
	`CONSOLIDATED STATEMENTS`,
	`Notes to Consolidated`,
	`Risk Factors`,
	`Management.s Discussion`,
}

// Segmenter splits extracted text into titled sections using an ordered set
// of heading patterns, matched case-insensitively.
type Segmenter struct {
	patterns []*regexp.Regexp
}

// New compiles the given patterns into a Segmenter. Patterns are tried in
// the order given.
func New(patterns []string) (*Segmenter, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Segmenter{patterns: compiled}, nil
}

// Default returns a Segmenter with the built-in filing patterns.
func Default() *Segmenter {
	s, err := New(DefaultPatterns)
	if err != nil {
		panic(err) // DefaultPatterns are compile-checked by tests.
	}
	return s
}

// Split scans text line by line and produces the ordered section sequence.
// Blank lines are skipped. A line matching any heading pattern finalizes the
// in-progress section (if it has non-whitespace content) and starts a new one
// titled with that line, truncated to MaxTitleLen runes. Sections with only
// whitespace content are never emitted.
func (s *Segmenter) Split(text string) []Section {
	var sections []Section
	title := DefaultTitle
	var content strings.Builder

	flush := func() {
		body := strings.TrimSpace(content.String())
		if body != "" {
			sections = append(sections, Section{Title: title, Content: body})
		}
		content.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if s.isHeading(line) {
			flush()
			title = truncateRunes(line, MaxTitleLen)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}
	flush()

	return sections
}

func (s *Segmenter) isHeading(line string) bool {
	for _, re := range s.patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
