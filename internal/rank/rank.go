package rank

import (
	"sort"
	"strings"

	"github.com/dgallion1/filingqa/internal/segment"
)

// financeTerms get a flat bonus when they appear in both the question and a
// section's content. Tuned for 10-K style filings.
var financeTerms = []string{
	"revenue", "income", "cost", "profit", "margin", "cash", "debt", "subscriber",
}

// minKeywordLen drops short stop-ish tokens ("is", "a", "of").
const minKeywordLen = 3

// ScoredSection pairs a section with its relevance score for one question.
type ScoredSection struct {
	Section segment.Section
	Score   int
}

// Keywords tokenizes a question by whitespace, lower-cases it and keeps
// tokens of at least minKeywordLen runes.
func Keywords(question string) []string {
	var keywords []string
	for _, tok := range strings.Fields(strings.ToLower(question)) {
		if len([]rune(tok)) >= minKeywordLen {
			keywords = append(keywords, tok)
		}
	}
	return keywords
}

// Score computes the relevance score of one section: 3 points per keyword
// occurrence in the title, 1 per occurrence in the content (substring counts,
// not word boundaries), plus 2 for each finance term present in both the
// question and the content.
func Score(sec segment.Section, question string) int {
	titleLower := strings.ToLower(sec.Title)
	contentLower := strings.ToLower(sec.Content)
	questionLower := strings.ToLower(question)

	score := 0
	for _, kw := range Keywords(question) {
		score += strings.Count(titleLower, kw) * 3
		score += strings.Count(contentLower, kw)
	}
	for _, term := range financeTerms {
		if strings.Contains(questionLower, term) && strings.Contains(contentLower, term) {
			score += 2
		}
	}
	return score
}

// Rank scores all sections against the question and returns up to topK
// sections in descending score order. Zero-scoring sections are excluded
// entirely. Ties keep the original document order, which decides what
// survives the context cap downstream.
func Rank(sections []segment.Section, question string, topK int) []segment.Section {
	scored := make([]ScoredSection, 0, len(sections))
	for _, sec := range sections {
		if s := Score(sec, question); s > 0 {
			scored = append(scored, ScoredSection{Section: sec, Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK > 0 && topK < len(scored) {
		scored = scored[:topK]
	}

	selected := make([]segment.Section, 0, len(scored))
	for _, s := range scored {
		selected = append(selected, s.Section)
	}
	return selected
}
