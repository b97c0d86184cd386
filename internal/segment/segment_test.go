package segment

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSplit_TwoHeadings(t *testing.T) {
	s := Default()
	sections := s.Split("Item 1.\nHello\nPART II\nWorld\n")

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if !strings.HasPrefix(sections[0].Title, "Item 1.") {
		t.Errorf("section 0 title: expected prefix %q, got %q", "Item 1.", sections[0].Title)
	}
	if !strings.Contains(sections[0].Content, "Hello") {
		t.Errorf("section 0 content missing %q: %q", "Hello", sections[0].Content)
	}
	if !strings.HasPrefix(sections[1].Title, "PART II") {
		t.Errorf("section 1 title: expected prefix %q, got %q", "PART II", sections[1].Title)
	}
	if !strings.Contains(sections[1].Content, "World") {
		t.Errorf("section 1 content missing %q: %q", "World", sections[1].Content)
	}
}

func TestSplit_NoHeadings(t *testing.T) {
	s := Default()
	sections := s.Split("Just some text.\nMore text.\n")

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != DefaultTitle {
		t.Errorf("expected title %q, got %q", DefaultTitle, sections[0].Title)
	}
	if !strings.Contains(sections[0].Content, "Just some text.") {
		t.Errorf("content missing input text: %q", sections[0].Content)
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	s := Default()
	if got := s.Split(""); len(got) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(got))
	}
	if got := s.Split("   \n\n  \t\n"); len(got) != 0 {
		t.Errorf("expected 0 sections for whitespace input, got %d", len(got))
	}
}

func TestSplit_IntroductionBeforeFirstHeading(t *testing.T) {
	s := Default()
	sections := s.Split("Preamble text here.\nItem 1. Business\nContent of item one.\n")

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Title != DefaultTitle {
		t.Errorf("expected first section titled %q, got %q", DefaultTitle, sections[0].Title)
	}
	if sections[1].Title != "Item 1. Business" {
		t.Errorf("expected heading line as title, got %q", sections[1].Title)
	}
	// The heading line itself starts the new section's content.
	if !strings.HasPrefix(sections[1].Content, "Item 1. Business") {
		t.Errorf("expected content to begin with heading line, got %q", sections[1].Content)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := Default()
	input := "Item 1.\nAlpha\nRisk Factors\nBeta\nCONSOLIDATED STATEMENTS of operations\nGamma\n"
	a := s.Split(input)
	b := s.Split(input)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("segmentation not deterministic:\n%v\n%v", a, b)
	}
}

func TestSplit_TitleTruncatedAt100(t *testing.T) {
	s := Default()
	long := "Item 1. " + strings.Repeat("x", 200)
	sections := s.Split(long + "\nbody\n")

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if got := len([]rune(sections[0].Title)); got != MaxTitleLen {
		t.Errorf("expected title of %d runes, got %d", MaxTitleLen, got)
	}
	// Content keeps the full heading line.
	if !strings.HasPrefix(sections[0].Content, long) {
		t.Errorf("content should start with full heading line")
	}
}

func TestSplit_CaseInsensitiveMatching(t *testing.T) {
	s := Default()
	sections := s.Split("intro\nrisk factors\nsome risks\n")

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[1].Title != "risk factors" {
		t.Errorf("expected lowercase heading matched, got title %q", sections[1].Title)
	}
}

func TestSplit_ApostropheVariants(t *testing.T) {
	s := Default()
	for _, line := range []string{
		"Management's Discussion and Analysis",
		"Management\u2019s Discussion and Analysis",
	} {
		sections := s.Split("intro\n" + line + "\nanalysis body\n")
		if len(sections) != 2 {
			t.Fatalf("%q: expected 2 sections, got %d", line, len(sections))
		}
		if sections[1].Title != line {
			t.Errorf("%q: not detected as heading", line)
		}
	}
}

func TestSplit_WhitespaceOnlySectionDropped(t *testing.T) {
	s := Default()
	// Two consecutive headings: the first section holds only its heading line,
	// which is non-whitespace, so both survive; a heading directly at the start
	// produces no empty Introduction.
	sections := s.Split("Item 1.\nItem 2.\ncontent\n")
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Title != "Item 1." || sections[0].Content != "Item 1." {
		t.Errorf("unexpected first section: %+v", sections[0])
	}
}

func TestNew_BadPattern(t *testing.T) {
	if _, err := New([]string{`[unclosed`}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")
	yaml := "patterns:\n  - 'Chapter \\d+'\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := FromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sections := s.Split("intro\nChapter 1\nonce upon a time\n")
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[1].Title != "Chapter 1" {
		t.Errorf("expected custom pattern to match, got %q", sections[1].Title)
	}
}

func TestFromFile_EmptyPathUsesDefaults(t *testing.T) {
	s, err := FromFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Split("Item 1.\nbody\n"); len(got) != 1 {
		t.Errorf("expected default patterns to apply, got %d sections", len(got))
	}
}

func TestFromFile_MissingFile(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
