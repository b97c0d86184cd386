package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dgallion1/filingqa/internal/assemble"
	"github.com/dgallion1/filingqa/internal/config"
)

type fakeClient struct {
	mu       sync.Mutex
	calls    int
	lastCtx  string
	response string
	err      error
}

func (f *fakeClient) Model() string { return "fake-model" }

func (f *fakeClient) Answer(ctx context.Context, question, docContext string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCtx = docContext
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testConfig(t *testing.T, docContent string) config.Config {
	t.Helper()
	dir := t.TempDir()
	docPath := filepath.Join(dir, "filing.txt")
	if err := os.WriteFile(docPath, []byte(docContent), 0o644); err != nil {
		t.Fatal(err)
	}
	return config.Config{
		DocumentPath:     docPath,
		CachePath:        filepath.Join(dir, "cache.json"),
		MaxSections:      5,
		SectionCharLimit: 2000,
		ContextCharLimit: 8000,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const filing = "Introduction\nNetflix had great growth\nItem 7.\nRevenue was $39 billion in 2024\n"

func TestAsk_EndToEnd(t *testing.T) {
	client := &fakeClient{response: "Revenue was $39 billion."}
	a, err := New(testConfig(t, filing), client, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Ask(context.Background(), "What is the revenue?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answer != "Revenue was $39 billion." {
		t.Errorf("unexpected answer %q", res.Answer)
	}
	if res.SectionsUsed != 1 {
		t.Errorf("expected 1 section used, got %d", res.SectionsUsed)
	}
	if !strings.Contains(client.lastCtx, "SECTION: Item 7.") {
		t.Errorf("context missing selected section:\n%s", client.lastCtx)
	}
	if !strings.Contains(client.lastCtx, "$39 billion") {
		t.Errorf("context missing figure:\n%s", client.lastCtx)
	}
}

func TestAsk_NoRelevantContentSkipsModel(t *testing.T) {
	client := &fakeClient{response: "should not be called"}
	a, err := New(testConfig(t, filing), client, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Ask(context.Background(), "qqqqq zzzzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NoRelevantContent {
		t.Error("expected NoRelevantContent result")
	}
	if res.Answer != assemble.NoRelevantContent {
		t.Errorf("expected sentinel answer, got %q", res.Answer)
	}
	if client.calls != 0 {
		t.Errorf("answering model must not be invoked, got %d calls", client.calls)
	}
}

func TestAsk_DegradedAnswerOnModelFailure(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("rate limited")}
	a, err := New(testConfig(t, filing), client, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Ask(context.Background(), "What is the revenue?")
	if err != nil {
		t.Fatalf("model failure must not propagate as error: %v", err)
	}
	if !res.Degraded {
		t.Error("expected degraded result")
	}
	if !strings.Contains(res.Answer, "rate limited") {
		t.Errorf("degraded answer should carry the reason, got %q", res.Answer)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	a, err := New(testConfig(t, filing), &fakeClient{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Ask(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty question")
	}
}

func TestAsk_MissingDocument(t *testing.T) {
	cfg := testConfig(t, filing)
	cfg.DocumentPath = filepath.Join(t.TempDir(), "absent.txt")
	a, err := New(cfg, &fakeClient{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Ask(context.Background(), "revenue"); err == nil {
		t.Fatal("expected error when document cannot be loaded")
	}
}

func TestAsk_ServesPreviousAfterReloadFailure(t *testing.T) {
	cfg := testConfig(t, filing)
	client := &fakeClient{response: "ok"}
	a, err := New(cfg, client, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Load(); err != nil {
		t.Fatal(err)
	}

	// Document disappears, then a stale marker arrives.
	if err := os.Remove(cfg.DocumentPath); err != nil {
		t.Fatal(err)
	}
	a.stale.Store(true)

	res, err := a.Ask(context.Background(), "What is the revenue?")
	if err != nil {
		t.Fatalf("expected fallback to prior load, got error: %v", err)
	}
	if res.Answer != "ok" {
		t.Errorf("unexpected answer %q", res.Answer)
	}
}

func TestLoad_InitializesStats(t *testing.T) {
	a, err := New(testConfig(t, filing), &fakeClient{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if a.Stats().Ready {
		t.Error("stats should not be ready before load")
	}
	if err := a.Load(); err != nil {
		t.Fatal(err)
	}
	stats := a.Stats()
	if !stats.Ready {
		t.Error("stats should be ready after load")
	}
	if stats.TotalSections != 2 {
		t.Errorf("expected 2 sections, got %d", stats.TotalSections)
	}
	if stats.TotalCharacters != len(filing) {
		t.Errorf("expected %d chars, got %d", len(filing), stats.TotalCharacters)
	}
}

func TestAsk_ConcurrentQuestions(t *testing.T) {
	client := &fakeClient{response: "answer"}
	a, err := New(testConfig(t, filing), client, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := a.Ask(context.Background(), "What is the revenue?"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent ask failed: %v", err)
	}
}
