package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// sampleQuestions seed the UI's suggestion list.
var sampleQuestions = []string{
	"What is the total revenue for the most recent fiscal year?",
	"What are the main revenue streams?",
	"How many subscribers does the company have?",
	"What are the biggest risk factors?",
	"What is the content spending?",
	"How much cash does the company have?",
	"What are the operating margins?",
	"What markets is the company expanding into?",
}

type analyzeRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	res, err := s.analyzer.Ask(r.Context(), question)
	if err != nil {
		s.log.Error("analyze failed", "error", err)
		jsonError(w, "document unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"question":            res.Question,
		"answer":              res.Answer,
		"sections_used":       res.SectionsUsed,
		"no_relevant_content": res.NoRelevantContent,
		"degraded":            res.Degraded,
		"processing_time":     res.Duration.Seconds(),
	})
}

func (s *Server) handleSampleQuestions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"questions": sampleQuestions})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.analyzer.Stats()
	w.Header().Set("Content-Type", "application/json")
	if !stats.Ready {
		json.NewEncoder(w).Encode(map[string]any{"status": "not_initialized"})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"total_sections":   stats.TotalSections,
		"total_characters": stats.TotalCharacters,
		"status":           "ready",
	})
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model": s.analyzer.ModelName(),
		"stats": s.analyzer.LLMStats().Snapshot(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
