package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "dining-recommender/internal/common/errors"
	"dining-recommender/internal/models"
	"dining-recommender/internal/recommender"
)

const maxBodyBytes = 64 << 10

type ChatRequest struct {
	Message string `json:"message"`
	City    string `json:"city,omitempty"`
	TopN    int    `json:"top_n,omitempty"`
}

type SwapRequest struct {
	ExcludeRestaurant string   `json:"exclude_restaurant"`
	ExcludeAll        []string `json:"exclude_all"`
	City              string   `json:"city"`
	Query             string   `json:"query,omitempty"`
	TopN              int      `json:"top_n,omitempty"`
}

// ChatResponse carries the ranked list plus the same list split by status.
type ChatResponse struct {
	Response    string                `json:"response"`
	ParsedQuery models.ParsedQuery    `json:"parsed_query"`
	Results     []models.RankedResult `json:"results"`
	Tried       []models.RankedResult `json:"tried"`
	Want        []models.RankedResult `json:"want"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidQuery, "message is required")
		return
	}
	if req.TopN < 0 {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "top_n must not be negative")
		return
	}

	rec, err := s.ranker.Recommend(r.Context(), recommender.Request{
		Query: req.Message,
		TopN:  req.TopN,
		City:  req.City,
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newChatResponse(rec))
}

// handleSwap reruns the last query without the restaurants already shown.
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req SwapRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ExcludeRestaurant) == "" {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "exclude_restaurant is required")
		return
	}
	if strings.TrimSpace(req.City) == "" {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "city is required")
		return
	}
	if req.TopN < 0 {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "top_n must not be negative")
		return
	}

	exclude := append([]string{req.ExcludeRestaurant}, req.ExcludeAll...)
	rec, err := s.ranker.Recommend(r.Context(), recommender.Request{
		Query:        req.Query,
		TopN:         req.TopN,
		City:         req.City,
		ExcludeNames: exclude,
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newChatResponse(rec))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.options.Ready != nil {
		if err := s.options.Ready(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", map[string]interface{}{
				"requestId": RequestIDFromContext(r.Context()),
				"error":     err.Error(),
			})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func newChatResponse(rec *recommender.Recommendation) ChatResponse {
	resp := ChatResponse{
		Response:    responseText(rec.Results),
		ParsedQuery: rec.Query,
		Results:     rec.Results,
		Tried:       []models.RankedResult{},
		Want:        []models.RankedResult{},
	}
	for _, result := range rec.Results {
		if result.Status == models.StatusWantToTry {
			resp.Want = append(resp.Want, result)
		} else {
			resp.Tried = append(resp.Tried, result)
		}
	}
	return resp
}

func responseText(results []models.RankedResult) string {
	if len(results) == 0 {
		return "I couldn't find a spot that fits. Try another neighborhood or vibe."
	}

	var b strings.Builder
	b.WriteString("Here's what I'd pick:")
	for i, result := range results {
		place := result.Name
		if result.Neighborhood != "" {
			place += " (" + result.Neighborhood + ")"
		}
		fmt.Fprintf(&b, "\n%d. %s: %s", i+1, place, result.Explanation)
	}
	return b.String()
}
