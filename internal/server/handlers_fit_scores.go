package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kickinn/kickinn-api/internal/fitscore"
	"github.com/kickinn/kickinn-api/internal/server/middleware"
	"github.com/kickinn/kickinn-api/internal/types"
)

// maxBodyBytes caps POST /fit-scores request bodies.
const maxBodyBytes = 1 << 20

// handleScore computes or returns the cached fit score for the caller
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, middleware.MessageUnauthorized)
		return
	}

	var req types.FitScoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.service.Score(r.Context(), userID, &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.FitScoreResponse{
		Success:  true,
		FitScore: res.Score,
		Cached:   res.Cached,
	})
}

// handleListFitScores lists the caller's stored scores, newest first
func (s *Server) handleListFitScores(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, middleware.MessageUnauthorized)
		return
	}

	limit := parseQueryInt(r, "limit", fitscore.DefaultListLimit, fitscore.MaxListLimit)

	scores, err := s.service.List(r.Context(), userID, limit)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"fitScores": scores,
		"count":     len(scores),
	})
}

// handleGetFitScore returns the caller's stored score for one opportunity
func (s *Server) handleGetFitScore(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, middleware.MessageUnauthorized)
		return
	}

	score, err := s.service.Get(r.Context(), userID, r.PathValue("opportunity_id"))
	if err != nil {
		if errors.Is(err, fitscore.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Fit score not found")
			return
		}
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"fitScore": score})
}

// handleGetProfile returns the caller's executor profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, middleware.MessageUnauthorized)
		return
	}

	profile, err := s.service.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, fitscore.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Executor profile not found")
			return
		}
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"profile": profile})
}

// parseQueryInt parses an integer query parameter with a default and maximum value
func parseQueryInt(r *http.Request, key string, defaultVal, maxVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return defaultVal
	}
	if n > maxVal {
		return maxVal
	}
	return n
}
