package http

import (
	"encoding/json"
	"net/http"

	"backoffice/internal/services"
)

func (s *Server) handleCreateDraw(w http.ResponseWriter, r *http.Request) {
	var in services.CreateDrawInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	if _, err := s.draws.CreateDraw(r.Context(), in); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateRequestTags(r)
	respondSuccess(w, http.StatusCreated, "Draw created successfully")
}

func (s *Server) handleListDraws(w http.ResponseWriter, r *http.Request) {
	draws, err := s.draws.ListDraws(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, draws)
}

func (s *Server) handleDeleteDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid draw ID"})
		return
	}

	if err := s.draws.DeleteDraw(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateRequestTags(r)
	respondSuccess(w, http.StatusOK, "Draw deleted successfully")
}
