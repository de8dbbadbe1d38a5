package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"backoffice/internal/services"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in services.CreateExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	if _, err := s.expenses.CreateExpense(r.Context(), in); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateRequestTags(r)
	respondSuccess(w, http.StatusCreated, "Expense created successfully")
}

// handleImportExpenses accepts a CSV upload, either as a multipart form
// with a "file" field or as a raw request body.
func (s *Server) handleImportExpenses(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = r.Body

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Missing file upload"})
			return
		}
		defer file.Close()
		body = file
	}

	n, err := s.expenses.ImportExpenses(r.Context(), body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateRequestTags(r)
	respondSuccess(w, http.StatusCreated, fmt.Sprintf("Imported %d expenses", n))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListExpenses(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid expense ID"})
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateRequestTags(r)
	respondSuccess(w, http.StatusOK, "Expense deleted successfully")
}
