package handler

import (
	"encoding/json"
	"net/http"
)

// CreateNarrative handles POST /narratives.
// The body is a record as edited in the dashboard form. The narrative is
// computed from the body alone; nothing is looked up or stored.
func (s *Server) CreateNarrative(w http.ResponseWriter, r *http.Request) {
	var req NarrativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body must be a JSON object")
		return
	}
	writeJSON(w, http.StatusOK, NarrativeResponse{Narrative: s.narratives.ForInput(req.toDomain())})
}
