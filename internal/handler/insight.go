package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/stop-insights/internal/domain"
)

// ListInsights handles GET /insights.
// Returns the catalog questions in display order.
func (s *Server) ListInsights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, QuestionListResponse{Questions: s.insights.Questions()})
}

// RunInsight handles POST /insights/run.
// The question must match a catalog entry exactly; anything else is a 404.
func (s *Server) RunInsight(w http.ResponseWriter, r *http.Request) {
	var req RunInsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body must be a JSON object")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		badRequest(w, "question is required")
		return
	}

	table, err := s.insights.Run(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "question not in catalog")
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tableToResponse(req.Question, table))
}

func tableToResponse(question string, t domain.ResultTable) ResultTableResponse {
	rows := t.Rows
	if rows == nil {
		rows = [][]any{}
	}
	return ResultTableResponse{Question: question, Columns: t.Columns, Rows: rows}
}
