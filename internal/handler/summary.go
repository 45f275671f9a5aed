package handler

import "net/http"

// GetSummary handles GET /summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.dataset.Summary(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{
		TotalRecords: sum.TotalRecords,
		Arrests:      sum.Arrests,
		DrugRelated:  sum.DrugRelated,
		Searches:     sum.Searches,
	})
}

// GetViolationChart handles GET /charts/violations.
// Bars are ordered most common first.
func (s *Server) GetViolationChart(w http.ResponseWriter, r *http.Request) {
	counts, err := s.dataset.ViolationCounts(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]CategoryCountResponse, len(counts))
	for i, c := range counts {
		out[i] = CategoryCountResponse{Label: c.Label, Count: c.Count}
	}
	writeJSON(w, http.StatusOK, out)
}
