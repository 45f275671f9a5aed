package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/stop-insights/internal/domain"
	"github.com/pkordes/stop-insights/spec"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

type chartBar struct {
	Label   string
	Count   int64
	Percent int
}

type field struct {
	Name  string
	Value string
}

// dashboardView is everything the dashboard template renders.
type dashboardView struct {
	DatabaseError string

	Summary SummaryResponse
	Chart   []chartBar

	Questions    []string
	Question     string
	Result       *ResultTableResponse
	InsightError string

	LookupID    string
	Stop        []field
	Narrative   string
	LookupError string

	Columns []string
	Records [][]string
}

// GetDashboard handles GET /.
// It renders the whole dashboard server-side. ?question= runs one catalog
// query and ?id= shows a single record with its narrative.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := dashboardView{Columns: csvHeaders}
	status := http.StatusOK

	if err := s.fillDataset(ctx, &view); err != nil {
		slog.ErrorContext(ctx, "dashboard: load dataset", "error", err)
		view.DatabaseError = "Cannot load traffic stops: the database is unreachable."
		status = http.StatusServiceUnavailable
	} else {
		s.fillInsight(ctx, &view, r.URL.Query().Get("question"))
		s.fillLookup(ctx, &view, r.URL.Query().Get("id"))
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, view); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) fillDataset(ctx context.Context, view *dashboardView) error {
	records, err := s.dataset.Records(ctx)
	if err != nil {
		return err
	}
	sum, err := s.dataset.Summary(ctx)
	if err != nil {
		return err
	}
	counts, err := s.dataset.ViolationCounts(ctx)
	if err != nil {
		return err
	}

	view.Summary = SummaryResponse{
		TotalRecords: sum.TotalRecords,
		Arrests:      sum.Arrests,
		DrugRelated:  sum.DrugRelated,
		Searches:     sum.Searches,
	}
	view.Chart = chartBars(counts)
	view.Records = make([][]string, len(records))
	for i, rec := range records {
		view.Records[i] = stopToCSVRecord(rec)
	}
	view.Questions = s.insights.Questions()
	return nil
}

func (s *Server) fillInsight(ctx context.Context, view *dashboardView, question string) {
	if question == "" {
		return
	}
	view.Question = question
	table, err := s.insights.Run(ctx, question)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			view.InsightError = "That question is not in the catalog."
			return
		}
		slog.ErrorContext(ctx, "dashboard: run insight", "question", question, "error", err)
		view.InsightError = "The query could not be executed."
		return
	}
	resp := tableToResponse(question, table)
	view.Result = &resp
}

func (s *Server) fillLookup(ctx context.Context, view *dashboardView, rawID string) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return
	}
	view.LookupID = rawID
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id < 1 {
		view.LookupError = "ID must be a positive whole number."
		return
	}

	stop, text, err := s.narratives.ForRecord(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			view.LookupError = "ID not found."
			return
		}
		slog.ErrorContext(ctx, "dashboard: lookup", "id", id, "error", err)
		view.LookupError = "The record could not be loaded."
		return
	}

	values := stopToCSVRecord(stop)
	view.Stop = make([]field, len(csvHeaders))
	for i, name := range csvHeaders {
		view.Stop[i] = field{Name: name, Value: values[i]}
	}
	view.Narrative = text
}

// chartBars scales counts relative to the largest bar.
func chartBars(counts []domain.CategoryCount) []chartBar {
	var top int64
	for _, c := range counts {
		if c.Count > top {
			top = c.Count
		}
	}
	bars := make([]chartBar, len(counts))
	for i, c := range counts {
		bars[i] = chartBar{Label: c.Label, Count: c.Count}
		if top > 0 {
			bars[i].Percent = int(c.Count * 100 / top)
		}
	}
	return bars
}

// GetOpenAPI handles GET /openapi.yaml, serving the embedded API description.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
