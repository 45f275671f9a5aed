package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/stop-insights/internal/domain"
)

// csvHeaders defines the column names written as the first row of a CSV
// dataset download. They match the traffic_stops column names.
var csvHeaders = []string{
	"id", "stop_date", "stop_time", "country_name", "driver_gender", "driver_age",
	"driver_race", "violation", "search_conducted", "search_type", "stop_outcome",
	"is_arrested", "stop_duration", "drugs_related_stop", "vehicle_number", "timestamp",
}

// ListStops handles GET /stops.
// It returns the complete cached dataset. Use ?format=csv to receive CSV;
// default is JSON.
func (s *Server) ListStops(w http.ResponseWriter, r *http.Request) {
	records, err := s.dataset.Records(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, records)
		return
	}

	out := make([]StopResponse, len(records))
	for i, rec := range records {
		out[i] = stopToResponse(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetStop handles GET /stops/{id}.
func (s *Server) GetStop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	stop, err := s.dataset.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "stop not found")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stopToResponse(stop))
}

// GetStopNarrative handles GET /stops/{id}/narrative.
func (s *Server) GetStopNarrative(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	stop, text, err := s.narratives.ForRecord(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "stop not found")
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NarrativeResponse{ID: &stop.ID, Narrative: text})
}

// pathID parses the {id} URL parameter, writing a 422 if it is not a
// positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		badRequest(w, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeCSV encodes records as CSV with csvHeaders as the first row.
// Absent values are written as empty cells.
func writeCSV(w http.ResponseWriter, records []domain.TrafficStop) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, rec := range records {
		//nolint:errcheck
		cw.Write(stopToCSVRecord(rec))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="traffic_stops.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// stopToCSVRecord flattens a record in csvHeaders order.
func stopToCSVRecord(s domain.TrafficStop) []string {
	resp := stopToResponse(s)
	date := ""
	if resp.StopDate != nil {
		date = resp.StopDate.String()
	}
	ts := ""
	if s.Timestamp != nil {
		ts = s.Timestamp.Format("2006-01-02 15:04:05")
	}
	return []string{
		strconv.FormatInt(s.ID, 10),
		date,
		deref(resp.StopTime),
		deref(s.CountryName),
		deref(s.DriverGender),
		optionalInt(intPtr64(s.DriverAge)),
		deref(s.DriverRace),
		deref(s.Violation),
		optionalInt(resp.SearchConducted),
		deref(s.SearchType),
		deref(s.StopOutcome),
		optionalInt(resp.IsArrested),
		deref(s.StopDuration),
		optionalInt(resp.DrugsRelatedStop),
		deref(s.VehicleNumber),
		ts,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intPtr64(i *int) *int64 {
	if i == nil {
		return nil
	}
	v := int64(*i)
	return &v
}

func optionalInt(i *int64) string {
	if i == nil {
		return ""
	}
	return strconv.FormatInt(*i, 10)
}
