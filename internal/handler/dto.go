package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/stop-insights/internal/domain"
)

// StopResponse is the JSON shape of one traffic stop. Absent values are
// encoded as null; indicator columns keep their 0/1 encoding.
type StopResponse struct {
	ID               int64               `json:"id"`
	StopDate         *openapi_types.Date `json:"stop_date"`
	StopTime         *string             `json:"stop_time"`
	CountryName      *string             `json:"country_name"`
	DriverGender     *string             `json:"driver_gender"`
	DriverAge        *int                `json:"driver_age"`
	DriverRace       *string             `json:"driver_race"`
	Violation        *string             `json:"violation"`
	SearchConducted  *int64              `json:"search_conducted"`
	SearchType       *string             `json:"search_type"`
	StopOutcome      *string             `json:"stop_outcome"`
	IsArrested       *int64              `json:"is_arrested"`
	StopDuration     *string             `json:"stop_duration"`
	DrugsRelatedStop *int64              `json:"drugs_related_stop"`
	VehicleNumber    *string             `json:"vehicle_number"`
	Timestamp        *time.Time          `json:"timestamp"`
}

// NarrativeResponse is the body of both narrative endpoints.
type NarrativeResponse struct {
	ID        *int64 `json:"id,omitempty"`
	Narrative string `json:"narrative"`
}

// SummaryResponse is the body of GET /summary.
type SummaryResponse struct {
	TotalRecords int64 `json:"total_records"`
	Arrests      int64 `json:"arrests"`
	DrugRelated  int64 `json:"drug_related"`
	Searches     int64 `json:"searches"`
}

// CategoryCountResponse is one bar of GET /charts/violations.
type CategoryCountResponse struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// QuestionListResponse is the body of GET /insights.
type QuestionListResponse struct {
	Questions []string `json:"questions"`
}

// RunInsightRequest is the body of POST /insights/run.
type RunInsightRequest struct {
	Question string `json:"question"`
}

// ResultTableResponse is the body of POST /insights/run.
type ResultTableResponse struct {
	Question string   `json:"question"`
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
}

// NarrativeRequest is the edited record posted to POST /narratives. Every
// field is optional and read leniently: a value of the wrong JSON type is
// treated as absent instead of failing the request.
type NarrativeRequest struct {
	StopDate         formValue `json:"stop_date"`
	StopTime         formValue `json:"stop_time"`
	CountryName      formValue `json:"country_name"`
	DriverGender     formValue `json:"driver_gender"`
	DriverAge        formValue `json:"driver_age"`
	DriverRace       formValue `json:"driver_race"`
	Violation        formValue `json:"violation"`
	SearchConducted  formValue `json:"search_conducted"`
	SearchType       formValue `json:"search_type"`
	StopOutcome      formValue `json:"stop_outcome"`
	IsArrested       formValue `json:"is_arrested"`
	StopDuration     formValue `json:"stop_duration"`
	DrugsRelatedStop formValue `json:"drugs_related_stop"`
	VehicleNumber    formValue `json:"vehicle_number"`
	Timestamp        formValue `json:"timestamp"`
}

// formValue captures a JSON string or number as text. null, booleans,
// arrays and objects leave it unset.
type formValue struct {
	text string
	set  bool
}

// UnmarshalJSON never returns an error, so one bad field cannot reject the form.
func (f *formValue) UnmarshalJSON(b []byte) error {
	*f = formValue{}
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0:
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			f.text, f.set = s, true
		}
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		f.text, f.set = string(b), true
	}
	return nil
}

func (f formValue) str() *string {
	if !f.set || strings.TrimSpace(f.text) == "" {
		return nil
	}
	s := f.text
	return &s
}

func (f formValue) integer() (int64, bool) {
	if !f.set {
		return 0, false
	}
	s := strings.TrimSpace(f.text)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	// Number inputs may post 34.0.
	if x, err := strconv.ParseFloat(s, 64); err == nil && x == float64(int64(x)) {
		return int64(x), true
	}
	return 0, false
}

func (f formValue) age() *int {
	n, ok := f.integer()
	if !ok || n < 0 {
		return nil
	}
	a := int(n)
	return &a
}

// indicator applies the exact-1 rule; unreadable values are absent.
func (f formValue) indicator() *domain.Indicator {
	n, ok := f.integer()
	if !ok {
		return nil
	}
	i := domain.IndicatorFromInt(n)
	return &i
}

func (f formValue) date() *time.Time {
	s := f.str()
	if s == nil {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

func (f formValue) timestamp() *time.Time {
	s := f.str()
	if s == nil {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			return &t
		}
	}
	return nil
}

func (f formValue) timeOfDay() *domain.TimeOfDay {
	s := f.str()
	if s == nil {
		return nil
	}
	t := domain.ParseTimeOfDay(*s)
	return &t
}

// toDomain converts the form into a record. ID is left zero.
func (req NarrativeRequest) toDomain() domain.TrafficStop {
	return domain.TrafficStop{
		StopDate:         req.StopDate.date(),
		StopTime:         req.StopTime.timeOfDay(),
		CountryName:      req.CountryName.str(),
		DriverGender:     req.DriverGender.str(),
		DriverAge:        req.DriverAge.age(),
		DriverRace:       req.DriverRace.str(),
		Violation:        req.Violation.str(),
		SearchConducted:  req.SearchConducted.indicator(),
		SearchType:       req.SearchType.str(),
		StopOutcome:      req.StopOutcome.str(),
		IsArrested:       req.IsArrested.indicator(),
		StopDuration:     req.StopDuration.str(),
		DrugsRelatedStop: req.DrugsRelatedStop.indicator(),
		VehicleNumber:    req.VehicleNumber.str(),
		Timestamp:        req.Timestamp.timestamp(),
	}
}

// stopToResponse converts a domain.TrafficStop into its JSON shape.
func stopToResponse(s domain.TrafficStop) StopResponse {
	resp := StopResponse{
		ID:               s.ID,
		CountryName:      s.CountryName,
		DriverGender:     s.DriverGender,
		DriverAge:        s.DriverAge,
		DriverRace:       s.DriverRace,
		Violation:        s.Violation,
		SearchConducted:  indicatorInt(s.SearchConducted),
		SearchType:       s.SearchType,
		StopOutcome:      s.StopOutcome,
		IsArrested:       indicatorInt(s.IsArrested),
		StopDuration:     s.StopDuration,
		DrugsRelatedStop: indicatorInt(s.DrugsRelatedStop),
		VehicleNumber:    s.VehicleNumber,
		Timestamp:        s.Timestamp,
	}
	if s.StopDate != nil {
		resp.StopDate = &openapi_types.Date{Time: *s.StopDate}
	}
	if s.StopTime != nil {
		t := s.StopTime.String()
		resp.StopTime = &t
	}
	return resp
}

func indicatorInt(i *domain.Indicator) *int64 {
	if i == nil {
		return nil
	}
	v := i.Int()
	return &v
}
