package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/stop-insights/internal/domain"
	"github.com/pkordes/stop-insights/internal/repo"
)

type importCmd struct {
	File string `arg:"" type:"existingfile" help:"CSV file with a header row of traffic_stops column names."`
}

func (c importCmd) Run(env *runEnv) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	stops, err := readStops(f)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	pool, err := env.pool()
	if err != nil {
		return err
	}
	defer pool.Close()

	tx, err := pool.Begin(env.ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(env.ctx) //nolint:errcheck

	stopRepo := repo.NewStopRepo(tx)
	for i, s := range stops {
		if _, err := stopRepo.Insert(env.ctx, s); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := tx.Commit(env.ctx); err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.out, "imported %d stop(s)\n", len(stops))
	return err
}

var errMissingHeader = errors.New("csv has no header row")

// readStops decodes CSV rows keyed by the header row. Unknown columns are
// ignored; empty cells are absent values.
func readStops(r io.Reader) ([]domain.TrafficStop, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errMissingHeader
	}
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var stops []domain.TrafficStop
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return stops, nil
		}
		if err != nil {
			return nil, err
		}
		s, err := parseStop(row{cols: cols, rec: rec})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		stops = append(stops, s)
	}
}

type row struct {
	cols map[string]int
	rec  []string
}

func (r row) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r row) str(name string) *string {
	v := r.get(name)
	if v == "" {
		return nil
	}
	return &v
}

func parseStop(r row) (domain.TrafficStop, error) {
	var s domain.TrafficStop
	var err error

	if v := r.get("id"); v != "" {
		if s.ID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return s, fmt.Errorf("id %q: %w", v, err)
		}
	}
	if s.StopDate, err = parseTime(r.get("stop_date"), "2006-01-02", "1/2/2006", "01/02/2006"); err != nil {
		return s, fmt.Errorf("stop_date: %w", err)
	}
	if v := r.get("stop_time"); v != "" {
		t := domain.ParseTimeOfDay(v)
		if !t.Clock {
			return s, fmt.Errorf("stop_time %q: not a clock time", v)
		}
		s.StopTime = &t
	}
	if v := r.get("driver_age"); v != "" {
		age, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, fmt.Errorf("driver_age %q: %w", v, err)
		}
		a := int(age)
		s.DriverAge = &a
	}
	for _, f := range []struct {
		name string
		dst  **domain.Indicator
	}{
		{"search_conducted", &s.SearchConducted},
		{"is_arrested", &s.IsArrested},
		{"drugs_related_stop", &s.DrugsRelatedStop},
	} {
		if *f.dst, err = parseIndicator(r.get(f.name)); err != nil {
			return s, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if s.Timestamp, err = parseTime(r.get("timestamp"), "2006-01-02 15:04:05", time.RFC3339, "2006-01-02T15:04:05"); err != nil {
		return s, fmt.Errorf("timestamp: %w", err)
	}

	s.CountryName = r.str("country_name")
	s.DriverGender = r.str("driver_gender")
	s.DriverRace = r.str("driver_race")
	s.Violation = r.str("violation")
	s.SearchType = r.str("search_type")
	s.StopOutcome = r.str("stop_outcome")
	s.StopDuration = r.str("stop_duration")
	s.VehicleNumber = r.str("vehicle_number")
	return s, nil
}

func parseTime(v string, layouts ...string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised value %q", v)
}

// parseIndicator accepts 0/1 integers and true/false spellings.
func parseIndicator(v string) (*domain.Indicator, error) {
	if v == "" {
		return nil, nil
	}
	var i domain.Indicator
	switch strings.ToLower(v) {
	case "true":
		i = true
	case "false":
		i = false
	default:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", v, err)
		}
		i = domain.IndicatorFromInt(n)
	}
	return &i, nil
}
