package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/stop-insights/internal/domain"
)

// StopRepo defines the read operations over the traffic_stops table, plus the
// bulk insert used by the CSV importer.
type StopRepo interface {
	// List returns every row ordered by id.
	List(ctx context.Context) ([]domain.TrafficStop, error)

	// GetByID retrieves a single row by exact id.
	// Returns domain.ErrNotFound if no row has that id.
	GetByID(ctx context.Context, id int64) (domain.TrafficStop, error)

	// Insert stores a new row and returns it with its DB-generated id.
	// A non-zero stop.ID is used verbatim.
	Insert(ctx context.Context, stop domain.TrafficStop) (domain.TrafficStop, error)
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, stop_date, stop_time, country_name, driver_gender, driver_age,
		driver_race, violation, search_conducted, search_type, stop_outcome,
		is_arrested, stop_duration, drugs_related_stop, vehicle_number, "timestamp"`

// List returns the complete dataset ordered by id.
func (r *pgStopRepo) List(ctx context.Context) ([]domain.TrafficStop, error) {
	q := `SELECT ` + stopColumns + ` FROM traffic_stops ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.List: %w", err)
	}
	defer rows.Close()

	stops := []domain.TrafficStop{}
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.List: scan: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.List: rows: %w", err)
	}
	return stops, nil
}

// GetByID retrieves a row by primary key.
func (r *pgStopRepo) GetByID(ctx context.Context, id int64) (domain.TrafficStop, error) {
	q := `SELECT ` + stopColumns + ` FROM traffic_stops WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanStop(row)
	if err != nil {
		return domain.TrafficStop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", err)
	}
	return result, nil
}

// Insert stores stop. When stop.ID is zero the id comes from the sequence.
func (r *pgStopRepo) Insert(ctx context.Context, stop domain.TrafficStop) (domain.TrafficStop, error) {
	q := `
		INSERT INTO traffic_stops (id, stop_date, stop_time, country_name, driver_gender,
			driver_age, driver_race, violation, search_conducted, search_type, stop_outcome,
			is_arrested, stop_duration, drugs_related_stop, vehicle_number, "timestamp")
		VALUES (COALESCE(@id, nextval(pg_get_serial_sequence('traffic_stops', 'id'))),
			@stop_date, @stop_time, @country_name, @driver_gender, @driver_age, @driver_race,
			@violation, @search_conducted, @search_type, @stop_outcome, @is_arrested,
			@stop_duration, @drugs_related_stop, @vehicle_number, @timestamp)
		RETURNING ` + stopColumns

	var id *int64
	if stop.ID != 0 {
		id = &stop.ID
	}

	args := pgx.NamedArgs{
		"id":                 id,
		"stop_date":          dateArg(stop.StopDate),
		"stop_time":          timeArg(stop.StopTime),
		"country_name":       stop.CountryName,
		"driver_gender":      stop.DriverGender,
		"driver_age":         stop.DriverAge,
		"driver_race":        stop.DriverRace,
		"violation":          stop.Violation,
		"search_conducted":   indicatorArg(stop.SearchConducted),
		"search_type":        stop.SearchType,
		"stop_outcome":       stop.StopOutcome,
		"is_arrested":        indicatorArg(stop.IsArrested),
		"stop_duration":      stop.StopDuration,
		"drugs_related_stop": indicatorArg(stop.DrugsRelatedStop),
		"vehicle_number":     stop.VehicleNumber,
		"timestamp":          stop.Timestamp, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanStop(row)
	if err != nil {
		return domain.TrafficStop{}, fmt.Errorf("repo.StopRepo.Insert: %w", err)
	}

	// Explicit ids bypass the sequence; move it past them so later
	// sequence-assigned inserts do not collide.
	if id != nil {
		const sync = `
			SELECT setval(pg_get_serial_sequence('traffic_stops', 'id'),
			              GREATEST((SELECT MAX(id) FROM traffic_stops), 1))`
		if _, err := r.db.Exec(ctx, sync); err != nil {
			return domain.TrafficStop{}, fmt.Errorf("repo.StopRepo.Insert: sync sequence: %w", err)
		}
	}
	return result, nil
}

// scanStop maps a single database row into a domain.TrafficStop.
// NULL columns become nil fields; indicator columns go through
// domain.IndicatorFromInt so only a stored 1 reads as true.
func scanStop(s scanner) (domain.TrafficStop, error) {
	var (
		t         domain.TrafficStop
		stopDate  pgtype.Date
		stopTime  pgtype.Time
		country   pgtype.Text
		gender    pgtype.Text
		age       pgtype.Int4
		race      pgtype.Text
		violation pgtype.Text
		searched  pgtype.Int2
		searchTyp pgtype.Text
		outcome   pgtype.Text
		arrested  pgtype.Int2
		duration  pgtype.Text
		drugs     pgtype.Int2
		vehicle   pgtype.Text
		ts        pgtype.Timestamp
	)

	err := s.Scan(&t.ID, &stopDate, &stopTime, &country, &gender, &age, &race, &violation,
		&searched, &searchTyp, &outcome, &arrested, &duration, &drugs, &vehicle, &ts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TrafficStop{}, domain.ErrNotFound
		}
		return domain.TrafficStop{}, err
	}

	if stopDate.Valid {
		d := stopDate.Time
		t.StopDate = &d
	}
	if stopTime.Valid {
		tod := timeOfDayFromMicros(stopTime.Microseconds)
		t.StopTime = &tod
	}
	if age.Valid {
		a := int(age.Int32)
		t.DriverAge = &a
	}
	if ts.Valid {
		v := ts.Time
		t.Timestamp = &v
	}
	t.CountryName = textPtr(country)
	t.DriverGender = textPtr(gender)
	t.DriverRace = textPtr(race)
	t.Violation = textPtr(violation)
	t.SearchType = textPtr(searchTyp)
	t.StopOutcome = textPtr(outcome)
	t.StopDuration = textPtr(duration)
	t.VehicleNumber = textPtr(vehicle)
	t.SearchConducted = indicatorPtr(searched)
	t.IsArrested = indicatorPtr(arrested)
	t.DrugsRelatedStop = indicatorPtr(drugs)

	return t, nil
}

func textPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func indicatorPtr(v pgtype.Int2) *domain.Indicator {
	if !v.Valid {
		return nil
	}
	i := domain.IndicatorFromInt(int64(v.Int16))
	return &i
}

func timeOfDayFromMicros(us int64) domain.TimeOfDay {
	d := time.Duration(us) * time.Microsecond
	return domain.ClockTime(int(d/time.Hour), int(d%time.Hour/time.Minute), int(d%time.Minute/time.Second))
}

func dateArg(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

// timeArg writes clock values only; free-text times cannot be stored in a
// TIME column and become NULL.
func timeArg(t *domain.TimeOfDay) pgtype.Time {
	if t == nil || !t.Clock {
		return pgtype.Time{}
	}
	d := time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute + time.Duration(t.Second)*time.Second
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}
}

func indicatorArg(i *domain.Indicator) *int16 {
	if i == nil {
		return nil
	}
	v := int16(i.Int())
	return &v
}
