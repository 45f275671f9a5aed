package repo

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/stop-insights/internal/domain"
)

// InsightRepo executes catalog queries.
type InsightRepo interface {
	// Run executes query verbatim and returns every row it produces.
	// The query text is trusted: it comes from the compiled-in catalog.
	Run(ctx context.Context, query string) (domain.ResultTable, error)
}

// pgInsightRepo is the Postgres implementation of InsightRepo.
type pgInsightRepo struct {
	db db
}

// NewInsightRepo constructs an InsightRepo backed by the provided db connection.
func NewInsightRepo(db db) InsightRepo {
	return &pgInsightRepo{db: db}
}

// Run executes query and collects its result set into a ResultTable.
func (r *pgInsightRepo) Run(ctx context.Context, query string) (domain.ResultTable, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return domain.ResultTable{}, fmt.Errorf("repo.InsightRepo.Run: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	table := domain.ResultTable{
		Columns: make([]string, len(fields)),
		Rows:    [][]any{},
	}
	for i, f := range fields {
		table.Columns[i] = f.Name
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return domain.ResultTable{}, fmt.Errorf("repo.InsightRepo.Run: values: %w", err)
		}
		row := make([]any, len(vals))
		for i, v := range vals {
			row[i] = normalizeValue(v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return domain.ResultTable{}, fmt.Errorf("repo.InsightRepo.Run: rows: %w", err)
	}
	return table, nil
}

// normalizeValue converts a decoded pgx value into one of the scalar types
// permitted in a domain.ResultTable.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil, bool, int64, float64, string:
		return x
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	case pgtype.Numeric:
		if !x.Valid || x.NaN {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case pgtype.Time:
		if !x.Valid {
			return nil
		}
		return timeOfDayFromMicros(x.Microseconds).String()
	default:
		return fmt.Sprint(x)
	}
}
