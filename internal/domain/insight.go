package domain

// Summary holds the headline metrics shown above the dataset.
type Summary struct {
	TotalRecords int64
	Arrests      int64
	DrugRelated  int64
	Searches     int64
}

// CategoryCount is one bar of a categorical chart.
type CategoryCount struct {
	Label string
	Count int64
}

// ResultTable is the tabular result of a catalog query.
// Each row has exactly len(Columns) values. Values are JSON-safe scalars:
// nil, bool, int64, float64 or string.
type ResultTable struct {
	Columns []string
	Rows    [][]any
}
