package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkordes/stop-insights/internal/catalog"
	"github.com/pkordes/stop-insights/internal/domain"
	"github.com/pkordes/stop-insights/internal/narrative"
	"github.com/pkordes/stop-insights/internal/repo"
	"github.com/pkordes/stop-insights/internal/service"
)

type questionsCmd struct{}

func (questionsCmd) Run(env *runEnv) error {
	for i, q := range catalog.Default().Questions() {
		if _, err := fmt.Fprintf(env.out, "%2d. %s\n", i+1, q); err != nil {
			return err
		}
	}
	return nil
}

type insightCmd struct {
	Question string `arg:"" help:"Catalog question, matched exactly."`
}

func (c insightCmd) Run(env *runEnv) error {
	pool, err := env.pool()
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := service.NewInsightService(catalog.Default(), repo.NewInsightRepo(pool), nil)
	table, err := svc.Run(env.ctx, c.Question)
	if err != nil {
		return err
	}
	return writeTable(env.out, table)
}

type narrateCmd struct {
	ID int64 `arg:"" help:"Stop id."`
}

func (c narrateCmd) Run(env *runEnv) error {
	pool, err := env.pool()
	if err != nil {
		return err
	}
	defer pool.Close()

	stop, err := repo.NewStopRepo(pool).GetByID(env.ctx, c.ID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.out, narrative.Generate(stop))
	return err
}

// writeTable prints t as tab-aligned columns. NULL cells print as empty.
func writeTable(w io.Writer, t domain.ResultTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
