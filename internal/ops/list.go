package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/db"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Filters analysis.Filters
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Data           []analysis.Record `json:"data" yaml:"data"`
	Count          int               `json:"count" yaml:"count"`
	FiltersApplied FiltersApplied    `json:"filters_applied" yaml:"filters_applied"`
}

// List scans every stored string and returns those matching all requested filters.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	f := normalizeFilters(input.Filters)

	records, err := db.ListAll(ctx, database)
	if err != nil {
		return nil, err
	}

	data := matchAll(records, f)

	return &ListOutput{
		Data:           data,
		Count:          len(data),
		FiltersApplied: echoFilters(f),
	}, nil
}
