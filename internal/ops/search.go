package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/db"
	"github.com/hpungsan/stringvault/internal/errors"
	"github.com/hpungsan/stringvault/internal/nlquery"
)

// SearchInput contains parameters for the natural language Search operation.
type SearchInput struct {
	Query string
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Data             []analysis.Record       `json:"data" yaml:"data"`
	Count            int                     `json:"count" yaml:"count"`
	InterpretedQuery *nlquery.Interpretation `json:"interpreted_query" yaml:"interpreted_query"`
}

// Search interprets a natural language query and applies the resulting
// filters exactly as List does. Queries with no recognizable phrase fail
// with UNPARSEABLE_QUERY before the store is touched.
func Search(ctx context.Context, database *sql.DB, input SearchInput) (*SearchOutput, error) {
	interp, ok := nlquery.Parse(input.Query)
	if !ok {
		return nil, errors.NewUnparseableQuery(input.Query)
	}

	records, err := db.ListAll(ctx, database)
	if err != nil {
		return nil, err
	}

	data := matchAll(records, interp.ParsedFilters)

	return &SearchOutput{
		Data:             data,
		Count:            len(data),
		InterpretedQuery: interp,
	}, nil
}
