package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/db"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	Value string
}

// Get looks up a stored string by its value. The ID is recomputed from the
// value, so callers never need to know the hash.
func Get(ctx context.Context, database *sql.DB, input GetInput) (*analysis.Record, error) {
	return db.GetByID(ctx, database, analysis.Hash(input.Value))
}
