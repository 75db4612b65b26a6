package ops

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/config"
	"github.com/hpungsan/stringvault/internal/db"
	"github.com/hpungsan/stringvault/internal/errors"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Value string
}

// Create analyzes a value and stores it. Storing a value twice fails with
// CONFLICT and leaves the existing record untouched.
func Create(ctx context.Context, database *sql.DB, cfg *config.Config, input CreateInput) (*analysis.Record, error) {
	if cfg != nil && cfg.MaxValueChars > 0 {
		if n := utf8.RuneCountInString(input.Value); n > cfg.MaxValueChars {
			return nil, errors.NewValidation("value",
				fmt.Sprintf("value exceeds maximum length: %d chars (max %d)", n, cfg.MaxValueChars))
		}
	}

	rec := analysis.NewRecord(input.Value, time.Now())

	if err := db.Insert(ctx, database, rec); err != nil {
		return nil, err
	}

	return rec, nil
}
