package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/config"
	"github.com/hpungsan/stringvault/internal/db"
	"github.com/hpungsan/stringvault/internal/errors"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError ImportMode = "error" // fail on any collision or bad line (atomic)
	ImportModeSkip  ImportMode = "skip"  // keep existing records, import the rest
)

// maxImportLine bounds a single JSONL line.
const maxImportLine = 16 * 1024 * 1024

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported" yaml:"imported"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Errors   []ImportError `json:"errors" yaml:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line" yaml:"line"`
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// importLine is one line of an export file: either the header or a record.
// Properties shadows the embedded field so a missing object can be told
// apart from a zero one.
type importLine struct {
	StringvaultExport bool            `json:"_stringvault_export"`
	Properties        json.RawMessage `json:"properties"`
	analysis.Record
}

type parsedRecord struct {
	line int
	rec  analysis.Record
}

// Import restores records from a JSONL export file. Creation times are kept
// as exported. A record whose id is not the hash of its value, or whose
// properties differ from the ones computed for its value, is rejected.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, skip")
	}
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.VaultError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	records, parseErrors, err := parseExportFile(file)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	output := &ImportOutput{Errors: parseErrors}
	if output.Errors == nil {
		output.Errors = []ImportError{}
	}

	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return output, nil
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback()

	for _, pr := range records {
		err := db.Insert(ctx, tx, &pr.rec)
		if err == nil {
			output.Imported++
			continue
		}
		if !errors.Is(err, errors.ErrConflict) {
			return nil, err
		}
		if input.Mode == ImportModeSkip {
			output.Skipped++
			continue
		}
		// Atomic mode: report the collision and roll back everything
		output.Errors = append(output.Errors, ImportError{
			Line:    pr.line,
			ID:      pr.rec.ID,
			Code:    string(errors.ErrConflict),
			Message: "string already exists",
		})
		output.Imported = 0
		return output, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return output, nil
}

// parseExportFile reads an export file into records, collecting per-line errors.
func parseExportFile(r io.Reader) ([]parsedRecord, []ImportError, error) {
	var (
		records     []parsedRecord
		parseErrors []ImportError
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var il importLine
		if err := json.Unmarshal(line, &il); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		if il.StringvaultExport {
			continue
		}

		rec := il.Record
		if rec.ID != analysis.Hash(rec.Value) {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				ID:      rec.ID,
				Code:    "INVALID_RECORD",
				Message: "id does not match sha256 of value",
			})
			continue
		}

		// Properties are always the computed ones; exported ones must agree.
		rec.Properties = analysis.Compute(rec.Value)
		if len(il.Properties) > 0 && string(il.Properties) != "null" {
			var stored analysis.Properties
			if err := json.Unmarshal(il.Properties, &stored); err != nil || !propertiesEqual(stored, rec.Properties) {
				parseErrors = append(parseErrors, ImportError{
					Line:    lineNum,
					ID:      rec.ID,
					Code:    "INVALID_RECORD",
					Message: "properties do not match value",
				})
				continue
			}
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}

		records = append(records, parsedRecord{line: lineNum, rec: rec})
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return records, parseErrors, nil
}

func propertiesEqual(a, b analysis.Properties) bool {
	return a.Length == b.Length &&
		a.IsPalindrome == b.IsPalindrome &&
		a.UniqueCharacters == b.UniqueCharacters &&
		a.WordCount == b.WordCount &&
		a.SHA256Hash == b.SHA256Hash &&
		maps.Equal(a.CharacterFrequencyMap, b.CharacterFrequencyMap)
}
