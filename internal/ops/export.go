package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/stringvault/internal/config"
	"github.com/hpungsan/stringvault/internal/db"
	"github.com/hpungsan/stringvault/internal/errors"
)

// ExportSchemaVersion is written into every export header.
const ExportSchemaVersion = "1.0"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // required
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path" yaml:"path"`
	Count      int    `json:"count" yaml:"count"`
	ExportedAt int64  `json:"exported_at" yaml:"exported_at"`
}

// ExportHeader represents the header line in a JSONL export file.
type ExportHeader struct {
	StringvaultExport bool   `json:"_stringvault_export"`
	SchemaVersion     string `json:"schema_version"`
	ExportedAt        int64  `json:"exported_at"`
}

// Export writes every stored record to a JSONL file: one header line, then
// one record per line with its stored properties. The file is written to a
// temp path and renamed into place, so an existing file survives a failure.
// The path must pass ValidatePath.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	if err := ValidatePath(input.Path, PathCheckWrite, cfg); err != nil {
		return nil, err
	}
	exportedAt := time.Now().Unix()

	records, err := db.ListAll(ctx, database)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(input.Path), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := input.Path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)

	header := ExportHeader{
		StringvaultExport: true,
		SchemaVersion:     ExportSchemaVersion,
		ExportedAt:        exportedAt,
	}
	if err := enc.Encode(header); err != nil {
		return nil, errors.NewInternal(err)
	}
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before rename (required on Windows)
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink at the destination
	if info, err := os.Lstat(input.Path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInvalidRequest("export path is a symlink")
	}

	if err := os.Rename(tempPath, input.Path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(input.Path); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; choose a new path")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       input.Path,
		Count:      len(records),
		ExportedAt: exportedAt,
	}, nil
}

// DefaultExportPath returns <baseDir>/exports/all-<timestamp>.jsonl.
func DefaultExportPath(baseDir string, now time.Time) string {
	filename := fmt.Sprintf("all-%s.jsonl", now.UTC().Format("2006-01-02T150405"))
	return filepath.Join(baseDir, "exports", filename)
}
