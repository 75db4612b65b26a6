package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/config"
	"github.com/hpungsan/stringvault/internal/errors"
	"github.com/hpungsan/stringvault/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// ValueRequest represents the arguments for create, get and delete.
type ValueRequest struct {
	Value *string `json:"value"`
}

// ListRequest represents the arguments for list.
type ListRequest struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// FilterNLRequest represents the arguments for filter_nl.
type FilterNLRequest struct {
	Query *string `json:"query"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path string `json:"path"`
}

// ImportRequest represents the arguments for import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// requireValue decodes a ValueRequest and rejects a missing value.
func requireValue(req mcp.CallToolRequest) (string, error) {
	input, err := decode[ValueRequest](req)
	if err != nil {
		return "", errors.NewValidation("value", "value must be a string")
	}
	if input.Value == nil {
		return "", errors.NewValidation("value", "value is required")
	}
	return *input.Value, nil
}

// HandleCreate handles the string_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := requireValue(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Create(ctx, h.db, h.cfg, ops.CreateInput{Value: value})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the string_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := requireValue(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Get(ctx, h.db, ops.GetInput{Value: value})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the string_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := requireValue(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{Value: value})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the string_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation("filters", err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{Filters: analysis.Filters{
		IsPalindrome:      input.IsPalindrome,
		MinLength:         input.MinLength,
		MaxLength:         input.MaxLength,
		WordCount:         input.WordCount,
		ContainsCharacter: input.ContainsCharacter,
	}})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFilterNL handles the string_filter_nl tool call.
func (h *Handlers) HandleFilterNL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FilterNLRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation("query", "query must be a string")), nil
	}
	if input.Query == nil {
		return errorResult(errors.NewValidation("query", "query is required")), nil
	}

	result, err := ops.Search(ctx, h.db, ops.SearchInput{Query: *input.Query})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the string_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the string_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.db, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if vErr, ok := err.(*errors.VaultError); ok {
		errorObj := map[string]any{
			"code":    vErr.Code,
			"message": vErr.Message,
			"status":  vErr.Status,
		}
		// Internal errors may carry SQL text or file paths.
		if vErr.Code == errors.ErrInternal {
			errorObj["message"] = "an internal error occurred"
		} else if vErr.Details != nil {
			errorObj["details"] = vErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
