package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("string_create",
	mcp.WithDescription("Analyze a string and store it with its computed properties. Fails with CONFLICT if the exact value is already stored."),
	mcp.WithString("value", mcp.Required(), mcp.Description("The string to analyze (may be empty)")),
)

var getToolDef = mcp.NewTool("string_get",
	mcp.WithDescription("Fetch a stored string and its properties by its exact value."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("value", mcp.Required(), mcp.Description("The exact stored value")),
)

var deleteToolDef = mcp.NewTool("string_delete",
	mcp.WithDescription("Delete a stored string by its exact value."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("value", mcp.Required(), mcp.Description("The exact stored value")),
)

var listToolDef = mcp.NewTool("string_list",
	mcp.WithDescription("List stored strings in insertion order. All filters are optional and combined with AND."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithBoolean("is_palindrome", mcp.Description("Only palindromes (true) or non-palindromes (false)")),
	mcp.WithNumber("min_length", mcp.Description("Minimum length in characters, inclusive")),
	mcp.WithNumber("max_length", mcp.Description("Maximum length in characters, inclusive")),
	mcp.WithNumber("word_count", mcp.Description("Exact number of whitespace separated words")),
	mcp.WithString("contains_character", mcp.Description("A character that must appear in the value")),
)

var filterNLToolDef = mcp.NewTool("string_filter_nl",
	mcp.WithDescription(`List stored strings matching a plain-English query. Recognized phrases: "single word", "one word", "palindrome", "longer than N", "containing the letter X".`),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("query", mcp.Required(), mcp.Description("The natural-language query")),
)

var exportToolDef = mcp.NewTool("string_export",
	mcp.WithDescription("Write every stored string to a JSONL file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Destination .jsonl path, directly in <data-dir>/exports or an allowed_paths directory")),
)

var importToolDef = mcp.NewTool("string_import",
	mcp.WithDescription("Load strings from a JSONL export file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .jsonl path, directly in <data-dir>/exports or an allowed_paths directory")),
	mcp.WithString("mode",
		mcp.Description("error: abort atomically on any collision (default). skip: keep existing strings."),
		mcp.Enum("error", "skip"),
	),
)
