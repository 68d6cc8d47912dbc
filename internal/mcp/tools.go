package mcp

import "github.com/mark3labs/mcp-go/mcp"

func libraryArg(opts ...mcp.PropertyOption) mcp.ToolOption {
	opts = append([]mcp.PropertyOption{
		mcp.Description("Command library"),
		mcp.Enum("builtin", "personal"),
	}, opts...)
	return mcp.WithString("library", opts...)
}

func addressArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("id", mcp.Description("Stable record id (use this or index)")),
		mcp.WithNumber("index", mcp.Description("Raw position from a prior command_list (use this or id)")),
	}
}

var suggestShowToolDef = mcp.NewTool("suggest_show",
	mcp.WithDescription("Rank both command libraries against typed input and show up to 5 suggestions. Returns visible=false when suggestions are disabled, the input is blank, or nothing matches."),
	mcp.WithString("input", mcp.Required(), mcp.Description("Text typed so far")),
)

var suggestCurrentToolDef = mcp.NewTool("suggest_current",
	mcp.WithDescription("Report the suggestions currently on display: the last suggest_show result, or visible=false after suggest_hide, a non-matching input or disabling."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var suggestHideToolDef = mcp.NewTool("suggest_hide",
	mcp.WithDescription("Hide the current suggestions."),
)

var suggestEnabledToolDef = mcp.NewTool("suggest_enabled",
	mcp.WithDescription("Report whether suggestions are enabled."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var suggestToggleToolDef = mcp.NewTool("suggest_toggle",
	mcp.WithDescription("Enable or disable suggestions. Without enabled, flips the current state."),
	mcp.WithBoolean("enabled", mcp.Description("Desired state")),
)

var commandListToolDef = mcp.NewTool("command_list",
	mcp.WithDescription("List the records of a command library in stored order. Malformed stored entries are reported under skipped."),
	libraryArg(mcp.Required()),
	mcp.WithString("category", mcp.Description("Only records in this category")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var commandAddToolDef = mcp.NewTool("command_add",
	mcp.WithDescription("Append a command to a library. Fields must not contain '|' or line breaks."),
	libraryArg(mcp.Required()),
	mcp.WithString("command", mcp.Required(), mcp.Description("Command text")),
	mcp.WithString("description", mcp.Required(), mcp.Description("What the command does")),
	mcp.WithString("category", mcp.Description("Category (defaults to Linux for builtin, Personal for personal)")),
)

var commandEditToolDef = mcp.NewTool("command_edit",
	append(append([]mcp.ToolOption{
		mcp.WithDescription("Replace a command in place. Address it by id or by index, not both."),
		libraryArg(mcp.Required()),
	}, addressArgs()...),
		mcp.WithString("command", mcp.Required(), mcp.Description("Command text")),
		mcp.WithString("description", mcp.Required(), mcp.Description("What the command does")),
		mcp.WithString("category", mcp.Description("Category (blank means the library default)")),
	)...,
)

var commandDeleteToolDef = mcp.NewTool("command_delete",
	append([]mcp.ToolOption{
		mcp.WithDescription("Delete a command. Address it by id or by index, not both."),
		libraryArg(mcp.Required()),
		mcp.WithDestructiveHintAnnotation(true),
	}, addressArgs()...)...,
)

var commandExportToolDef = mcp.NewTool("command_export",
	mcp.WithDescription("Back up libraries to a JSONL file in the exports directory or an allowed path."),
	mcp.WithString("path", mcp.Description("Target .jsonl file (default: exports directory, timestamped)")),
	libraryArg(),
)

var commandImportToolDef = mcp.NewTool("command_import",
	mcp.WithDescription("Restore libraries from a JSONL backup."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .jsonl file")),
	mcp.WithString("mode", mcp.Description("append (default) or replace"), mcp.Enum("append", "replace")),
	libraryArg(mcp.Description("Import every line into this library")),
)

var commandResetToolDef = mcp.NewTool("command_reset",
	mcp.WithDescription("Restore the builtin library to the default catalog, or clear the personal library."),
	libraryArg(mcp.Required()),
	mcp.WithDestructiveHintAnnotation(true),
)

var categoryListToolDef = mcp.NewTool("category_list",
	mcp.WithDescription("List the categories of a library, sorted, with record counts."),
	libraryArg(mcp.Required()),
	mcp.WithReadOnlyHintAnnotation(true),
)

var categoryCreateToolDef = mcp.NewTool("category_create",
	mcp.WithDescription("Create an empty category."),
	libraryArg(mcp.Required()),
	mcp.WithString("name", mcp.Required(), mcp.Description("Category name")),
)

var categoryRenameToolDef = mcp.NewTool("category_rename",
	mcp.WithDescription("Rename a category on every record carrying it. Renaming onto an existing category merges them."),
	libraryArg(mcp.Required()),
	mcp.WithString("old", mcp.Required(), mcp.Description("Current name")),
	mcp.WithString("new", mcp.Required(), mcp.Description("New name (blank or unchanged is a no-op)")),
)

var categoryDeleteToolDef = mcp.NewTool("category_delete",
	mcp.WithDescription("Delete a category together with every record in it."),
	libraryArg(mcp.Required()),
	mcp.WithString("name", mcp.Required(), mcp.Description("Category name")),
	mcp.WithDestructiveHintAnnotation(true),
)

var prefsGetToolDef = mcp.NewTool("prefs_get",
	mcp.WithDescription("Read display preferences."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var prefsSetToolDef = mcp.NewTool("prefs_set",
	mcp.WithDescription("Update display preferences. Omitted fields are unchanged."),
	mcp.WithString("theme", mcp.Enum("hacker", "purple", "dark", "light")),
	mcp.WithNumber("box_width", mcp.Description("300 to 800 in steps of 50"), mcp.Min(300), mcp.Max(800)),
	mcp.WithBoolean("show_emoji"),
	mcp.WithBoolean("enabled"),
)
