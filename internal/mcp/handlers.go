package mcp

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/config"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/ops"
	"github.com/ishfaqbuilds/commandghost/internal/render"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	settings  settings.Settings
	cfg       *config.Config
	presenter *Presenter
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(s settings.Settings, cfg *config.Config) *Handlers {
	return &Handlers{settings: s, cfg: cfg, presenter: &Presenter{}}
}

// Request types for each tool

// SuggestShowRequest represents the arguments for suggest_show.
type SuggestShowRequest struct {
	Input string `json:"input"`
}

// SuggestToggleRequest represents the arguments for suggest_toggle.
type SuggestToggleRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// LibraryRequest carries the library argument shared by most tools.
type LibraryRequest struct {
	Library string `json:"library"`
}

// CommandListRequest represents the arguments for command_list.
type CommandListRequest struct {
	Library  string  `json:"library"`
	Category *string `json:"category,omitempty"`
}

// CommandAddRequest represents the arguments for command_add.
type CommandAddRequest struct {
	Library     string `json:"library"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// CommandEditRequest represents the arguments for command_edit.
type CommandEditRequest struct {
	Library     string `json:"library"`
	ID          string `json:"id,omitempty"`
	Index       *int   `json:"index,omitempty"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// CommandDeleteRequest represents the arguments for command_delete.
type CommandDeleteRequest struct {
	Library string `json:"library"`
	ID      string `json:"id,omitempty"`
	Index   *int   `json:"index,omitempty"`
}

// CommandExportRequest represents the arguments for command_export.
type CommandExportRequest struct {
	Path    string `json:"path,omitempty"`
	Library string `json:"library,omitempty"`
}

// CommandImportRequest represents the arguments for command_import.
type CommandImportRequest struct {
	Path    string `json:"path"`
	Mode    string `json:"mode,omitempty"`
	Library string `json:"library,omitempty"`
}

// CategoryRequest represents the arguments for category_create and category_delete.
type CategoryRequest struct {
	Library string `json:"library"`
	Name    string `json:"name"`
}

// CategoryRenameRequest represents the arguments for category_rename.
type CategoryRenameRequest struct {
	Library string `json:"library"`
	Old     string `json:"old"`
	New     string `json:"new"`
}

// PrefsSetRequest represents the arguments for prefs_set.
type PrefsSetRequest struct {
	Theme     *string `json:"theme,omitempty"`
	BoxWidth  *int    `json:"box_width,omitempty"`
	ShowEmoji *bool   `json:"show_emoji,omitempty"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// SuggestShowResponse is a suggestion result plus the box as plain text.
type SuggestShowResponse struct {
	ops.SuggestOutput
	Rendered string `json:"rendered,omitempty"`
}

// Handler implementations

// HandleSuggestShow handles the suggest_show tool call.
func (h *Handlers) HandleSuggestShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SuggestShowRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	out, err := ops.Suggest(ctx, h.settings, ops.SuggestInput{Query: input.Input})
	if err != nil {
		return errorResult(err), nil
	}
	h.presenter.Show(out)
	return h.suggestResult(ctx, *out)
}

// HandleSuggestCurrent handles the suggest_current tool call: what
// suggest_show last displayed, unless it was hidden since.
func (h *Handlers) HandleSuggestCurrent(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.suggestResult(ctx, h.presenter.Current())
}

// suggestResult adds the rendered box to a visible suggestion.
func (h *Handlers) suggestResult(ctx context.Context, out ops.SuggestOutput) (*mcp.CallToolResult, error) {
	resp := SuggestShowResponse{SuggestOutput: out}
	if out.Visible {
		prefs, err := ops.GetPrefs(ctx, h.settings)
		if err != nil {
			return errorResult(err), nil
		}
		resp.Rendered = render.NewBox(&bytes.Buffer{}, *prefs).Plain().Render(out.Items)
	}
	return successResult(resp)
}

// HandleSuggestHide handles the suggest_hide tool call.
func (h *Handlers) HandleSuggestHide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.presenter.Hide()
	return successResult(map[string]any{"visible": false})
}

// HandleSuggestEnabled handles the suggest_enabled tool call.
func (h *Handlers) HandleSuggestEnabled(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefs, err := ops.GetPrefs(ctx, h.settings)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"enabled": prefs.Enabled})
}

// HandleSuggestToggle handles the suggest_toggle tool call.
func (h *Handlers) HandleSuggestToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SuggestToggleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	enabled := input.Enabled
	if enabled == nil {
		prefs, err := ops.GetPrefs(ctx, h.settings)
		if err != nil {
			return errorResult(err), nil
		}
		flipped := !prefs.Enabled
		enabled = &flipped
	}

	prefs, err := ops.SetPrefs(ctx, h.settings, ops.SetPrefsInput{Enabled: enabled})
	if err != nil {
		return errorResult(err), nil
	}
	if !prefs.Enabled {
		h.presenter.Hide()
	}
	return successResult(map[string]any{"enabled": prefs.Enabled})
}

// HandleCommandList handles the command_list tool call.
func (h *Handlers) HandleCommandList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CommandListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.List(ctx, h.settings, ops.ListInput{Kind: kind, Category: input.Category})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCommandAdd handles the command_add tool call.
func (h *Handlers) HandleCommandAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CommandAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Add(ctx, h.settings, ops.AddInput{
		Kind:        kind,
		Command:     input.Command,
		Description: input.Description,
		Category:    input.Category,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCommandEdit handles the command_edit tool call.
func (h *Handlers) HandleCommandEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CommandEditRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Edit(ctx, h.settings, ops.EditInput{
		Kind:        kind,
		ID:          input.ID,
		Index:       input.Index,
		Command:     input.Command,
		Description: input.Description,
		Category:    input.Category,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCommandDelete handles the command_delete tool call.
func (h *Handlers) HandleCommandDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CommandDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Delete(ctx, h.settings, ops.DeleteInput{Kind: kind, ID: input.ID, Index: input.Index})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCommandExport handles the command_export tool call.
func (h *Handlers) HandleCommandExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CommandExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseOptionalLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Export(ctx, h.settings, h.cfg, ops.ExportInput{Path: input.Path, Kind: kind})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCommandImport handles the command_import tool call.
func (h *Handlers) HandleCommandImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CommandImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseOptionalLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Import(ctx, h.settings, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
		Kind: kind,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCommandReset handles the command_reset tool call.
func (h *Handlers) HandleCommandReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LibraryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Reset(ctx, h.settings, ops.ResetInput{Kind: kind})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCategoryList handles the category_list tool call.
func (h *Handlers) HandleCategoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LibraryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Categories(ctx, h.settings, ops.CategoriesInput{Kind: kind})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCategoryCreate handles the category_create tool call.
func (h *Handlers) HandleCategoryCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.CreateCategory(ctx, h.settings, ops.CreateCategoryInput{Kind: kind, Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCategoryRename handles the category_rename tool call.
func (h *Handlers) HandleCategoryRename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategoryRenameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.RenameCategory(ctx, h.settings, ops.RenameCategoryInput{Kind: kind, Old: input.Old, New: input.New})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleCategoryDelete handles the category_delete tool call.
func (h *Handlers) HandleCategoryDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	kind, err := parseLibrary(input.Library)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.DeleteCategory(ctx, h.settings, ops.DeleteCategoryInput{Kind: kind, Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandlePrefsGet handles the prefs_get tool call.
func (h *Handlers) HandlePrefsGet(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ops.GetPrefs(ctx, h.settings)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandlePrefsSet handles the prefs_set tool call.
func (h *Handlers) HandlePrefsSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PrefsSetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	out, err := ops.SetPrefs(ctx, h.settings, ops.SetPrefsInput{
		Theme:     input.Theme,
		BoxWidth:  input.BoxWidth,
		ShowEmoji: input.ShowEmoji,
		Enabled:   input.Enabled,
	})
	if err != nil {
		return errorResult(err), nil
	}
	if !out.Enabled {
		h.presenter.Hide()
	}
	return successResult(out)
}

func parseLibrary(name string) (command.Kind, error) {
	kind, err := command.ParseKind(name)
	if err != nil {
		return "", errors.NewInvalidRequest(err.Error())
	}
	return kind, nil
}

func parseOptionalLibrary(name string) (*command.Kind, error) {
	if name == "" {
		return nil, nil
	}
	kind, err := parseLibrary(name)
	if err != nil {
		return nil, err
	}
	return &kind, nil
}

// errorResult creates an MCP error result from a GhostError.
func errorResult(err error) *mcp.CallToolResult {
	gErr := errors.As(err)
	errorObj := map[string]any{
		"code":    gErr.Code,
		"message": gErr.Message,
		"status":  gErr.Status,
	}
	if gErr.Code == errors.ErrInternal {
		// Internal messages may carry paths or SQL.
		errorObj["message"] = "an internal error occurred"
	} else if gErr.Details != nil {
		errorObj["details"] = gErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
