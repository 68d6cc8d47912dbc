package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/config"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/ops"
	"github.com/ishfaqbuilds/commandghost/internal/render"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	settings settings.Settings
	cfg      *config.Config
	renderer *Renderer
}

// HandleSettings handles GET /settings: show the suggestion preferences.
func (h *Handlers) HandleSettings(w http.ResponseWriter, r *http.Request) {
	prefs, err := ops.GetPrefs(r.Context(), h.settings)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, prefs)
		return
	}

	h.renderer.renderPage(w, r, "settings", SettingsPageData{
		PageData:  h.renderer.page("Settings", "settings"),
		Prefs:     *prefs,
		Themes:    ops.Themes,
		Widths:    boxWidths(),
		Saved:     r.URL.Query().Get("saved") == "1",
		ResetDone: r.URL.Query().Get("reset"),
	})
}

// HandleSettingsSave handles POST /settings: save the whole preferences form.
// Unchecked checkboxes are absent from the form and mean false.
func (h *Handlers) HandleSettingsSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	input := ops.SetPrefsInput{
		ShowEmoji: boolPtr(parseFormBool(r, "show_emoji")),
		Enabled:   boolPtr(parseFormBool(r, "enabled")),
	}
	if theme := r.FormValue("theme"); theme != "" {
		input.Theme = &theme
	}
	if width := r.FormValue("box_width"); width != "" {
		n, err := strconv.Atoi(width)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("box_width must be an integer"))
			return
		}
		input.BoxWidth = &n
	}

	prefs, err := ops.SetPrefs(r.Context(), h.settings, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, "/settings?saved=1", prefs)
}

// HandleReset handles POST /settings/reset: restore a library to its initial contents.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}
	kind, err := parseKind(r.FormValue("library"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.Reset(r.Context(), h.settings, ops.ResetInput{Kind: kind})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, "/settings?reset="+url.QueryEscape(string(kind)), result)
}

// HandleCommands handles GET /commands/{kind}: list a library.
func (h *Handlers) HandleCommands(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.PathValue("kind"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	category := r.URL.Query().Get("category")

	result, err := ops.List(r.Context(), h.settings, ops.ListInput{Kind: kind, Category: ptrString(category)})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	cats, err := ops.Categories(r.Context(), h.settings, ops.CategoriesInput{Kind: kind})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "commands", CommandsPageData{
		PageData:   h.renderer.page(titleCase(string(kind))+" commands", string(kind)),
		Kind:       kind,
		Category:   category,
		Items:      result.Items,
		Skipped:    result.Skipped,
		Total:      result.Total,
		Categories: cats.Categories,
	})
}

// HandleCommandAdd handles POST /commands/{kind}: append a command.
func (h *Handlers) HandleCommandAdd(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.PathValue("kind"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.Add(r.Context(), h.settings, ops.AddInput{
		Kind:        kind,
		Command:     r.FormValue("command"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, libraryPath(kind), result)
}

// HandleCommandEdit handles POST /commands/{kind}/{id}: replace a command in place.
func (h *Handlers) HandleCommandEdit(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.PathValue("kind"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.Edit(r.Context(), h.settings, ops.EditInput{
		Kind:        kind,
		ID:          r.PathValue("id"),
		Command:     r.FormValue("command"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, libraryPath(kind), result)
}

// HandleCommandDelete handles DELETE /commands/{kind}/{id}.
func (h *Handlers) HandleCommandDelete(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.PathValue("kind"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.Delete(r.Context(), h.settings, ops.DeleteInput{Kind: kind, ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, libraryPath(kind), result)
}

// HandleCategoryCreate handles POST /categories/{kind}: add an empty category.
func (h *Handlers) HandleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.PathValue("kind"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.CreateCategory(r.Context(), h.settings, ops.CreateCategoryInput{Kind: kind, Name: r.FormValue("name")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, libraryPath(kind), result)
}

// HandleCategoryRename handles POST /categories/{kind}/rename.
func (h *Handlers) HandleCategoryRename(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.PathValue("kind"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.RenameCategory(r.Context(), h.settings, ops.RenameCategoryInput{
		Kind: kind,
		Old:  r.FormValue("old"),
		New:  r.FormValue("new"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, libraryPath(kind), result)
}

// HandleCategoryDelete handles POST /categories/{kind}/delete: remove a
// category together with every command in it.
func (h *Handlers) HandleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.PathValue("kind"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	result, err := ops.DeleteCategory(r.Context(), h.settings, ops.DeleteCategoryInput{Kind: kind, Name: r.FormValue("name")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, libraryPath(kind), result)
}

// HandleSuggest handles GET /suggest?q=: preview the suggestion box.
func (h *Handlers) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	result, err := ops.Suggest(r.Context(), h.settings, ops.SuggestInput{Query: query})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	prefs, err := ops.GetPrefs(r.Context(), h.settings)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data := SuggestPageData{
		PageData: h.renderer.page("Suggest", "suggest"),
		Query:    query,
		Result:   result,
		Prefs:    *prefs,
		Header:   boxHeader(*prefs),
	}

	// If htmx targets #results, render only the box
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "suggest", "suggest-results", data)
		return
	}
	h.renderer.renderPage(w, r, "suggest", data)
}

// HandleCheatsheet handles GET /cheatsheet: both libraries as one document.
func (h *Handlers) HandleCheatsheet(w http.ResponseWriter, r *http.Request) {
	libraries := make(map[command.Kind][]command.Record, len(command.Kinds))
	categories := make(map[command.Kind][]command.CategorySummary, len(command.Kinds))
	for _, kind := range command.Kinds {
		list, err := ops.List(r.Context(), h.settings, ops.ListInput{Kind: kind})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		for _, it := range list.Items {
			libraries[kind] = append(libraries[kind], it.Record)
		}

		cats, err := ops.Categories(r.Context(), h.settings, ops.CategoriesInput{Kind: kind})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		categories[kind] = cats.Categories
	}

	md := cheatsheetMarkdown(libraries, categories)
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(md))
		return
	}

	h.renderer.renderPage(w, r, "cheatsheet", CheatsheetPageData{
		PageData:     h.renderer.page("Cheat sheet", "cheatsheet"),
		RenderedHTML: renderMarkdown(md),
	})
}

// respond finishes a mutation: HX-Redirect for htmx, the result for JSON
// clients, a 303 redirect for plain forms.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, status int, redirect string, result any) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", redirect)
		w.WriteHeader(http.StatusOK)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, status, result)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func parseKind(name string) (command.Kind, error) {
	kind, err := command.ParseKind(name)
	if err != nil {
		return "", errors.NewInvalidRequest(err.Error())
	}
	return kind, nil
}

func libraryPath(kind command.Kind) string {
	return "/commands/" + string(kind)
}

// boxWidths lists the selectable box widths.
func boxWidths() []int {
	var widths []int
	for w := ops.MinBoxWidth; w <= ops.MaxBoxWidth; w += ops.BoxWidthStep {
		widths = append(widths, w)
	}
	return widths
}

func boxHeader(p ops.Prefs) string {
	if p.ShowEmoji {
		return render.HeaderEmoji + " " + render.HeaderText
	}
	return render.HeaderText
}

// parseFormBool parses a checkbox or boolean form field.
func parseFormBool(r *http.Request, name string) bool {
	switch r.FormValue(name) {
	case "on", "true", "1":
		return true
	}
	return false
}

// ptrString returns a pointer to s if non-empty, nil otherwise.
func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolPtr(b bool) *bool { return &b }
