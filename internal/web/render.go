package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/logger"
	"github.com/ishfaqbuilds/commandghost/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "settings", "builtin", "personal", "suggest", "cheatsheet"
}

// SettingsPageData is the template data for the preferences page.
type SettingsPageData struct {
	PageData
	Prefs     ops.Prefs
	Themes    []string
	Widths    []int
	Saved     bool
	ResetDone string // library that was just reset
}

// CommandsPageData is the template data for a library page.
type CommandsPageData struct {
	PageData
	Kind       command.Kind
	Category   string
	Items      []ops.Item
	Skipped    []command.Skipped
	Total      int
	Categories []command.CategorySummary
}

// SuggestPageData is the template data for the suggestion preview.
type SuggestPageData struct {
	PageData
	Query  string
	Result *ops.SuggestOutput
	Prefs  ops.Prefs
	Header string
}

// CheatsheetPageData is the template data for the cheat sheet.
type CheatsheetPageData struct {
	PageData
	RenderedHTML template.HTML
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"add":     func(a, b int) int { return a + b },
		"eqInt":   func(a, b int) bool { return a == b },
		"kindOf":  func(k command.Kind) string { return string(k) },
		"defCat":  func(k command.Kind) string { return k.DefaultCategory() },
		"widthPx": func(w int) string { return fmt.Sprintf("w-%d", w) },
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"settings":   "settings.html",
		"commands":   "commands.html",
		"suggest":    "suggest.html",
		"cheatsheet": "cheatsheet.html",
		"error":      "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	block := "layout"
	if req != nil && isHTMX(req) {
		block = "content"
	}
	r.renderBlock(w, status, name, block, data)
}

// renderBlock renders a specific named block from a page template.
func (r *Renderer) renderBlock(w http.ResponseWriter, status int, page, block string, data any) {
	t, ok := r.templates[page]
	if !ok {
		logger.Error("template not found", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		logger.Error("template execution failed", "page", page, "block", block, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	gErr := errors.As(err)
	status := gErr.Status
	message := gErr.Message
	if gErr.Code == errors.ErrInternal {
		logger.Error("request failed", "path", req.URL.Path, "err", err)
		message = "an internal error occurred"
	}

	if isHTMX(req) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(gErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", status), ""),
		StatusCode: status,
		Message:    message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// renderMarkdown converts markdown text to HTML. Raw HTML in the source is
// not passed through.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	return template.HTML(buf.String())
}

// cheatsheetMarkdown lays out both libraries as one table per category,
// categories by name.
func cheatsheetMarkdown(libraries map[command.Kind][]command.Record, categories map[command.Kind][]command.CategorySummary) string {
	var b strings.Builder
	b.WriteString("# Command cheat sheet\n")
	for _, kind := range command.Kinds {
		fmt.Fprintf(&b, "\n## %s\n", titleCase(string(kind)))
		records := libraries[kind]
		if len(records) == 0 {
			b.WriteString("\nNo commands yet.\n")
			continue
		}
		for _, cat := range categories[kind] {
			if cat.Count == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n### %s\n\n| Command | Description |\n| --- | --- |\n", cat.Name)
			for _, r := range records {
				if r.Category == cat.Name {
					fmt.Fprintf(&b, "| %s | %s |\n", codeSpan(r.Command), escapeCell(r.Description))
				}
			}
		}
	}
	return b.String()
}

// codeSpan wraps s in a backtick run longer than any run inside it.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, c := range s {
		if c == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if longest > 0 {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

var cellEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "<", "&lt;")

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
