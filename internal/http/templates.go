package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"expensemate/internal/core"
	applog "expensemate/internal/log"
	appweb "expensemate/web"
)

// Page names, one per file under templates/pages.
const (
	pageDashboard   = "dashboard"
	pageExpenses    = "expenses"
	pageNewExpense  = "new_expense"
	pageAnalytics   = "analytics"
	pagePlaceholder = "placeholder"
	pageError       = "error"
)

var templateFuncs = template.FuncMap{
	"money":   func(m core.Money) string { return m.String() },
	"compact": func(m core.Money) string { return m.Compact() },
	"statusClass": func(s core.Status) string {
		return "badge badge-" + s.String()
	},
	"trendClass": func(t core.Trend) string {
		return "trend trend-" + string(t.Direction)
	},
	"capitalize": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"barWidth": func(part, whole core.Money) int {
		if whole.Cents <= 0 || part.Cents <= 0 {
			return 0
		}
		w := int((part.Cents*100 + whole.Cents/2) / whole.Cents)
		if w < 2 {
			w = 2
		}
		if w > 100 {
			w = 100
		}
		return w
	},
	"maxAmount": func(items []core.CategoryAmount) core.Money {
		var m core.Money
		for _, c := range items {
			if c.Amount.Cents > m.Cents {
				m = c.Amount
			}
		}
		return m
	},
}

// pageTemplates parses every page against a shared base of the layout and
// partials, so each page can define its own "content" block.
type pageTemplates struct {
	pages    map[string]*template.Template
	partials *template.Template
}

func parseTemplates(fsys fs.FS) (*pageTemplates, error) {
	base, err := template.New("base").Funcs(templateFuncs).ParseFS(fsys,
		"templates/layout.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	pt := &pageTemplates{pages: make(map[string]*template.Template, len(files)), partials: base}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pt.pages[name] = clone
	}
	return pt, nil
}

func mustParseTemplates() *pageTemplates {
	pt, err := parseTemplates(appweb.TemplatesFS)
	if err != nil {
		panic(err)
	}
	return pt
}

// layoutData is what the layout needs on every full page.
type layoutData struct {
	Title       string
	ActivePath  string
	SidebarOpen bool
	MainNav     []navLink
	AdminNav    []navLink
	Page        any
}

func newLayout(r *http.Request, title string, page any) layoutData {
	active := ActivePath(r.URL.Path)
	return layoutData{
		Title:       title,
		ActivePath:  active,
		SidebarOpen: sidebarOpen(r),
		MainNav:     navLinks(MainNav, active),
		AdminNav:    navLinks(AdminNav, active),
		Page:        page,
	}
}

// renderPage executes a full page into a buffer first so a template error
// never leaves a half-written response.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name, title string, page any) {
	if b := s.buildPage(w, r, status, name, title, page); b != nil {
		b.Write(w)
	}
}

// buildPage returns the rendered page for the caller to add triggers to. On
// failure the error response has already been written and nil is returned.
func (s *Server) buildPage(w http.ResponseWriter, r *http.Request, status int, name, title string, page any) *HTMXResponseBuilder {
	t, ok := s.templates.pages[name]
	if !ok {
		s.serverError(w, r, fmt.Errorf("page template %q not found", name), applog.OpRender)
		return nil
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", newLayout(r, title, page)); err != nil {
		s.serverError(w, r, fmt.Errorf("execute %s: %w", name, err), applog.OpRender)
		return nil
	}
	return NewHTMXResponse().Status(status).BodyHTML(buf.String())
}

// renderPartial executes one named partial.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, status int, name string, data any) *HTMXResponseBuilder {
	var buf bytes.Buffer
	if err := s.templates.partials.ExecuteTemplate(&buf, name, data); err != nil {
		s.serverError(w, r, fmt.Errorf("execute partial %s: %w", name, err), applog.OpRender)
		return nil
	}
	return NewHTMXResponse().Status(status).BodyHTML(buf.String())
}
