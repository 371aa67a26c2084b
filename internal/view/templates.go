package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fieldsales/backoffice/internal/shared"
	"github.com/fieldsales/backoffice/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Identity    shared.Identity
	Data        any
}

// IsAdmin is used by the navigation partial.
func (d TemplateData) IsAdmin() bool { return d.Identity.Role == "admin" }

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	printer := message.NewPrinter(language.English)
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"formatDay": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"formatNumber": func(v any) string {
			switch n := v.(type) {
			case float64:
				return printer.Sprintf("%.2f", n)
			case float32:
				return printer.Sprintf("%.2f", n)
			default:
				return printer.Sprintf("%d", n)
			}
		},
		"pageURL": func(base string, p shared.Pager, page int, filters url.Values) string {
			q := p.Query(page)
			for k, v := range filters {
				if len(v) > 0 && v[0] != "" {
					q[k] = v
				}
			}
			return base + "?" + q.Encode()
		},
		"add":         func(a, b int) int { return a + b },
		"rowsOptions": func() []int { return shared.RowsPerPageOptions },
		"itoa":        func(n int64) string { return strconv.FormatInt(n, 10) },
		"json": func(v any) (template.JS, error) {
			raw, err := json.Marshal(v)
			return template.JS(raw), err
		},
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, errors.New("dict: odd argument count")
			}
			out := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				key, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				out[key] = kv[i+1]
			}
			return out, nil
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData. The page is buffered so
// a template error never leaves a half-written response.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return errors.New("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
