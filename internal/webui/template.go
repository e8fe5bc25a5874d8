package webui

import (
	"fmt"
	"html/template"
	"time"
)

type templator struct {
	cfg  *Config
	tmpl map[string]*template.Template
}

func newTemplator(cfg *Config) *templator {
	return &templator{
		cfg:  cfg,
		tmpl: make(map[string]*template.Template),
	}
}

func (t *templator) makeFuncs() template.FuncMap {
	return template.FuncMap{
		"asURL": func(s string) string {
			return t.cfg.prefix + s
		},
		"asStaticURL": func(s string) string {
			return t.cfg.prefix + s + "?" + t.cfg.ServerID
		},
		"formatDate": func(tm time.Time) string {
			return tm.Local().Format(time.DateOnly)
		},
		"formatDateTime": func(tm time.Time) string {
			return tm.Local().Format("2006-01-02 15:04")
		},
		"formDate": func(tm time.Time) string {
			if tm.IsZero() {
				return ""
			}
			return tm.Local().Format(formDateLayout)
		},
		"formDateTime": func(tm time.Time) string {
			if tm.IsZero() {
				return ""
			}
			return tm.Local().Format(formDateTimeLayout)
		},
	}
}

// Get returns the page template with the given name. The page is rendered from "base" template
// which includes the "content" template defined by the page. Empty name means that the page has
// no content of its own.
func (t *templator) Get(name string) (*template.Template, error) {
	if tmpl, ok := t.tmpl[name]; ok {
		return tmpl, nil
	}
	files := []string{"template/base.html", "template/parts.html"}
	if name != "" {
		files = append(files, fmt.Sprintf("template/%v.html", name))
	}
	key := name
	if key == "" {
		key = "base"
	}
	tmpl, err := template.New(key).Funcs(t.makeFuncs()).ParseFS(templates, files...)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	t.tmpl[name] = tmpl
	return tmpl, nil
}
