package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeassess/internal/models"
)

// LoadTemplates parses the page templates under templatesPath
func LoadTemplates(templatesPath string) (*template.Template, error) {
	patterns := []string{
		filepath.Join(templatesPath, "base.tmpl"),
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "admin/*.tmpl"),
		filepath.Join(templatesPath, "employee/*.tmpl"),
		filepath.Join(templatesPath, "components/*.tmpl"),
	}

	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found in %s", templatesPath)
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"deref": models.Deref,
		"percent": func(stats *models.Stats) int {
			if stats == nil {
				return 0
			}
			return stats.Percent()
		},
		"title": titleCase,
		"eqs": func(a, b string) bool {
			return strings.EqualFold(a, b)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// titleCase upper-cases the first rune of s
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func render(w http.ResponseWriter, templates *template.Template, name string, data interface{}) {
	renderStatus(w, templates, name, http.StatusOK, data)
}

// renderStatus executes a page into a buffer first so a template failure
// never leaves a half-written page behind
func renderStatus(w http.ResponseWriter, templates *template.Template, name string, status int, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering "+name, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing %s: %v", name, err)
	}
}
