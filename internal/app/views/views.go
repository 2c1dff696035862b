// Package views holds the console's server-rendered pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
)

//go:embed templates/*.html
var files embed.FS

// Template names
const (
	Welcome       = "welcome.html"
	ErrorPage     = "error.html"
	DomainsList   = "domains_list.html"
	DomainForm    = "domain_form.html"
	DomainConfirm = "domain_confirm.html"
	DomainDelete  = "domain_delete.html"
	DomainView    = "domain_view.html"
	StudentForm   = "student_form.html"
)

// Load parses every page with the console's template functions
func Load() (*template.Template, error) {
	tmpl, err := template.New("console").Funcs(Funcs()).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Funcs returns the helpers available to every page
func Funcs() template.FuncMap {
	return template.FuncMap{
		"marks":     FormatMarks,
		"plural":    Plural,
		"ordinal":   func(i int) int { return i + 1 },
		"enrolled":  EnrolledCount,
		"nextSort":  func(o models.SortOrder) models.SortOrder { return o.Next() },
		"sortArrow": SortArrow,
		"recovery":  apperrors.RecoveryFor,
		"id":        func(id int64) string { return strconv.FormatInt(id, 10) },
	}
}

// FormatMarks prints marks with two decimals, or a dash when absent
func FormatMarks(v *float64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// Plural returns word with an "s" appended unless n is 1
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// EnrolledCount reads the server computed count, treating a missing value as 0
func EnrolledCount(d models.Domain) int64 {
	if d.StudentCount == nil {
		return 0
	}
	return *d.StudentCount
}

// SortArrow marks the current sort on the marks column header
func SortArrow(o models.SortOrder) string {
	switch o {
	case models.SortAsc:
		return "↑"
	case models.SortDesc:
		return "↓"
	}
	return "↕"
}
