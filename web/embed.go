// Package web embeds the dashboard page, its htmx partials and the chart
// script.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static/*
var files embed.FS

// Templates parses the page and every partial; each is addressed by its
// file name (index.html, controls.html, table.html).
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}

// Static returns the assets served under /static/.
func Static() (fs.FS, error) {
	return fs.Sub(files, "static")
}
