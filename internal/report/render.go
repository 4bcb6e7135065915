package report

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed template.html
var templateFS embed.FS

// RenderData contains all data needed to render the HTML report.
type RenderData struct {
	Document   *Document
	Thresholds Thresholds
	Groups     []GroupData
}

// GroupData is one artifact group with its metric columns.
type GroupData struct {
	Title     string
	Columns   []string
	Artifacts []Artifact
}

// Renderer handles HTML report generation.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a new renderer with the embedded template.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"title": cases.Title(language.English).String,
		"lower": strings.ToLower,
		"value": FormatValue,
		"metric": func(a Artifact, key string) string {
			v, ok := a.Metrics[key]
			if !ok {
				return "-"
			}
			return FormatValue(v)
		},
		"flagged": func(th Thresholds, a Artifact, key string) bool {
			v, ok := a.Metrics[key]
			return ok && th.Exceeds(key, v)
		},
		"arrow": func(cycle []string) string {
			return strings.Join(cycle, " → ")
		},
		"keys": sortedKeys,
		"truncatePath": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			parts := strings.Split(s, "/")
			if len(parts) <= 2 {
				return s[:n-3] + "..."
			}
			filename := parts[len(parts)-1]
			if len(filename) >= n-3 {
				return "..." + filename[len(filename)-n+3:]
			}
			remaining := max(n-len(filename)-4, 0)
			prefix := strings.Join(parts[:len(parts)-1], "/")
			if len(prefix) > remaining {
				prefix = prefix[len(prefix)-remaining:]
			}
			return ".../" + prefix + "/" + filename
		},
		"json": func(v any) template.JS {
			b, _ := json.Marshal(v)
			return template.JS(b)
		},
	}

	tmpl, err := template.New("template.html").Funcs(funcMap).ParseFS(templateFS, "template.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// NewRenderData groups a document for the HTML template.
func NewRenderData(doc *Document, th Thresholds) *RenderData {
	data := &RenderData{Document: doc, Thresholds: th}
	for _, g := range []string{GroupNamespaces, GroupTypes, GroupCallables, GroupProperties} {
		arts := doc.Select(g)
		if len(arts) == 0 {
			continue
		}
		data.Groups = append(data.Groups, GroupData{
			Title:     g,
			Columns:   table(g, arts, th).Headers[3:],
			Artifacts: arts,
		})
	}
	return data
}

// Render writes the HTML report to w.
func (r *Renderer) Render(w io.Writer, data *RenderData) error {
	return r.tmpl.Execute(w, data)
}

// RenderToFile writes the HTML report to path, creating parent
// directories as needed.
func (r *Renderer) RenderToFile(path string, data *RenderData) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Render(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
