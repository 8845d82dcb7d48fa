package portal

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/api-portal/internal/viewer"
)

//go:embed index.html
var indexTemplate string

// Page renders the portal's HTML shell. The sidebar and the viewer are
// filled in by the browser from snapshots.
type Page struct {
	tmpl *template.Template
	data pageData
}

type pageData struct {
	Site        Site
	Description template.HTML
	Options     template.JS
}

// NewPage parses the page template and renders the site description.
func NewPage(site Site) (*Page, error) {
	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	desc, err := renderMarkdown(site.Description)
	if err != nil {
		return nil, fmt.Errorf("rendering description: %w", err)
	}

	opts, err := json.Marshal(viewer.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("encoding viewer options: %w", err)
	}

	return &Page{
		tmpl: tmpl,
		data: pageData{Site: site, Description: desc, Options: template.JS(opts)},
	}, nil
}

func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, p.data); err != nil {
		http.Error(w, "rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// renderMarkdown converts the description to HTML. Raw HTML in the source
// is escaped since the text comes from config.
func renderMarkdown(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
