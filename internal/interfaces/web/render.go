package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trade"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trending"
	"github.com/riskibarqy/fantasy-manager-hub/internal/usecase"
)

//go:embed templates static
var assets embed.FS

const (
	pageHome     = "home"
	pageTrade    = "trade"
	pageTrending = "trending"
	pageStub     = "stub"
)

var pageFiles = map[string]string{
	pageHome:     "templates/pages/home.html",
	pageTrade:    "templates/pages/trade.html",
	pageTrending: "templates/pages/trending.html",
	pageStub:     "templates/pages/stub.html",
}

// Renderer owns the parsed page and fragment templates. It is safe for concurrent use.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

func NewRenderer() (*Renderer, error) {
	fragments, err := template.New("fragments").Funcs(templateFuncs()).ParseFS(assets, "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragment templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for name, file := range pageFiles {
		tmpl, err := template.New(name).Funcs(templateFuncs()).ParseFS(assets,
			"templates/layout.html",
			"templates/fragments/*.html",
			file,
		)
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, fragments: fragments}, nil
}

// Page renders a full document. Output is buffered so a template error never leaves a partial
// page on the wire.
func (r *Renderer) Page(w io.Writer, name string, data layoutData) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := tmpl.ExecuteTemplate(buf, "layout", data); err != nil {
		return fmt.Errorf("render page %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Fragment renders one named fragment to a string for a live patch.
func (r *Renderer) Fragment(name string, data any) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := r.fragments.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("render fragment %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatNumber": trade.FormatNumber,
		"oneDecimal":   func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
		"wholeNumber":  wholeNumber,
		"signed":       signed,
		"optInt":       optInt,
		"rowNumber":    rowNumber,
		"hasPosition":  func(s trending.ViewState, pos string) bool { return slices.Contains(s.Positions, pos) },
		"sideLower":    func(s trade.Side) string { return s.Lower() },
		"upper":        strings.ToUpper,
	}
}

// wholeNumber rounds half away from zero, matching how the table has always shown valuations.
func wholeNumber(v float64) string {
	r := math.Round(v)
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}

// rowNumber numbers table rows from the page the backend answered with, falling back to the
// requested page while nothing is loaded.
func rowNumber(view usecase.TrendingView, i int) int {
	if p := view.Page; p != nil && p.Page > 0 && p.PageSize > 0 {
		return (p.Page-1)*p.PageSize + i + 1
	}
	return view.State.RowNumber(i)
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
