package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"blog_section/internal/section"
)

//go:embed templates/*.html
var templateFS embed.FS

// DateLayout renders dates like "Jan 05, 24".
const DateLayout = "Jan 02, 06"

var functions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(DateLayout)
	},
	"seq": func(n int) []int {
		if n < 0 {
			n = 0
		}
		return make([]int, n)
	},
}

// PageData is the input of a full landing page.
type PageData struct {
	Title string
	State section.State
	// Refresh, in seconds, asks the browser to reload a page rendered
	// before the section settled.
	Refresh int
}

// Renderer executes the embedded page and section templates. It is safe for
// concurrent use.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates once.
func New() (*Renderer, error) {
	ts, err := template.New("").Funcs(functions).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: ts}, nil
}

// Page renders a complete HTML document. Nothing is written to w on error.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.execute(w, "page", data)
}

// Fragment renders the section alone.
func (r *Renderer) Fragment(w io.Writer, st section.State) error {
	return r.execute(w, "section", st)
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	buf := new(bytes.Buffer)
	if err := r.templates.ExecuteTemplate(buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
