// file: internals/features/school/report_cards/render/html_renderer.go
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"
	"github.com/pkg/errors"

	"schoolku_backend/internals/features/school/report_cards/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const reportCardView = "report_card"

// HTMLRenderer: service.Renderer berbasis template engine fiber (tampilan cetak rapor)
type HTMLRenderer struct {
	engine *html.Engine
}

var _ service.Renderer = (*HTMLRenderer)(nil)

func NewEngine() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// embed path tetap; gagal di sini = bug build
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("score", func(v float64) string { return fmt.Sprintf("%.2f", v) })
	engine.AddFunc("semester", func(s string) string {
		if s == "" {
			return ""
		}
		return strings.ToUpper(s[:1]) + s[1:]
	})
	engine.AddFunc("inc", func(i int) int { return i + 1 })
	return engine
}

func NewHTMLRenderer(engine *html.Engine) (*HTMLRenderer, error) {
	if err := engine.Load(); err != nil {
		return nil, errors.Wrap(err, "load report card templates")
	}
	return &HTMLRenderer{engine: engine}, nil
}

func (r *HTMLRenderer) Render(ctx context.Context, doc service.ReportCardDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, reportCardView, doc); err != nil {
		return nil, errors.Wrap(err, "render report card")
	}
	return buf.Bytes(), nil
}
