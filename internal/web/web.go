// Package web renders the server-side HTML pages.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

//go:embed views
var viewsFS embed.FS

const layout = "layouts/main"

// NewEngine returns the template engine over the embedded views.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("money", Money)
	engine.AddFunc("date", func(t time.Time) string { return t.Format("2006-01-02") })
	engine.AddFunc("datetime", func(t time.Time) string { return t.Format("2006-01-02 15:04") })
	engine.AddFunc("inputDate", func(t time.Time) string { return t.Format("2006-01-02T15:04") })
	return engine
}

// Money formats an amount with two decimals and thousands separators.
func Money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var out []byte
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + string(out) + frac
}

// Page is the binding every view receives.
type Page struct {
	Title   string
	User    *auth.Identity
	Flashes []auth.Flash
	Data    interface{}
	Now     time.Time
}

type Renderer struct {
	sessions *auth.SessionManager
	now      func() time.Time
}

func NewRenderer(sessions *auth.SessionManager) *Renderer {
	return &Renderer{sessions: sessions, now: time.Now}
}

// Render draws view inside the main layout. Queued session flashes are shown
// before the extra flashes passed for this response.
func (r *Renderer) Render(c *fiber.Ctx, view, title string, data interface{}, flashes ...auth.Flash) error {
	page := Page{
		Title:   title,
		User:    auth.GetIdentity(c),
		Flashes: append(r.sessions.PopFlashes(c), flashes...),
		Data:    data,
		Now:     r.now(),
	}
	return c.Render(view, page, layout)
}

// Redirect queues a flash message and redirects to the given location.
func (r *Renderer) Redirect(c *fiber.Ctx, location, category, message string) error {
	r.sessions.AddFlash(c, category, message)
	return c.Redirect(location)
}

func Error(message string) auth.Flash {
	return auth.Flash{Category: auth.FlashError, Message: message}
}
