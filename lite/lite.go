// Package lite renders the portal shell as plain server-side HTML for
// clients that cannot run the WebAssembly app.
package lite

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/drummonds/userportal/navigation"
	"github.com/drummonds/userportal/theme"
)

// Page is everything one lite render needs.
type Page struct {
	AppName string
	Path    string
	Nav     navigation.Config
	Theme   theme.State
}

// Render builds the full document.
func Render(p Page) g.Node {
	return h.Doctype(
		h.HTML(h.Lang("en"), h.Data("theme", p.Theme.EffectiveMode.String()), h.Class(themeClass(p.Theme)),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(p.AppName)),
				h.Link(h.Rel("stylesheet"), h.Href("/webapp/webapp.css")),
			),
			h.Body(h.Class("portal lite"),
				TopNavigation(p.AppName, p.Path, p.Nav.Primary),
				h.Main(h.Class("portal-content"),
					h.P(g.Textf("You are viewing %s without JavaScript.", p.Path)),
					h.A(h.Href(appHref(p.Path)), g.Text("Open the full portal")),
				),
			),
		),
	)
}

// TopNavigation renders the items as a header bar.
func TopNavigation(appName, path string, items []navigation.Item) g.Node {
	return h.Nav(h.Class("top-nav"), h.Aria("label", "Main"),
		h.Div(h.Class("top-nav-brand"), g.Text(appName)),
		h.Ul(h.Class("top-nav-items"),
			g.Map(items, func(item navigation.Item) g.Node {
				return navLink(path, item)
			}),
		),
	)
}

func navLink(path string, item navigation.Item) g.Node {
	active := navigation.IsActive(path, item.Href)
	class := "nav-item"
	if active {
		class += " active"
	}
	badge, showBadge := navigation.BadgeText(item.Badge)
	return h.Li(
		h.A(h.Href(item.Href), h.Class(class), h.ID("nav-"+item.ID),
			g.If(active, h.Aria("current", "page")),
			h.Span(h.Class("nav-icon"), g.Text(navigation.Icon(item.Icon))),
			h.Span(h.Class("nav-label"), g.Text(item.Label)),
			g.If(showBadge, h.Span(h.Class("nav-badge"), g.Text(badge))),
		),
	)
}

func themeClass(s theme.State) string {
	if s.EffectiveMode == theme.Dark {
		return "dark"
	}
	return "light"
}

func appHref(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") {
		return "/user/dashboard"
	}
	return path
}

// Handler serves /lite/* using the theme provider installed on the request
// and badge counts from counts.
func Handler(appName string, counts func(echo.Context) (map[string]int, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		badges, err := counts(c)
		if err != nil {
			return c.String(http.StatusInternalServerError, "Unable to load navigation")
		}
		page := Page{
			AppName: appName,
			Path:    "/" + c.Param("*"),
			Nav:     navigation.Portal().WithBadges(badges),
			Theme:   theme.FromContext(c.Request().Context()).State(),
		}
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(http.StatusOK)
		return Render(page).Render(c.Response())
	}
}
