package webapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/navigation"
)

var errNetwork = errors.New("network error: could not connect to server")

// fetchJSON calls the API with window.fetch and decodes the JSON reply into
// out. done runs on the UI goroutine once out is filled or the call failed.
var fetchJSON = browserFetchJSON

func browserFetchJSON(ctx app.Context, path string, opts map[string]any, out any, done func(err error)) {
	ctx.Async(func() {
		var res app.Value
		if opts == nil {
			res = app.Window().Call("fetch", path)
		} else {
			res = app.Window().Call("fetch", path, opts)
		}

		res.Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
			if len(args) == 0 {
				return nil
			}
			response := args[0]
			status := response.Get("status").Int()

			response.Call("json").Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
				if len(args) == 0 {
					return nil
				}
				jsonStr := app.Window().Get("JSON").Call("stringify", args[0]).String()

				ctx.Dispatch(func(ctx app.Context) {
					if status < 200 || status >= 300 {
						done(fmt.Errorf("request failed with status: %d", status))
						return
					}
					if err := json.Unmarshal([]byte(jsonStr), out); err != nil {
						done(fmt.Errorf("failed to parse response: %w", err))
						return
					}
					done(nil)
				})
				return nil
			}))
			return nil
		})).Call("catch", app.FuncOf(func(this app.Value, args []app.Value) any {
			ctx.Dispatch(func(ctx app.Context) {
				done(errNetwork)
			})
			return nil
		}))
	})
}

func escapeQuery(s string) string {
	return url.QueryEscape(s)
}

// PortalPage is the routed page for one navigation entry. Every page shares
// the browser-wide theme provider.
type PortalPage struct {
	app.Compo
	PageID string
}

// Render renders the page inside the portal layout
func (p *PortalPage) Render() app.UI {
	return &UserPortalLayout{
		Theme:   PortalTheme(),
		Content: pageContent(p.PageID),
	}
}

func pageContent(id string) app.UI {
	switch id {
	case "dashboard":
		return &DashboardPage{}
	case "settings":
		return &SettingsPage{Theme: PortalTheme()}
	}
	item, ok := navigation.Find(navigation.Portal().All(), id)
	if !ok {
		return app.Section().Class("page not-found").Body(
			app.H2().Text("Page not found"),
			app.A().Href("/user/dashboard").Text("Back to the dashboard"),
		)
	}
	return app.Section().Class("page page-"+item.ID).Body(
		app.H2().Text(item.Label),
		app.P().Text("Nothing here yet."),
	)
}

// DashboardPage shows a shortcut card per section with its unread count.
type DashboardPage struct {
	app.Compo
	items   []navigation.Item
	loading bool
	error   string
}

// OnMount is called when the component is mounted
func (d *DashboardPage) OnMount(ctx app.Context) {
	d.items = shortcuts(navigation.Portal(), nil)
	d.loading = true
	d.fetchCounts(ctx)
}

func (d *DashboardPage) fetchCounts(ctx app.Context) {
	var payload navigation.Config
	fetchJSON(ctx, "/api/navigation", nil, &payload, func(err error) {
		d.loading = false
		if err != nil {
			d.error = err.Error()
			return
		}
		d.error = ""
		d.items = shortcuts(navigation.Portal(), badgeCounts(payload))
	})
}

// shortcuts lists every primary and secondary item except the dashboard.
func shortcuts(c navigation.Config, counts map[string]int) []navigation.Item {
	c = c.WithBadges(counts)
	var out []navigation.Item
	for _, item := range append(c.Primary, c.Secondary...) {
		if item.ID == "dashboard" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Render renders the dashboard
func (d *DashboardPage) Render() app.UI {
	var status app.UI
	if d.loading {
		status = app.Div().Class("loading").Text("Loading...")
	} else if d.error != "" {
		status = app.Div().Class("error").Text("Error: " + d.error)
	}

	return app.Section().
		Class("page dashboard-page").
		Body(
			app.H2().Text("Dashboard"),
			status,
			app.Div().Class("shortcut-grid").Body(
				app.Range(d.items).Slice(func(i int) app.UI {
					return &ShortcutCard{Item: d.items[i]}
				}),
			),
		)
}

// ShortcutCard links to one section of the portal
type ShortcutCard struct {
	app.Compo
	Item navigation.Item
}

// Render renders the card
func (s *ShortcutCard) Render() app.UI {
	return app.A().
		Class("shortcut-card").
		Href("%s", s.Item.Href).
		Body(
			app.Div().Class("shortcut-icon").Text(navigation.Icon(s.Item.Icon)),
			app.Div().Class("shortcut-info").Body(
				app.H3().Text(s.Item.Label),
				badge(s.Item.Badge),
			),
		)
}
