package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/navigation"
	"github.com/drummonds/userportal/theme"
)

// DefaultAppName is shown in the top bar when the layout has no AppName.
const DefaultAppName = "User Portal"

// UserPortalLayout is the shell of every portal page. It picks the bars for
// the viewport and hands them the same path and items, so they always agree
// on the active entry.
type UserPortalLayout struct {
	app.Compo
	AppName string
	Theme   *theme.Provider
	Content app.UI

	path          string
	width         int
	nav           navigation.Config
	stopObserving func()
}

// OnMount is called when the component is mounted
func (l *UserPortalLayout) OnMount(ctx app.Context) {
	p := theme.Must(l.Theme)
	p.Mount()
	l.stopObserving = p.Observe(func(theme.State) {
		ctx.Dispatch(func(ctx app.Context) {})
	})
	l.path = app.Window().URL().Path
	l.width, _ = app.Window().Size()
	l.nav = navigation.Portal()
}

// OnNav is called on every in-app navigation, the first load included
func (l *UserPortalLayout) OnNav(ctx app.Context) {
	l.path = ctx.Page().URL().Path
	l.fetchNavigation(ctx)
}

// OnResize is called when the browser window is resized
func (l *UserPortalLayout) OnResize(ctx app.Context) {
	l.width, _ = app.Window().Size()
}

// OnDismount is called when the component is removed
func (l *UserPortalLayout) OnDismount() {
	if l.stopObserving != nil {
		l.stopObserving()
		l.stopObserving = nil
	}
}

// Render renders the layout
func (l *UserPortalLayout) Render() app.UI {
	state := theme.Must(l.Theme).State()
	nav := l.navigation()
	bars := navigation.AffordancesFor(l.width)

	class := "portal-layout theme-" + state.EffectiveMode.String()
	if bars.Sidebar {
		class += " with-sidebar"
	}
	if bars.Bottom {
		class += " with-bottom-nav"
	}

	var top, side, bottom app.UI
	if bars.Top {
		top = app.Header().Body(&TopNavigation{
			AppName: l.appName(),
			Path:    l.path,
			Items:   nav.Primary,
			Account: nav.Account,
			Theme:   l.Theme,
			Compact: bars.Compact,
		})
	}
	if bars.Sidebar {
		side = &SidebarNavigation{Path: l.path, Items: nav.Primary, Sections: nav.Sections}
	}
	if bars.Bottom {
		bottom = &BottomNavigation{Path: l.path, Items: nav.Primary}
	}

	return app.Div().
		Class(class).
		Body(
			top,
			app.Div().Class("portal-body").Body(
				side,
				app.Main().Class("content").Body(l.Content),
			),
			bottom,
		)
}

func (l *UserPortalLayout) appName() string {
	if l.AppName == "" {
		return DefaultAppName
	}
	return l.AppName
}

func (l *UserPortalLayout) navigation() navigation.Config {
	if l.nav.Primary == nil {
		return navigation.Portal()
	}
	return l.nav
}

// fetchNavigation refreshes the badge counts from the server. The item lists
// themselves stay the built-in ones; only counts are taken from the response.
func (l *UserPortalLayout) fetchNavigation(ctx app.Context) {
	var payload navigation.Config
	fetchJSON(ctx, "/api/navigation?path="+escapeQuery(l.path), nil, &payload, func(err error) {
		if err != nil {
			return
		}
		l.nav = navigation.Portal().WithBadges(badgeCounts(payload))
	})
}

// badgeCounts collects the non-zero badges of every list in c.
func badgeCounts(c navigation.Config) map[string]int {
	counts := map[string]int{}
	for _, item := range c.All() {
		if item.Badge > 0 {
			counts[item.ID] = item.Badge
		}
	}
	return counts
}
