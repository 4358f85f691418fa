package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/navigation"
	"github.com/drummonds/userportal/theme"
)

// TopNavigation is the header bar. On narrow screens (Compact) its links
// fold behind a menu button.
type TopNavigation struct {
	app.Compo
	AppName string
	Path    string
	Items   []navigation.Item
	Account []navigation.Item
	Theme   *theme.Provider
	Compact bool

	menuOpen     bool
	userMenuOpen bool
}

// ActiveIDs returns the ids this bar highlights
func (n *TopNavigation) ActiveIDs() []string {
	return navigation.ActiveIDs(n.Path, n.Items)
}

// OnNav closes any open menu after navigation
func (n *TopNavigation) OnNav(ctx app.Context) {
	n.closeMenus()
}

// Render renders the navigation bar
func (n *TopNavigation) Render() app.UI {
	class := "top-nav"
	if n.Compact {
		class += " compact"
	}
	return app.Nav().
		Class(class).
		Aria("label", "Main").
		Body(
			app.Div().Class("top-nav-brand").Body(
				n.menuButton(),
				app.A().Href("/user/dashboard").Body(app.H1().Text(n.AppName)),
			),
			n.renderItems(),
			app.Div().Class("top-nav-actions").Body(
				&ThemeSwitcher{Theme: n.Theme, Variant: SwitcherButton},
				n.renderUserMenu(),
			),
		)
}

func (n *TopNavigation) menuButton() app.UI {
	if !n.Compact {
		return nil
	}
	icon := navigation.Icon("menu")
	if n.menuOpen {
		icon = navigation.Icon("close")
	}
	return app.Button().
		Class("menu-toggle").
		Aria("label", "Menu").
		Aria("expanded", n.menuOpen).
		OnClick(n.onToggleMenu).
		Text(icon)
}

func (n *TopNavigation) renderItems() app.UI {
	if n.Compact && !n.menuOpen {
		return nil
	}
	return app.Div().Class("top-nav-menu").Body(
		app.Range(n.Items).Slice(func(i int) app.UI {
			return navLink("top-nav", n.Path, n.Items[i])
		}),
	)
}

func (n *TopNavigation) renderUserMenu() app.UI {
	var menu app.UI
	if n.userMenuOpen {
		menu = app.Div().Class("user-menu").Body(
			app.Range(n.Account).Slice(func(i int) app.UI {
				return navLink("user-menu", n.Path, n.Account[i])
			}),
		)
	}
	return app.Div().Class("user-menu-wrapper").Body(
		app.Button().
			Class("user-menu-toggle").
			Aria("label", "Account").
			Aria("expanded", n.userMenuOpen).
			OnClick(n.onToggleUserMenu).
			Text(navigation.Icon("user")),
		menu,
	)
}

func (n *TopNavigation) onToggleMenu(ctx app.Context, e app.Event) {
	n.toggleMenu()
}

func (n *TopNavigation) onToggleUserMenu(ctx app.Context, e app.Event) {
	n.toggleUserMenu()
}

// toggleMenu opens or closes the compact link menu; the user menu closes.
func (n *TopNavigation) toggleMenu() {
	n.menuOpen = !n.menuOpen
	n.userMenuOpen = false
}

// toggleUserMenu opens or closes the account menu; the link menu closes.
func (n *TopNavigation) toggleUserMenu() {
	n.userMenuOpen = !n.userMenuOpen
	n.menuOpen = false
}

func (n *TopNavigation) closeMenus() {
	n.menuOpen = false
	n.userMenuOpen = false
}
