package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/navigation"
)

// navLink renders one item the same way in every bar; only the class prefix
// differs. Active state always comes from navigation.IsActive.
func navLink(prefix, path string, item navigation.Item) app.UI {
	class := prefix + "-item"
	a := app.A().
		ID("%s-%s", prefix, item.ID).
		Href("%s", item.Href).
		Title("%s", item.Label)
	if navigation.IsActive(path, item.Href) {
		class += " active"
		a = a.Aria("current", "page")
	}
	return a.Class(class).Body(
		app.Span().Class("nav-icon").Text(navigation.Icon(item.Icon)),
		app.Span().Class("nav-label").Text(item.Label),
		badge(item.Badge),
	)
}

// badge renders the unread count, or nothing for n <= 0.
func badge(n int) app.UI {
	text, show := navigation.BadgeText(n)
	if !show {
		return nil
	}
	return app.Span().Class("nav-badge").Aria("label", text+" unread").Text(text)
}
