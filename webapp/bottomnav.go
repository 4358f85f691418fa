package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/navigation"
)

// BottomNavigation is the tab bar shown on phones.
type BottomNavigation struct {
	app.Compo
	Path  string
	Items []navigation.Item
}

// ActiveIDs returns the ids this bar highlights
func (b *BottomNavigation) ActiveIDs() []string {
	return navigation.ActiveIDs(b.Path, b.Items)
}

// Render renders the tab bar
func (b *BottomNavigation) Render() app.UI {
	return app.Nav().
		Class("bottom-nav").
		Aria("label", "Sections").
		Body(
			app.Range(b.Items).Slice(func(i int) app.UI {
				return navLink("bottom-nav", b.Path, b.Items[i])
			}),
		)
}
