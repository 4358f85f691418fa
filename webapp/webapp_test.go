package webapp

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drummonds/userportal/navigation"
	"github.com/drummonds/userportal/theme"
)

func newProvider(t *testing.T) *theme.Provider {
	t.Helper()
	p := theme.NewProvider(theme.Options{
		Storage: theme.NewMemoryStorage(),
		Scheme:  theme.NewManualScheme(false),
	})
	p.Mount()
	t.Cleanup(p.Close)
	return p
}

var (
	anchorTag = regexp.MustCompile(`<a\s[^>]*>`)
	idAttr    = regexp.MustCompile(`\bid="([^"]+)"`)
)

// currentIDs returns, in document order, the item ids of the links the
// rendered html marks as the current page.
func currentIDs(html, prefix string) []string {
	ids := []string{}
	for _, tag := range anchorTag.FindAllString(html, -1) {
		if !strings.Contains(tag, `aria-current="page"`) {
			continue
		}
		m := idAttr.FindStringSubmatch(tag)
		if m == nil || !strings.HasPrefix(m[1], prefix+"-") {
			continue
		}
		ids = append(ids, strings.TrimPrefix(m[1], prefix+"-"))
	}
	return ids
}

func TestRenderedBarsMarkTheSameItems(t *testing.T) {
	nav := navigation.Portal()
	p := newProvider(t)
	paths := []string{"/", "/user/dashboard", "/user/messages", "/user/messages/42", "/user/messagesx", "/user/help", "/user/settings/theme", ""}
	for _, path := range paths {
		top := app.HTMLString(&TopNavigation{Path: path, Items: nav.Primary, Account: nav.Account, Theme: p})
		bottom := app.HTMLString(&BottomNavigation{Path: path, Items: nav.Primary})
		sidebar := &SidebarNavigation{Path: path, Items: nav.Primary, Sections: nav.Sections}
		side := app.HTMLString(sidebar)

		want := navigation.ActiveIDs(path, nav.Primary)
		assert.Equal(t, want, currentIDs(top, "top-nav"), "top %q", path)
		assert.Equal(t, want, currentIDs(bottom, "bottom-nav"), "bottom %q", path)

		// the sidebar also shows the open sections
		visible := append(append([]navigation.Item{}, nav.Primary...), nav.Secondary...)
		assert.Equal(t, navigation.ActiveIDs(path, visible), currentIDs(side, "sidebar"), "sidebar %q", path)

		sidebar.toggleSection(navigation.SectionAccount)
		assert.Equal(t, navigation.ActiveIDs(path, nav.All()), currentIDs(app.HTMLString(sidebar), "sidebar"), "sidebar expanded %q", path)
	}
}

func TestLayoutBarsAgree(t *testing.T) {
	p := newProvider(t)
	for _, width := range []int{0, 500, 800, 1280} {
		l := &UserPortalLayout{Theme: p, path: "/user/documents/2024", width: width}
		html := app.HTMLString(l)
		bars := navigation.AffordancesFor(width)
		want := []string{"documents"}
		if !bars.Compact {
			assert.Equal(t, want, currentIDs(html, "top-nav"), "width %d", width)
		}
		if bars.Sidebar {
			assert.Equal(t, want, currentIDs(html, "sidebar"), "width %d", width)
		} else {
			assert.NotContains(t, html, `class="sidebar"`, "width %d", width)
		}
		if bars.Bottom {
			assert.Equal(t, want, currentIDs(html, "bottom-nav"), "width %d", width)
		} else {
			assert.NotContains(t, html, "bottom-nav", "width %d", width)
		}
	}
}

func TestSidebarSections(t *testing.T) {
	s := &SidebarNavigation{}
	assert.True(t, s.Expanded(navigation.SectionSecondary))
	assert.False(t, s.Expanded(navigation.SectionAccount))

	assert.True(t, s.toggleSection(navigation.SectionAccount))
	assert.True(t, s.Expanded(navigation.SectionSecondary), "toggling one section leaves the other alone")

	assert.False(t, s.toggleSection(navigation.SectionSecondary))
	assert.True(t, s.Expanded(navigation.SectionAccount))

	s.OnInit()
	assert.True(t, s.Expanded(navigation.SectionSecondary))
	assert.False(t, s.Expanded(navigation.SectionAccount))
}

func TestTopNavigationMenus(t *testing.T) {
	n := &TopNavigation{Compact: true}
	n.toggleMenu()
	assert.True(t, n.menuOpen)

	n.toggleUserMenu()
	assert.True(t, n.userMenuOpen)
	assert.False(t, n.menuOpen, "only one menu is open at a time")

	n.closeMenus()
	assert.False(t, n.menuOpen)
	assert.False(t, n.userMenuOpen)
}

func TestThemeSwitcherCycles(t *testing.T) {
	p := newProvider(t)
	s := &ThemeSwitcher{Theme: p, Variant: SwitcherButton}

	require.Equal(t, theme.System, p.Mode())
	assert.Equal(t, theme.Light, s.cycle().Mode)
	assert.Equal(t, theme.Dark, s.cycle().Mode)
	assert.Equal(t, theme.System, s.cycle().Mode)
	assert.Equal(t, theme.System, p.Mode())
}

func TestRenderWithoutProviderPanics(t *testing.T) {
	assert.PanicsWithValue(t, theme.ErrNoProvider, func() {
		(&ThemeSwitcher{}).Render()
	})
	assert.PanicsWithValue(t, theme.ErrNoProvider, func() {
		(&UserPortalLayout{}).Render()
	})
}

func TestLayoutMountDoesNotFetch(t *testing.T) {
	var paths []string
	fetchJSON = func(ctx app.Context, path string, opts map[string]any, out any, done func(error)) {
		paths = append(paths, path)
	}
	t.Cleanup(func() { fetchJSON = browserFetchJSON })

	e := app.NewTestEngine()
	l := &UserPortalLayout{Theme: newProvider(t)}
	require.NoError(t, e.Load(l))
	e.ConsumeAll()

	assert.Empty(t, paths, "navigation is fetched by OnNav, not on mount")
	assert.Equal(t, navigation.Portal().Primary, l.navigation().Primary)
}

func TestLayoutRenders(t *testing.T) {
	l := &UserPortalLayout{Theme: newProvider(t)}
	assert.NotNil(t, l.Render())
	assert.Equal(t, DefaultAppName, l.appName())
	assert.Equal(t, navigation.Portal().Primary, l.navigation().Primary)
}

func TestBadge(t *testing.T) {
	assert.Nil(t, badge(0))
	assert.Nil(t, badge(-3))
	assert.Contains(t, app.HTMLString(badge(1)), ">1</span>")
	assert.Contains(t, app.HTMLString(badge(9)), ">9</span>")
	assert.Contains(t, app.HTMLString(badge(10)), ">9+</span>")
	assert.Contains(t, app.HTMLString(badge(12)), ">9+</span>")
}

func TestRenderedBadges(t *testing.T) {
	items := navigation.Portal().WithBadges(map[string]int{"messages": 9, "documents": 10}).Primary
	html := app.HTMLString(&BottomNavigation{Path: "/user/dashboard", Items: items})
	assert.Contains(t, html, ">9</span>")
	assert.Contains(t, html, ">9+</span>")
	assert.Equal(t, 2, strings.Count(html, "nav-badge"), "items without unread show no badge")
}

func TestDefaultMode(t *testing.T) {
	assert.Equal(t, theme.Dark, defaultMode("dark"))
	assert.Equal(t, theme.Light, defaultMode(" Light "))
	assert.Equal(t, theme.System, defaultMode(""))
	assert.Equal(t, theme.System, defaultMode("sepia"))
}

func TestThemeBootScriptUsesDefault(t *testing.T) {
	script := themeBootScript(theme.Dark)
	assert.Contains(t, script, "localStorage.getItem('"+theme.DefaultStorageKey+"')")
	assert.Contains(t, script, "{m='dark'}")
	assert.Contains(t, themeBootScript(theme.System), "{m='system'}")
}

func TestThemeUpdateRequest(t *testing.T) {
	req := themeUpdateRequest(theme.Light)
	assert.Equal(t, "PUT", req["method"])

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(req["body"].(string)), &body))
	assert.Equal(t, map[string]string{"mode": "light"}, body)
}

func TestBadgeCounts(t *testing.T) {
	nav := navigation.Portal().WithBadges(map[string]int{"messages": 4, "notifications": 2})
	counts := badgeCounts(nav)
	assert.Equal(t, map[string]int{"messages": 4, "notifications": 2}, counts)
}

func TestShortcutsSkipDashboard(t *testing.T) {
	items := shortcuts(navigation.Portal(), map[string]int{"finance": 1})
	for _, item := range items {
		assert.NotEqual(t, "dashboard", item.ID)
	}
	finance, ok := navigation.Find(items, "finance")
	require.True(t, ok)
	assert.Equal(t, 1, finance.Badge)
}

func TestMarkAllResult(t *testing.T) {
	assert.Equal(t, "No unread messages.", markAllResult(0))
	assert.Equal(t, "Marked 1 message as read.", markAllResult(1))
	assert.Equal(t, "Marked 5 messages as read.", markAllResult(5))
}
