package webapp

import (
	"net/http"
	"regexp"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/navigation"
	"github.com/drummonds/userportal/theme"
)

// themeBootScript sets data-theme before the wasm loads so the first paint
// already has the right colours. It reads the same key the provider writes
// and, like the provider, only accepts an exact mode name.
func themeBootScript(def theme.Mode) string {
	return `<script>(function(){try{var m=localStorage.getItem('` + theme.DefaultStorageKey + `');` +
		`if(m!=='light'&&m!=='dark'&&m!=='system'){m='` + def.String() + `'}` +
		`var d=m==='dark'||(m==='system'&&window.matchMedia&&window.matchMedia('(prefers-color-scheme: dark)').matches);` +
		`var r=document.documentElement;r.setAttribute('data-theme',d?'dark':'light');r.setAttribute('data-theme-mode',m);` +
		`if(d){r.classList.add('dark')}}catch(e){}})();</script>`
}

// RegisterRoutes maps every portal entry to its page. Sub paths such as
// /user/messages/42 render the parent entry.
func RegisterRoutes() {
	home := func() app.Composer { return &PortalPage{PageID: "dashboard"} }
	app.Route("/", home)
	app.Route("/user", home)
	app.Route("/user/", home)
	for _, item := range navigation.Portal().All() {
		id := item.ID
		app.RouteWithRegexp("^"+regexp.QuoteMeta(item.Href)+"(/.*)?$", func() app.Composer {
			return &PortalPage{PageID: id}
		})
	}
}

// Handler returns an HTTP handler for the web app. defaultTheme is the
// configured mode used until the user picks one.
func Handler(name, defaultTheme string) http.Handler {
	def := defaultMode(defaultTheme)
	RegisterRoutes()
	app.RunWhenOnBrowser()

	// wasm_exec.js is served at /wasm_exec.js by Echo
	// app.wasm is served from /web/app.wasm by Echo
	return &app.Handler{
		Name:        name,
		Description: "Self-service user portal",
		Icon: app.Icon{
			Default: "/favicon.ico",
		},
		Styles: []string{
			"/webapp/webapp.css",
		},
		RawHeaders: []string{
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			themeBootScript(def),
		},
		Env: map[string]string{
			DefaultThemeEnv: def.String(),
		},
	}
}
