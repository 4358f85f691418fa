//go:build js && wasm
// +build js,wasm

package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/userportal/webapp"
)

func main() {
	// Same routes as the server side handler
	webapp.RegisterRoutes()

	// This main function is for the WASM build only
	app.RunWhenOnBrowser()
}
