package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	config "github.com/drummonds/userportal/config"
	engine "github.com/drummonds/userportal/engine"
)

// getBrowser finds a chromium based browser for testing
func getBrowser() (string, error) {
	browsers := []string{"chromium", "chromium-browser", "google-chrome", "chrome"}
	for _, browser := range browsers {
		if path, err := exec.LookPath(browser); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no suitable browser found")
}

// TestLiteRendering loads a lite page in a headless browser and checks the
// current link and theme attribute the browser ends up with
func TestLiteRendering(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	browserPath, err := getBrowser()
	if err != nil {
		t.Skip("No browser (Chrome or Chromium) found, skipping browser test")
	}
	t.Logf("Using browser: %s", browserPath)

	e, _ := setupTestServer(t)
	server := httptest.NewServer(e)
	defer server.Close()

	rec := serve(e, http.MethodPut, "/api/theme", `{"mode":"dark"}`, "guest")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(browserPath),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancel()
	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pageTitle, dataTheme, current string
	var ok bool
	err = chromedp.Run(ctx,
		chromedp.Navigate(server.URL+"/lite/user/messages/12"),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Title(&pageTitle),
		chromedp.AttributeValue("html", "data-theme", &dataTheme, &ok, chromedp.ByQuery),
		chromedp.Text(`a[aria-current="page"]`, &current, chromedp.ByQuery),
	)
	if err != nil {
		t.Fatalf("Browser run failed: %v", err)
	}

	if pageTitle != "Test Portal" {
		t.Errorf("Expected title Test Portal, got %q", pageTitle)
	}
	if !ok || dataTheme != "dark" {
		t.Errorf("Expected data-theme dark, got %q", dataTheme)
	}
	if !strings.Contains(current, "Messages") {
		t.Errorf("Expected Messages to be the current link, got %q", current)
	}
}

// TestConfigFileLoads reads the shipped config file the way main does
func TestConfigFileLoads(t *testing.T) {
	serverConfig, logger := config.SetupServer()
	if logger == nil {
		t.Fatal("Expected a logger")
	}
	injectGlobals(logger)
	if engine.Logger != logger {
		t.Error("Expected the engine logger to be injected")
	}
	if serverConfig.ListenAddrPort == "" {
		t.Error("Expected a listen port")
	}
	if serverConfig.DatabaseType == "sqlite" && !filepath.IsAbs(serverConfig.SQLitePath) {
		t.Errorf("Expected an absolute sqlite path, got %s", serverConfig.SQLitePath)
	}
}
