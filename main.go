package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	config "github.com/drummonds/userportal/config"
	database "github.com/drummonds/userportal/database"
	engine "github.com/drummonds/userportal/engine"
	"github.com/drummonds/userportal/lite"
	"github.com/drummonds/userportal/navigation"
	"github.com/drummonds/userportal/theme"
	"github.com/drummonds/userportal/webapp"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// injectGlobals injects all of our globals into their packages
func injectGlobals(logger *slog.Logger) {
	Logger = logger
	database.Logger = Logger
	config.Logger = Logger
	engine.Logger = Logger
	theme.Logger = Logger
}

// registerRoutes wires the API, the lite pages and the go-app UI onto e
func registerRoutes(e *echo.Echo, serverHandler *engine.ServerHandler, appHandler echo.HandlerFunc) {
	api := e.Group("/api", serverHandler.ThemeContext)
	api.GET("/navigation", serverHandler.GetNavigation)
	api.GET("/navigation/search", serverHandler.SearchNavigation)
	api.GET("/theme", serverHandler.GetTheme)
	api.PUT("/theme", serverHandler.UpdateTheme)
	api.GET("/messages", serverHandler.GetMessages)
	api.POST("/messages", serverHandler.CreateMessage)
	api.POST("/messages/read-all", serverHandler.MarkAllRead)
	api.POST("/messages/:id/read", serverHandler.MarkMessageRead)
	api.GET("/about", serverHandler.GetAboutInfo)

	// Server rendered pages for browsers without wasm
	e.GET("/lite/*", lite.Handler(serverHandler.ServerConfig.FrontEndConfig.AppName, serverHandler.BadgeCounts), serverHandler.ThemeContext)

	if appHandler == nil {
		return
	}
	// Serve wasm_exec.js (go-app expects it here)
	e.GET("/wasm_exec.js", func(c echo.Context) error {
		return c.File("web/wasm_exec.js")
	})

	// Register go-app specific resources
	e.GET("/app.js", appHandler)
	e.GET("/app.css", appHandler)
	e.GET("/manifest.webmanifest", appHandler)

	// Serve static assets
	e.Static("/web", "web")
	e.File("/webapp/webapp.css", "webapp/webapp.css")

	// Serve go-app handler for all other routes (must be last)
	e.Any("/*", appHandler)
}

func main() {
	// Parse command-line flags
	devMode := flag.Bool("dev", false, "Run in development mode with ephemeral PostgreSQL")
	flag.Parse()

	serverConfig, logger := config.SetupServer()
	injectGlobals(logger) //inject the logger into all of the packages

	// Setup database based on dev mode or configuration
	var db database.DBInterface
	if *devMode {
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println("🚀  DEVELOPMENT MODE - Ephemeral PostgreSQL")
		fmt.Println(strings.Repeat("=", 50))
		fmt.Println("• Preferences and messages are destroyed on exit")
		fmt.Println(strings.Repeat("=", 50) + "\n")

		Logger.Info("Starting ephemeral PostgreSQL for development")
		ephemeralDB, err := database.SetupEphemeralPostgresDatabase()
		if err != nil {
			Logger.Error("Failed to setup ephemeral PostgreSQL", "error", err)
			os.Exit(1)
		}
		db = ephemeralDB
		// Ensure cleanup happens on exit
		defer func() {
			Logger.Info("Shutting down ephemeral PostgreSQL...")
			ephemeralDB.Close()
		}()
	} else {
		Logger.Info("About to setup database", "type", serverConfig.DatabaseType)
		var err error
		db, err = database.SetupDatabase(serverConfig.DatabaseType, serverConfig.DatabaseConnString, serverConfig.SQLitePath)
		if err != nil {
			Logger.Error("Failed to setup database", "type", serverConfig.DatabaseType, "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}
	Logger.Info("Database setup complete, about to setup search DB")
	searchDB, err := database.SetupSearchDB(navigation.Portal().All())
	if err != nil {
		Logger.Error("Unable to setup index database", "error", err)
		os.Exit(1)
	}
	defer searchDB.Close()

	e := echo.New()
	serverHandler := &engine.ServerHandler{
		DB:           db,
		SearchDB:     searchDB,
		Echo:         e,
		ServerConfig: serverConfig,
		Badges:       engine.NewBadgeCache(),
	}
	scheduler, err := serverHandler.InitializeSchedules()
	if err != nil {
		Logger.Error("Unable to start schedules", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	e.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	Logger.Info("Setting up go-app WASM UI")
	registerRoutes(e, serverHandler, echo.WrapHandler(webapp.Handler(serverConfig.FrontEndConfig.AppName, serverConfig.DefaultThemeMode)))

	if serverConfig.ListenAddrIP == "" {
		Logger.Info("No Ip Addr set, binding on ALL addresses")
	}

	Logger.Info("Starting HTTP server")

	// Try to start server with automatic port increment if port is in use
	maxRetries := 5
	startPort := serverConfig.ListenAddrPort
	var startErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		addr := fmt.Sprintf("%s:%s", serverConfig.ListenAddrIP, serverConfig.ListenAddrPort)
		Logger.Info("Attempting to start server", "address", addr, "attempt", attempt+1)

		startErr = e.Start(addr)

		if startErr != nil && isAddressInUse(startErr) {
			Logger.Warn("Port already in use, trying next port",
				"port", serverConfig.ListenAddrPort,
				"attempt", attempt+1,
				"max_attempts", maxRetries)

			serverConfig.ListenAddrPort = nextPort(serverConfig.ListenAddrPort)

			if attempt == maxRetries-1 {
				Logger.Error("Failed to find available port after maximum retries",
					"start_port", startPort,
					"end_port", serverConfig.ListenAddrPort,
					"max_retries", maxRetries)
				os.Exit(1)
			}
		} else if startErr != nil {
			Logger.Error("Failed to start server", "error", startErr)
			os.Exit(1)
		} else {
			break
		}
	}

	if startErr == nil && serverConfig.ListenAddrPort != startPort {
		Logger.Warn("Server started on alternative port due to conflicts",
			"requested_port", startPort,
			"actual_port", serverConfig.ListenAddrPort)
	}
}

// nextPort returns port+1, or port unchanged if it isn't a number
func nextPort(port string) string {
	portNum := 0
	if _, err := fmt.Sscanf(port, "%d", &portNum); err != nil {
		return port
	}
	return fmt.Sprintf("%d", portNum+1)
}

// isAddressInUse checks if the error is due to address already in use
func isAddressInUse(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "address already in use")
}
