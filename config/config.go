package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// Version is reported by /api/about.
const Version = "1.0.0"

// ServerConfig contains all of the server settings defined in the TOML file
type ServerConfig struct {
	ListenAddrIP        string
	ListenAddrPort      string
	DatabaseType        string // sqlite or postgres
	DatabaseConnString  string
	SQLitePath          string
	DefaultThemeMode    string
	ThemeStorageKey     string
	DefaultUser         string
	BadgeRefreshSeconds int
	FrontEndConfig
}

// FrontEndConfig stores all of the frontend settings
type FrontEndConfig struct {
	AppName      string
	ServerAPIURL string
}

func defaultConfig() ServerConfig {
	var serverConfigDefault ServerConfig
	serverConfigDefault.ListenAddrPort = "8000"
	serverConfigDefault.DatabaseType = "sqlite"
	serverConfigDefault.SQLitePath = "databases/portal.db"
	serverConfigDefault.DefaultThemeMode = "system"
	serverConfigDefault.ThemeStorageKey = "theme"
	serverConfigDefault.DefaultUser = "guest"
	serverConfigDefault.BadgeRefreshSeconds = 30
	serverConfigDefault.AppName = "User Portal"
	return serverConfigDefault
}

// SetupServer does the initial configuration
func SetupServer() (ServerConfig, *slog.Logger) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Println("Unable to load .env file: ", err)
	}
	v := viper.New()
	v.AddConfigPath("config/")
	v.AddConfigPath(".")
	v.SetConfigName("serverConfig")
	err := v.ReadInConfig() // Find and read the config file
	if err != nil {         // Handle errors reading the config file
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
	logger := setupLogging(v)
	serverConfigLive := LoadServerConfig(v)
	logger.Info("Base Logger is setup!", "config", v.ConfigFileUsed())
	return serverConfigLive, logger
}

// LoadServerConfig reads a ServerConfig from v, falling back to defaults for
// anything unset. PORTAL_* environment variables override the file.
func LoadServerConfig(v *viper.Viper) ServerConfig {
	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	serverConfigLive := defaultConfig()
	setString := func(key string, dst *string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	setString("serverConfig.ServerPort", &serverConfigLive.ListenAddrPort)
	serverConfigLive.ListenAddrIP = v.GetString("serverConfig.ServerAddr")
	setString("database.Type", &serverConfigLive.DatabaseType)
	setString("database.ConnString", &serverConfigLive.DatabaseConnString)
	setString("database.SQLitePath", &serverConfigLive.SQLitePath)
	setString("portal.DefaultThemeMode", &serverConfigLive.DefaultThemeMode)
	setString("portal.ThemeStorageKey", &serverConfigLive.ThemeStorageKey)
	setString("portal.DefaultUser", &serverConfigLive.DefaultUser)
	setString("portal.AppName", &serverConfigLive.AppName)
	serverConfigLive.ServerAPIURL = v.GetString("serverConfig.APIURL")
	if n := v.GetInt("portal.BadgeRefreshSeconds"); n > 0 {
		serverConfigLive.BadgeRefreshSeconds = n
	}
	serverConfigLive.DatabaseType = strings.ToLower(serverConfigLive.DatabaseType)
	if serverConfigLive.DatabaseType == "sqlite" && serverConfigLive.SQLitePath != ":memory:" {
		sqlitePath, err := filepath.Abs(filepath.ToSlash(serverConfigLive.SQLitePath))
		if err != nil {
			Logger.Error("Failed creating absolute path for sqlite database", "error", err)
		} else {
			serverConfigLive.SQLitePath = sqlitePath
		}
	}
	return serverConfigLive
}

func setupLogging(v *viper.Viper) *slog.Logger {
	logLevelString := v.GetString("logging.Level")
	var loglevel slog.Level
	switch logLevelString {
	case "Debug", "debug":
		loglevel = slog.LevelDebug
	case "Info", "info":
		loglevel = slog.LevelInfo
	case "Warn", "warn":
		loglevel = slog.LevelWarn
	case "Error", "error":
		loglevel = slog.LevelError
	default:
		loglevel = slog.LevelWarn
	}

	var logWriter io.Writer
	logOutput := v.GetString("logging.OutputPath")
	if logOutput == "file" {
		logPath, err := filepath.Abs(filepath.ToSlash(v.GetString("logging.LogFileLocation")))
		if err != nil {
			fmt.Println("Unable to create log file path: ", err)
			logPath = "output.log"
		}
		logFile, err := os.Create(logPath)
		if err != nil {
			fmt.Println("Unable to create log file: ", err)
			logWriter = os.Stdout
		} else {
			logWriter = logFile
			fmt.Println("Logging to file: ", logPath)
		}
	} else {
		logWriter = os.Stdout
		fmt.Println("Will be logging to stdout...")
	}

	opts := &slog.HandlerOptions{
		Level: loglevel,
	}
	handler := slog.NewTextHandler(logWriter, opts)
	logger := slog.New(handler)
	return logger
}
