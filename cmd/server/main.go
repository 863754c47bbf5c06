package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jsabazova/suburb-swipe/internal/api"
	"github.com/jsabazova/suburb-swipe/internal/catalog"
	"github.com/jsabazova/suburb-swipe/internal/config"
	"github.com/jsabazova/suburb-swipe/internal/game"
	"github.com/jsabazova/suburb-swipe/internal/ws"
	staticserver "github.com/jsabazova/suburb-swipe/static"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Suburb Swipe - rank Melbourne suburbs one pair at a time

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                 Port to listen on (default: 8080)
  HOST_USER            Username for basic auth on session creation
  HOST_PASS            Password for basic auth on session creation
  SINGLE_SESSION       Allow only one active session (default: true)
  LOG_LEVEL            debug, info, warn or error (default: info)
  MAX_ROUNDS           Decisions per session (default: 20)
  BASELINE_RATING      Starting rating of every item (default: 1200)
  K_MODE               "adaptive" or "constant" (default: adaptive)
  K_BASE               K after the provisional matches (default: 50, or 32 in constant mode)
  K_MEDIUM, K_HIGH     Provisional K-factors (default: 45, 60)
  K_HIGH_BELOW         Matches played below which K_HIGH applies (default: 5)
  K_MEDIUM_BELOW       Matches played below which K_MEDIUM applies (default: 10)
  CATALOG              "melbourne" or "melbourne-extended" (default: melbourne)
  IMAGE_SOURCE         "curated" or "unsplash" (default: curated)
  UNSPLASH_ACCESS_KEY  Unsplash API key (optional)
  UNSPLASH_BASE_URL    Custom Unsplash API base URL (optional)
  EXPORT_ENABLED       Export results to file when a session ends (default: false)
  EXPORT_FILE          Path to export results (default: ./suburb-swipe-results.txt)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Suburb Swipe %s\n", version)
		return
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *portFlag != "" {
		cfg.Port = *portFlag
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	base, err := catalog.Lookup(cfg.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog")
	}
	var src catalog.Source = base
	if cfg.ImageSource == "unsplash" {
		src = catalog.NewUnsplash(cfg.UnsplashAccessKey, cfg.UnsplashBaseURL, base)
	}
	log.Info().Str("catalog", base.Name()).Str("images", cfg.ImageSource).Bool("single", cfg.SingleSession).Msg("config loaded")

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		log.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	rm := game.NewRoomManager(cfg.SingleSession)
	api.New(rm, src, cfg).Register(r)

	io := ws.New(rm, src, cfg).Mount(r)
	defer io.Close()

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
