package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/overlay-art/internal/cache"
	"github.com/leonardcser/overlay-art/internal/config"
	"github.com/leonardcser/overlay-art/internal/logger"
	"github.com/leonardcser/overlay-art/internal/render"
	"github.com/leonardcser/overlay-art/internal/source"
	"github.com/leonardcser/overlay-art/internal/tools"
	"github.com/leonardcser/overlay-art/internal/web"
	"github.com/leonardcser/overlay-art/internal/widget"
)

const usage = `usage: overlay-art <command> [flags]

commands:
  cover     render the now-playing badge
  weather   render the weather row (-text for the one-line report)
  rings     render the CPU / RAM / SSD rings
  serve     run an MCP server on stdio exposing the widgets`

func main() {
	if err := logger.InitFromEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	defer logger.Close()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.Errorf("%s: %v", os.Args[1], err)
		stop()
		logger.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	text := fs.Bool("text", false, "weather: print the one-line report instead of an image directive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Load()
	app, err := newApp(cfg, cmd == "weather" || cmd == "serve")
	if err != nil {
		return err
	}
	defer app.close()

	var out string
	switch cmd {
	case "cover":
		out, err = app.widgets.Cover(ctx)
		if errors.Is(err, source.ErrNotPlaying) {
			logger.Debugf("cover: %v", err)
			return nil
		}
	case "weather":
		if *text {
			out = app.widgets.WeatherText(ctx)
		} else {
			out, err = app.widgets.WeatherDirective(ctx)
		}
	case "rings":
		out, err = app.widgets.Rings(ctx)
	case "serve":
		return serve(app.widgets)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

type app struct {
	widgets *widget.Widgets
	weather *web.WeatherClient
	kv      *cache.Store
}

func newApp(cfg config.Config, withWeather bool) (*app, error) {
	store := cache.NewAssetStore(cfg.CacheDir, cache.AssetOptions{})
	a := &app{widgets: &widget.Widgets{
		Config:   cfg,
		Renderer: render.New(cfg, store),
		Tracks:   source.NewPlayer(cfg.Player),
		Covers:   web.NewCoverFetcher(),
		Usage:    source.NewSysStat(),
	}}
	if !withWeather {
		return a, nil
	}

	kv, err := cache.Open(cfg.KVPath, cache.Options{})
	if err != nil {
		// The location is then looked up on every call.
		logger.Warnf("state store %s: %v", cfg.KVPath, err)
	} else {
		a.kv = kv
	}
	var state cache.KV
	if a.kv != nil {
		state = a.kv
	}
	a.weather = web.NewWeatherClient(state, web.WeatherOptions{
		AutoDetect:  cfg.AutoDetect,
		DefaultLat:  cfg.DefaultLat,
		DefaultLon:  cfg.DefaultLon,
		LocationTTL: cfg.LocationTTL,
		Retries:     cfg.WeatherRetries,
		RetryWait:   cfg.WeatherRetryWait,
	})
	a.widgets.Weather = a.weather
	return a, nil
}

func (a *app) close() {
	if a.weather != nil {
		_ = a.weather.Close()
	}
	if a.kv != nil {
		_ = a.kv.Close()
	}
}

func serve(w *widget.Widgets) error {
	logger.Infof("Starting overlay-art MCP server")
	s := server.NewMCPServer(
		"overlay-art",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("render-cover",
		mcp.WithDescription(multiline(
			"Renders the now-playing album-art badge and returns its conky image directive",
			"- Returns a notice when no player is playing or paused",
		)),
	), tools.CoverHandler(w))

	s.AddTool(mcp.NewTool("render-weather",
		mcp.WithDescription(multiline(
			"Renders the current weather row (icon, temperature, condition)",
			"- Returns a conky image directive, or a text directive when offline",
			"- With format=text returns the one-line report such as \"+12°c clear sky\"",
		)),
		mcp.WithString("format", mcp.Description("\"directive\" (default) or \"text\"")),
	), tools.WeatherHandler(w))

	s.AddTool(mcp.NewTool("render-rings",
		mcp.WithDescription("Renders the CPU, RAM and SSD usage rings and returns the conky image directive"),
	), tools.RingsHandler(w))

	s.AddTool(mcp.NewTool("render-weather-icon",
		mcp.WithDescription("Renders the weather row for an explicit WMO code without network access and returns the PNG path"),
		mcp.WithString("code", mcp.Required(), mcp.Description("WMO weather code, e.g. 0 or 95")),
		mcp.WithString("is_day", mcp.Description("true (default) or false")),
		mcp.WithString("temperature", mcp.Description("Temperature in °C")),
	), tools.WeatherIconHandler(w))

	logger.Infof("Starting MCP server on stdio")
	return server.ServeStdio(s)
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }
