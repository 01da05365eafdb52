package tools

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/overlay-art/internal/cache"
	"github.com/leonardcser/overlay-art/internal/config"
	"github.com/leonardcser/overlay-art/internal/logger"
	"github.com/leonardcser/overlay-art/internal/render"
	"github.com/leonardcser/overlay-art/internal/source"
	"github.com/leonardcser/overlay-art/internal/web"
	"github.com/leonardcser/overlay-art/internal/widget"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type stoppedPlayer struct{}

func (stoppedPlayer) Current(context.Context) (source.Track, error) {
	return source.Track{}, source.ErrNotPlaying
}

type offlineWeather struct{}

func (offlineWeather) Current(context.Context) (web.Conditions, error) {
	return web.Conditions{}, web.ErrOffline
}

func newWidgets(t *testing.T) *widget.Widgets {
	t.Helper()
	cfg := config.Default()
	cfg.CacheDir = filepath.Join(t.TempDir(), "covers")
	return &widget.Widgets{
		Config:   cfg,
		Renderer: render.New(cfg, cache.NewAssetStore(cfg.CacheDir, cache.AssetOptions{})),
		Tracks:   stoppedPlayer{},
		Weather:  offlineWeather{},
	}
}

func call(t *testing.T, h Handler, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	var text string
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		text = c.Text
	case *mcp.TextContent:
		text = c.Text
	default:
		t.Fatalf("content %T", res.Content[0])
	}
	return text, res.IsError
}

func TestCoverHandlerNotPlaying(t *testing.T) {
	text, isErr := call(t, CoverHandler(newWidgets(t)), nil)
	if isErr || text != "Nothing is playing." {
		t.Errorf("got %q (error=%v)", text, isErr)
	}
}

func TestWeatherHandlerOffline(t *testing.T) {
	w := newWidgets(t)
	text, isErr := call(t, WeatherHandler(w), map[string]any{"format": "text"})
	if isErr || text != "offline" {
		t.Errorf("text format: %q (error=%v)", text, isErr)
	}
	text, isErr = call(t, WeatherHandler(w), nil)
	if isErr || !strings.HasSuffix(text, "offline${font}") {
		t.Errorf("directive: %q (error=%v)", text, isErr)
	}
}

func TestRingsHandlerWithoutSource(t *testing.T) {
	if _, isErr := call(t, RingsHandler(newWidgets(t)), nil); !isErr {
		t.Error("missing usage source not reported")
	}
}

func TestWeatherIconHandler(t *testing.T) {
	w := newWidgets(t)
	text, isErr := call(t, WeatherIconHandler(w), map[string]any{"code": "95", "is_day": "false", "temperature": "-2"})
	if isErr {
		t.Fatalf("error: %s", text)
	}
	if _, err := os.Stat(text); err != nil {
		t.Errorf("rendered path %q: %v", text, err)
	}

	for _, args := range []map[string]any{
		nil,
		{"code": "sunny"},
		{"code": "0", "is_day": "maybe"},
		{"code": "0", "temperature": "warm"},
	} {
		if _, isErr := call(t, WeatherIconHandler(w), args); !isErr {
			t.Errorf("args %v accepted", args)
		}
	}
}
