package tools

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/overlay-art/internal/source"
	"github.com/leonardcser/overlay-art/internal/web"
	"github.com/leonardcser/overlay-art/internal/widget"
)

// Handler is the signature of an MCP tool handler.
type Handler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// CoverHandler returns the handler for the "render-cover" tool.
func CoverHandler(w *widget.Widgets) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		out, err := w.Cover(ctx)
		if errors.Is(err, source.ErrNotPlaying) {
			return mcp.NewToolResultText("Nothing is playing."), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// WeatherHandler returns the handler for the "render-weather" tool. With
// format=text it returns the one-line report instead of a directive.
func WeatherHandler(w *widget.Widgets) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		if strings.EqualFold(optionalString(req, "format"), "text") {
			return mcp.NewToolResultText(w.WeatherText(ctx)), nil
		}
		out, err := w.WeatherDirective(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// RingsHandler returns the handler for the "render-rings" tool.
func RingsHandler(w *widget.Widgets) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		out, err := w.Rings(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// WeatherIconHandler returns the handler for the "render-weather-icon"
// tool, which renders the weather row for an explicit code and temperature
// without any network access.
func WeatherIconHandler(w *widget.Widgets) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("code")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		code, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return mcp.NewToolResultError("code must be an integer WMO weather code"), nil
		}
		c := web.Conditions{Code: code, IsDay: true}
		if v := optionalString(req, "is_day"); v != "" {
			day, err := strconv.ParseBool(v)
			if err != nil {
				return mcp.NewToolResultError("is_day must be true or false"), nil
			}
			c.IsDay = day
		}
		if v := optionalString(req, "temperature"); v != "" {
			t, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return mcp.NewToolResultError("temperature must be a number"), nil
			}
			c.Temperature = t
		}
		res, err := w.Renderer.Render(ctx, w.WeatherRequest(c))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(res.Path), nil
	}
}

func optionalString(req mcp.CallToolRequest, name string) string {
	v, err := req.RequireString(name)
	if err != nil {
		return ""
	}
	return v
}
