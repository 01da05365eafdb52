package web

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"resty.dev/v3"

	"github.com/leonardcser/overlay-art/internal/cache"
	"github.com/leonardcser/overlay-art/internal/logger"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultLocationURL = "http://ip-api.com/json/"

	locationTimeout = 3 * time.Second
	forecastTimeout = 5 * time.Second

	locationKey     = "weather|location"
	lastLocationKey = "weather|location|last"
)

// ErrOffline is returned when no forecast could be fetched.
var ErrOffline = errors.New("weather: offline")

// Location is a resolved pair of coordinates.
type Location struct {
	Lat  string `json:"lat"`
	Lon  string `json:"lon"`
	City string `json:"city,omitempty"`
}

// Conditions is the current weather.
type Conditions struct {
	Temperature float64
	Code        int
	IsDay       bool
}

// WeatherOptions configures a WeatherClient.
type WeatherOptions struct {
	ForecastURL string
	LocationURL string

	AutoDetect  bool
	DefaultLat  string
	DefaultLon  string
	LocationTTL time.Duration

	// Retries is the total number of forecast attempts.
	Retries   int
	RetryWait time.Duration
}

// WeatherClient fetches the current conditions from open-meteo, resolving
// the location from the caller's IP when auto detection is on.
type WeatherClient struct {
	forecast *resty.Client
	locate   *resty.Client
	kv       cache.KV
	opts     WeatherOptions
}

// NewWeatherClient returns a client. kv may be nil, in which case the
// location is resolved on every call.
func NewWeatherClient(kv cache.KV, opts WeatherOptions) *WeatherClient {
	if opts.ForecastURL == "" {
		opts.ForecastURL = DefaultForecastURL
	}
	if opts.LocationURL == "" {
		opts.LocationURL = DefaultLocationURL
	}
	if opts.Retries < 1 {
		opts.Retries = 1
	}

	forecast := resty.New().
		SetTimeout(forecastTimeout).
		SetHeader("User-Agent", NextUserAgent()).
		SetRetryCount(opts.Retries - 1).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(opts.RetryWait).
		AddRetryConditions(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= 500
		})
	locate := resty.New().
		SetTimeout(locationTimeout).
		SetHeader("User-Agent", NextUserAgent())

	return &WeatherClient{forecast: forecast, locate: locate, kv: kv, opts: opts}
}

// Close releases the idle connections of both HTTP clients.
func (w *WeatherClient) Close() error {
	return errors.Join(w.forecast.Close(), w.locate.Close())
}

// Location returns the coordinates to query. It never fails: a fresh
// cached location wins, then a new lookup, then the last known location,
// then the configured defaults.
func (w *WeatherClient) Location(ctx context.Context) Location {
	def := Location{Lat: w.opts.DefaultLat, Lon: w.opts.DefaultLon}
	if !w.opts.AutoDetect {
		return def
	}

	var loc Location
	if w.kv != nil {
		if err := cache.GetJSON(w.kv, locationKey, &loc); err == nil && loc.Lat != "" {
			return loc
		}
	}

	loc, err := w.lookup(ctx)
	if err == nil {
		if w.kv != nil {
			if err := cache.PutJSON(w.kv, locationKey, loc, w.opts.LocationTTL); err != nil {
				logger.Warnf("weather: cache location: %v", err)
			}
			if err := cache.PutJSON(w.kv, lastLocationKey, loc, 0); err != nil {
				logger.Warnf("weather: cache location: %v", err)
			}
		}
		return loc
	}
	logger.Warnf("weather: locate: %v", err)

	if w.kv != nil {
		var last Location
		if err := cache.GetJSON(w.kv, lastLocationKey, &last); err == nil && last.Lat != "" {
			return last
		}
	}
	return def
}

type ipAPIResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	City   string  `json:"city"`
}

func (w *WeatherClient) lookup(ctx context.Context) (Location, error) {
	var body ipAPIResponse
	resp, err := w.locate.R().
		SetContext(ctx).
		SetResult(&body).
		Get(w.opts.LocationURL)
	if err != nil {
		return Location{}, err
	}
	if resp.IsError() {
		return Location{}, fmt.Errorf("location request failed with status %d", resp.StatusCode())
	}
	if body.Status != "success" {
		return Location{}, fmt.Errorf("location status %q", body.Status)
	}
	return Location{
		Lat:  strconv.FormatFloat(body.Lat, 'f', -1, 64),
		Lon:  strconv.FormatFloat(body.Lon, 'f', -1, 64),
		City: body.City,
	}, nil
}

type forecastResponse struct {
	Current struct {
		Temperature *float64 `json:"temperature_2m"`
		WeatherCode *int     `json:"weather_code"`
		IsDay       *int     `json:"is_day"`
	} `json:"current"`
}

// Current returns the current conditions, retrying transient failures.
// Missing fields default to 0 °C, code 0 and daytime.
func (w *WeatherClient) Current(ctx context.Context) (Conditions, error) {
	loc := w.Location(ctx)

	var body forecastResponse
	resp, err := w.forecast.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":        loc.Lat,
			"longitude":       loc.Lon,
			"current":         "temperature_2m,weather_code,is_day",
			"wind_speed_unit": "ms",
		}).
		SetResult(&body).
		Get(w.opts.ForecastURL)
	if err != nil {
		return Conditions{}, fmt.Errorf("%w: %v", ErrOffline, err)
	}
	if resp.IsError() {
		return Conditions{}, fmt.Errorf("%w: status %d", ErrOffline, resp.StatusCode())
	}

	c := Conditions{IsDay: true}
	if v := body.Current.Temperature; v != nil {
		c.Temperature = *v
	}
	if v := body.Current.WeatherCode; v != nil {
		c.Code = *v
	}
	if v := body.Current.IsDay; v != nil {
		c.IsDay = *v != 0
	}
	return c, nil
}
