package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/routecast/service-routes/internal/domain/route"
	"github.com/routecast/service-routes/internal/domain/weather"
)

const currentWeatherPath = "/data/2.5/weather"

// Client is the OpenWeatherMap current-weather adapter.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type currentResponse struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Current implements weather.Provider.
func (c *Client) Current(ctx context.Context, at route.Position) (*weather.Snapshot, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(at.Lng, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+currentWeatherPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &weather.Error{Op: "request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &weather.Error{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &weather.Error{Op: "request", Err: fmt.Errorf("weather API returned HTTP %d", resp.StatusCode)}
	}

	var data currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &weather.Error{Op: "decode", Err: err}
	}
	if data.Main == nil || data.Main.Temp == nil || data.Main.Humidity == nil {
		return nil, &weather.Error{Op: "decode", Err: errors.New("response missing main.temp or main.humidity")}
	}
	if len(data.Weather) == 0 {
		return nil, &weather.Error{Op: "decode", Err: errors.New("response missing weather conditions")}
	}

	snapshot := &weather.Snapshot{
		TemperatureC:    *data.Main.Temp,
		Description:     data.Weather[0].Description,
		HumidityPercent: int(math.Round(*data.Main.Humidity)),
	}
	c.logger.Debug("weather received",
		zap.Float64("lat", at.Lat),
		zap.Float64("lng", at.Lng),
		zap.Float64("temperature_c", snapshot.TemperatureC),
	)
	return snapshot, nil
}
