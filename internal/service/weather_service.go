package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dom/weather-gate/internal/config"
	"github.com/dom/weather-gate/internal/domain"
)

const maxProviderResponseBytes = 1 << 20

// WeatherService proxies the OpenWeather geocoding and current-conditions APIs.
type WeatherService struct {
	baseURL    string
	apiKey     string
	lang       string
	units      string
	days       int
	httpClient *http.Client
}

func NewWeatherService(cfg *config.Config) *WeatherService {
	return &WeatherService{
		baseURL: cfg.OpenWeatherBaseURL,
		apiKey:  cfg.OpenWeatherAPIKey,
		lang:    cfg.WeatherLang,
		units:   cfg.WeatherUnits,
		days:    cfg.ForecastDays,
		httpClient: &http.Client{
			Timeout: cfg.WeatherTimeout,
		},
	}
}

type geocodeMatch struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Forecast geocodes city and returns the current conditions repeated for
// the configured number of days.
func (s *WeatherService) Forecast(ctx context.Context, city string) ([]domain.ConditionsReport, error) {
	loc, err := s.ResolveLocation(ctx, city)
	if err != nil {
		return nil, err
	}

	report, err := s.FetchConditions(ctx, loc)
	if err != nil {
		return nil, err
	}

	return BuildMultiDayView(report, s.days), nil
}

func (s *WeatherService) ResolveLocation(ctx context.Context, city string) (*domain.Location, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", s.apiKey)

	body, err := s.get(ctx, "/geo/1.0/direct", query)
	if err != nil {
		return nil, err
	}

	var matches []geocodeMatch
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("%w: decode geocode response: %v", domain.ErrExternalProvider, err)
	}

	if len(matches) == 0 {
		return nil, domain.ErrLocationNotFound
	}

	return &domain.Location{Lat: matches[0].Lat, Lon: matches[0].Lon}, nil
}

// FetchConditions returns the provider payload as-is; only its JSON syntax is checked.
func (s *WeatherService) FetchConditions(ctx context.Context, loc *domain.Location) (domain.ConditionsReport, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	query.Set("appid", s.apiKey)
	if s.lang != "" {
		query.Set("lang", s.lang)
	}
	if s.units != "" {
		query.Set("units", s.units)
	}

	body, err := s.get(ctx, "/data/2.5/weather", query)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: conditions response is not valid JSON", domain.ErrExternalProvider)
	}

	return domain.ConditionsReport(body), nil
}

func (s *WeatherService) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := s.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrExternalProvider, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// The error text carries the URL, which includes the API key.
		return nil, fmt.Errorf("%w: GET %s failed", domain.ErrExternalProvider, path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrExternalProvider, path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s returned %d", domain.ErrExternalProvider, path, resp.StatusCode)
	}

	return body, nil
}

// BuildMultiDayView repeats report days times. The provider call used here
// returns current conditions only, so every day carries the same report.
func BuildMultiDayView(report domain.ConditionsReport, days int) []domain.ConditionsReport {
	if days < 0 {
		days = 0
	}

	view := make([]domain.ConditionsReport, days)
	for i := range view {
		view[i] = report
	}
	return view
}
