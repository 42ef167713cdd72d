package geo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	apperrors "dining-recommender/internal/common/errors"
	apphttp "dining-recommender/internal/common/http"
	"dining-recommender/internal/common/logger"
	"dining-recommender/internal/common/metrics"
	"dining-recommender/internal/models"
)

const DefaultGoogleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

type GoogleConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// GoogleResolver queries the Google Geocoding API. Without an API key it
// resolves nothing and makes no requests.
type GoogleResolver struct {
	config  *GoogleConfig
	client  *apphttp.Client
	limiter *rate.Limiter
	logger  logger.Logger
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func NewGoogleResolver(config *GoogleConfig, log logger.Logger) *GoogleResolver {
	if config.BaseURL == "" {
		config.BaseURL = DefaultGoogleGeocodeURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	limit := rate.Inf
	if config.RatePerSecond > 0 {
		limit = rate.Limit(config.RatePerSecond)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	return &GoogleResolver{
		config:  config,
		client:  apphttp.NewClient(config.Timeout),
		limiter: rate.NewLimiter(limit, burst),
		logger:  log.WithFields(map[string]interface{}{"component": "geocoder", "provider": "google"}),
	}
}

func (g *GoogleResolver) Resolve(ctx context.Context, text string) (*models.Coordinate, error) {
	if g.config.APIKey == "" || text == "" {
		return nil, nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		metrics.GeocodeRequests.WithLabelValues("rate_limited").Inc()
		return nil, apperrors.NewGeocodeTimeoutError(fmt.Errorf("%w: rate limiter: %v", ErrGeocodeTimeout, err))
	}

	params := url.Values{}
	params.Set("address", text)
	params.Set("key", g.config.APIKey)

	var body geocodeResponse
	if err := g.client.GetJSON(ctx, g.config.BaseURL+"?"+params.Encode(), &body); err != nil {
		if errors.Is(err, apphttp.ErrTimeout) {
			metrics.GeocodeRequests.WithLabelValues("timeout").Inc()
			return nil, apperrors.NewGeocodeTimeoutError(fmt.Errorf("%w: %v", ErrGeocodeTimeout, err))
		}
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, apperrors.NewGeocodeFailedError(fmt.Errorf("%w: %v", ErrGeocodeFailed, err))
	}

	switch body.Status {
	case "OK":
		if len(body.Results) == 0 {
			metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
			return nil, nil
		}
		loc := body.Results[0].Geometry.Location
		metrics.GeocodeRequests.WithLabelValues("ok").Inc()
		g.logger.Debug("location geocoded", map[string]interface{}{
			"location": text,
			"lat":      loc.Lat,
			"lon":      loc.Lng,
		})
		return &models.Coordinate{Lat: loc.Lat, Lon: loc.Lng}, nil
	case "ZERO_RESULTS":
		metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		return nil, nil
	default:
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, apperrors.NewGeocodeFailedError(fmt.Errorf("%w: status %s: %s", ErrGeocodeFailed, body.Status, body.ErrorMessage))
	}
}
