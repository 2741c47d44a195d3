package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
)

// CountryRepository resolves country codes to a display name and flag.
type CountryRepository interface {
	Lookup(ctx context.Context, code string) (*model.Country, error)
}

// countryRepository talks to REST Countries and keeps answers for the life of
// the process.
type countryRepository struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.Mutex
	cache map[string]model.Country
}

// NewCountryRepository creates a new country repository instance
func NewCountryRepository(httpClient ...*http.Client) CountryRepository {
	client := &http.Client{Timeout: openWeatherSettings().Timeout}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &countryRepository{
		httpClient: client,
		baseURL:    config.GetCountriesBaseURL(),
		cache:      map[string]model.Country{},
	}
}

func (r *countryRepository) Lookup(ctx context.Context, code string) (*model.Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrCountryNotFound
	}

	r.mu.Lock()
	cached, ok := r.cache[code]
	r.mu.Unlock()
	if ok {
		return &cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/alpha/"+url.PathEscape(code), nil)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCountryNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &NetworkError{StatusCode: resp.StatusCode, Message: errorBody(resp.Body).Message}
	}

	var data []model.RestCountry
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to parse countries response: %w", err)}
	}
	if len(data) == 0 || data[0].Name.Common == "" {
		return nil, ErrCountryNotFound
	}

	country := data[0].Country(code)
	r.mu.Lock()
	r.cache[code] = *country
	r.mu.Unlock()
	return country, nil
}
