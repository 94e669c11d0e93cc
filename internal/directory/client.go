package directory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Sathwik84/charge-ease-find/internal/models"
)

// Client fetches the station catalog from the upstream directory service.
// Distances in the payload are precomputed by the directory; this service
// performs no geocoding of its own.
type Client struct {
	client  *resty.Client
	baseURL string
}

// NewClient builds the directory client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().SetTimeout(timeout)
	return &Client{client: c, baseURL: baseURL}
}

type stationsResponse struct {
	Stations []models.Station `json:"stations"`
}

// FetchCatalog retrieves the full ordered station catalog.
func (c *Client) FetchCatalog(ctx context.Context) ([]models.Station, error) {
	var parsed stationsResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetResult(&parsed).
		Get(fmt.Sprintf("%s/stations", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("directory: fetch stations: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("directory: fetch stations: status %d", res.StatusCode())
	}
	return parsed.Stations, nil
}
