package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the service catalog. Booking denormalizes the duration,
// price and name it returns into the appointment row at commit time.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient creates a catalog client.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService fetches one service of a business.
func (c *Client) GetService(ctx context.Context, businessID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/services/%d", c.baseURL, businessID, serviceID)

	body, err := c.get(ctx, url, ErrServiceNotFound)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var service Service
	if err := json.NewDecoder(body).Decode(&service); err != nil {
		return nil, fmt.Errorf("%w: failed to decode service: %w", ErrInvalidResponse, err)
	}
	if service.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service %d has non-positive duration", ErrInvalidResponse, serviceID)
	}

	return &service, nil
}

// GetBundle fetches one bundle of a business.
func (c *Client) GetBundle(ctx context.Context, businessID, bundleID int64) (*Bundle, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/bundles/%d", c.baseURL, businessID, bundleID)

	body, err := c.get(ctx, url, ErrBundleNotFound)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var bundle Bundle
	if err := json.NewDecoder(body).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("%w: failed to decode bundle: %w", ErrInvalidResponse, err)
	}
	if bundle.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: bundle %d has non-positive duration", ErrInvalidResponse, bundleID)
	}

	return &bundle, nil
}

func (c *Client) get(ctx context.Context, url string, notFound error) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("catalog request failed: %s: %v", url, err)
		return nil, fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusBadRequest:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: invalid identifier", ErrInvalidResponse)
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}
}
