package pesapal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/dukasoft/shop-services/reconciler/pkg/httpclient"
)

const (
	RequestTokenEndpoint       = "/api/Auth/RequestToken"
	TransactionStatusEndpoint  = "/api/Transactions/GetTransactionStatus"
	tokenExpirySafetyMargin    = 30 * time.Second
	tokenExpiryDateLayout      = "2006-01-02T15:04:05.999Z"
	tokenExpiryDefaultValidity = 5 * time.Minute
)

type Client interface {
	RequestToken(ctx context.Context) (string, error)
	GetTransactionStatus(ctx context.Context, orderTrackingID string) (TransactionStatusResponse, error)
}

type client struct {
	httpClient httpclient.HTTPClient
	config     Config

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config, httpClient httpclient.HTTPClient) Client {
	return &client{config: cfg, httpClient: httpClient}
}

// RequestToken exchanges the consumer credentials for a bearer token. Tokens
// are cached until shortly before their expiry.
func (c *client) RequestToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	var buf bytes.Buffer
	request := tokenRequest{ConsumerKey: c.config.ConsumerKey, ConsumerSecret: c.config.ConsumerSecret}
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return "", fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}

	resp, err := c.httpClient.Post(ctx, c.config.BaseURL+RequestTokenEndpoint, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}

		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return "", MapStatusToError(resp.StatusCode)
	}

	var response tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decoding error: %w", err)
	}

	if response.Token == "" {
		return "", fmt.Errorf("%w: empty token in response", ErrUnauthorized)
	}

	c.token = response.Token
	c.tokenExpiry = parseTokenExpiry(response.ExpiryDate)

	return c.token, nil
}

func (c *client) GetTransactionStatus(ctx context.Context, orderTrackingID string) (TransactionStatusResponse, error) {
	token, err := c.RequestToken(ctx)
	if err != nil {
		return TransactionStatusResponse{}, err
	}

	headers := map[string]string{
		"Accept":        "application/json",
		"Authorization": "Bearer " + token,
	}

	statusURL := c.config.BaseURL + TransactionStatusEndpoint + "?orderTrackingId=" + url.QueryEscape(orderTrackingID)

	resp, err := c.httpClient.Get(ctx, statusURL, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return TransactionStatusResponse{}, ErrTimeout
		}

		return TransactionStatusResponse{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusUnauthorized {
		c.invalidateToken()
		return TransactionStatusResponse{}, ErrUnauthorized
	}

	if resp.StatusCode != StatusOK {
		return TransactionStatusResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response TransactionStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return TransactionStatusResponse{}, fmt.Errorf("decoding error: %w", err)
	}

	return response, nil
}

func (c *client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.tokenExpiry = time.Time{}
}

func parseTokenExpiry(expiryDate string) time.Time {
	expiry, err := time.Parse(tokenExpiryDateLayout, expiryDate)
	if err != nil {
		return time.Now().Add(tokenExpiryDefaultValidity)
	}

	return expiry.Add(-tokenExpirySafetyMargin)
}
