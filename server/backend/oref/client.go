package oref

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
)

const (
	// maxBodyBytes bounds how much of a feed reply is read
	maxBodyBytes = 4 << 20

	// feedTimeout is the transport timeout for one fetch
	feedTimeout = 30 * time.Second
)

// Failure classes absorbed by FetchRaw
var (
	ErrTransport        = errors.New("transport failure")
	ErrUpstreamStatus   = errors.New("upstream status failure")
	ErrMalformedPayload = errors.New("malformed payload")
)

//go:generate mockgen -destination=mocks/mock_feed.go -package=mocks github.com/mattermost/mattermost-plugin-orefalerts/server/backend/oref FeedFetcher

// FeedFetcher fetches the raw alert feed.
type FeedFetcher interface {
	// FetchRaw returns the decoded payload and whether the feed was healthy.
	// It never fails: every failure becomes an empty payload and healthy=false.
	FetchRaw(ctx context.Context) (Payload, bool)
}

// FeedClient reads the Home Front Command alerts feed over HTTP.
// It keeps no state between calls.
type FeedClient struct {
	url        string
	httpClient *http.Client
	logger     backend.Logger
}

// NewFeedClient creates a feed client for the given URL
func NewFeedClient(url string, logger backend.Logger) *FeedClient {
	return &FeedClient{
		url: url,
		httpClient: &http.Client{
			Timeout: feedTimeout,
		},
		logger: logger,
	}
}

// FetchRaw implements FeedFetcher
func (c *FeedClient) FetchRaw(ctx context.Context) (Payload, bool) {
	payload, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("Alert feed unavailable", "url", c.url, "error", err.Error())
		return Payload{Kind: PayloadEmpty}, false
	}

	c.logger.Debug("Fetched alert feed", "kind", payload.Kind.String(), "records", len(payload.Records()))
	return payload, true
}

// fetch performs one request and classifies failures
func (c *FeedClient) fetch(ctx context.Context) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}
	setFeedHeaders(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Payload{}, fmt.Errorf("%w: HTTP %d", ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: failed to read body: %v", ErrTransport, err)
	}

	payload, err := ParsePayload(body)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return payload, nil
}

// setFeedHeaders sets the headers the feed requires. Requests without a
// browser identity and referer are rejected as automated clients.
func setFeedHeaders(h http.Header) {
	h.Set("Accept", "application/json")
	h.Set("Accept-Language", "he-IL,he;q=0.9")
	h.Set("X-Requested-With", "XMLHttpRequest")
	h.Set("Referer", "https://www.oref.org.il/")
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	h.Set("Cache-Control", "no-cache")
}
