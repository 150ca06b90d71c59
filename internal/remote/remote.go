// Package remote fetches the recipe list from the remote JSON endpoint.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RecipeSync/RecipeSync/internal/db/models"
)

const maxResponseSize = 50 * 1024 * 1024

// recipe is the wire representation of one element of the endpoint's array.
type recipe struct {
	RecipeID           int64  `json:"recipeId"`
	RecipeName         string `json:"recipeName"`
	RecipePhotoURL     string `json:"recipePhotoUrl"`
	RecipeInstructions string `json:"recipeInstructions"`
}

// Client fetches recipes from a single endpoint.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the http client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.HTTPClient = c
	}
}

// WithTimeout sets an overall request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.HTTPClient = &http.Client{Transport: cl.HTTPClient.Transport, Timeout: d}
		}
	}
}

// New creates a client for url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		URL:        url,
		HTTPClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchAll issues one GET against the endpoint and returns the decoded recipes.
// Remote identifiers are dropped, returned recipes carry no local ID.
// An empty array or a JSON null yields an empty slice and no error.
func (c *Client) FetchAll(ctx context.Context) ([]models.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrNetworkFailure, err)
	}

	req.Header.Set("Accept", "application/json")

	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", c.URL).Msg("recipe fetch failed")

		return nil, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Warn().Int("status", resp.StatusCode).Str("url", c.URL).Msg("recipe fetch failed")

		return nil, &StatusError{URL: c.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrNetworkFailure, err)
	}

	var wire []recipe
	if err = json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	out := make([]models.Recipe, 0, len(wire))
	for _, r := range wire {
		out = append(out, models.Recipe{
			Name:         r.RecipeName,
			PhotoURL:     r.RecipePhotoURL,
			Instructions: r.RecipeInstructions,
		})
	}

	log.Debug().
		Int("count", len(out)).
		Dur("elapsed", time.Since(start)).
		Str("url", c.URL).
		Msg("recipes fetched")

	return out, nil
}
