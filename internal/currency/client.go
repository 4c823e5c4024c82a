// Package currency integrates with an UnbelievaBoat-style economy API to
// award coins on winning guesses.
package currency

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the UnbelievaBoat API root.
const DefaultBaseURL = "https://unbelievaboat.com/api/v1"

// Config configures the currency client.
type Config struct {
	BaseURL    string
	Token      string
	GuildID    string
	HTTPClient *http.Client
}

// Client awards currency through the economy API. A client with a missing or
// placeholder token reports Configured() == false and awards become no-ops at
// the caller.
type Client struct {
	baseURL string
	token   string
	guildID string
	http    *http.Client
}

// NewClient builds a Client, filling in defaults for base URL and transport.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		guildID: cfg.GuildID,
		http:    cfg.HTTPClient,
	}
}

// Configured reports whether a usable API token is set. "0" is the
// conventional placeholder for a disabled integration.
func (c *Client) Configured() bool {
	return c.token != "" && c.token != "0"
}

type awardRequest struct {
	Cash int64 `json:"cash"`
}

// Award adds amount to the user's cash balance.
func (c *Client) Award(ctx context.Context, userID int64, amount int64) error {
	body, err := json.Marshal(awardRequest{Cash: amount})
	if err != nil {
		return fmt.Errorf("failed to encode award request: %w", err)
	}

	url := fmt.Sprintf("%s/guilds/%s/users/%d", c.baseURL, c.guildID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build award request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("award request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("currency API returned %d", resp.StatusCode)
	}
	return nil
}
