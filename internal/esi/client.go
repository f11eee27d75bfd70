// Package esi talks to the authoritative game-data API. It cross-confirms
// killboard entries via killmail detail lookups and serves insurance and
// item-type data for claim enrichment.
package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal ESI HTTP client with a bounded timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an ESI client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// KillmailVictim identifies who suffered the loss and what was destroyed.
type KillmailVictim struct {
	CharacterID int64 `json:"character_id"`
	ShipTypeID  int64 `json:"ship_type_id"`
}

// Killmail is the authoritative loss record, addressable by id+hash.
type Killmail struct {
	KillmailID int64          `json:"killmail_id"`
	Victim     KillmailVictim `json:"victim"`
}

// InsuranceLevel is one payout tier offered against loss of an item type.
type InsuranceLevel struct {
	Name   string  `json:"name"`
	Cost   float64 `json:"cost"`
	Payout float64 `json:"payout"`
}

// InsurancePrice lists the insurance tiers for one item type.
type InsurancePrice struct {
	TypeID int64            `json:"type_id"`
	Levels []InsuranceLevel `json:"levels"`
}

// Killmail fetches the killmail detail record by id and verification hash.
// Returns (nil, nil) when the API has no usable data for this call
// (not-modified, malformed content, client error); the caller decides
// whether that absence is fatal.
func (c *Client) Killmail(ctx context.Context, killmailID int64, hash string) (*Killmail, error) {
	var km Killmail
	ok, err := c.getJSON(ctx, fmt.Sprintf("/killmails/%d/%s/", killmailID, hash), &km)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &km, nil
}

// InsurancePrices fetches the full insurance price dataset. An empty slice
// means "no insurance data this call" and is not an error.
func (c *Client) InsurancePrices(ctx context.Context) ([]InsurancePrice, error) {
	var prices []InsurancePrice
	ok, err := c.getJSON(ctx, "/insurance/prices/", &prices)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return prices, nil
}

// InsuranceForType linear-scans the price dataset for the given item type.
// Missing data degrades to nil rather than blocking the caller.
func (c *Client) InsuranceForType(ctx context.Context, typeID int64) ([]InsuranceLevel, error) {
	prices, err := c.InsurancePrices(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range prices {
		if p.TypeID == typeID {
			return p.Levels, nil
		}
	}
	return nil, nil
}

// TypeName resolves an item type id to its display name. Degrades to an
// empty string when the API has no data.
func (c *Client) TypeName(ctx context.Context, typeID int64) (string, error) {
	var t struct {
		Name string `json:"name"`
	}
	ok, err := c.getJSON(ctx, fmt.Sprintf("/universe/types/%d/", typeID), &t)
	if err != nil || !ok {
		return "", err
	}
	return t.Name, nil
}

// getJSON performs a GET and decodes the JSON body into dst. It collapses
// "no data" responses to (false, nil) instead of raising: not-modified,
// malformed content and client errors all mean "empty result this call".
// Transport failures and server errors surface as errors.
func (c *Client) getJSON(ctx context.Context, path string, dst interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build ESI request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("ESI request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return false, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return false, nil
	case resp.StatusCode >= 500:
		return false, fmt.Errorf("ESI returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return false, fmt.Errorf("failed to read ESI response: %w", err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		// Malformed content is treated as no data, not a failure
		return false, nil
	}

	return true, nil
}
