package killboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrRecordNotFound means the killboard has no verifiable entry for the
// requested kill id (empty lookup result or missing verification hash).
var ErrRecordNotFound = errors.New("loss record not found")

// LossRecordError wraps transport and HTTP failures from the killboard or
// game-data services. Callers present a generic "could not verify" message
// and abort claim creation; the underlying cause is kept for logging.
type LossRecordError struct {
	Op  string
	Err error
}

func (e *LossRecordError) Error() string {
	return fmt.Sprintf("loss record lookup failed (%s): %v", e.Op, e.Err)
}

func (e *LossRecordError) Unwrap() error {
	return e.Err
}

// LossRecord is a verified killboard entry: the record id, the verification
// hash used to cross-check against the authoritative game-data API, and the
// loss value read from the configured zkb value field.
type LossRecord struct {
	KillID int64
	Hash   string
	Value  float64
}

// zkbEntry mirrors one element of the killboard lookup response.
type zkbEntry struct {
	KillmailID int64 `json:"killmail_id"`
	Zkb        struct {
		Hash           string  `json:"hash"`
		TotalValue     float64 `json:"totalValue"`
		FittedValue    float64 `json:"fittedValue"`
		DestroyedValue float64 `json:"destroyedValue"`
		DroppedValue   float64 `json:"droppedValue"`
	} `json:"zkb"`
}

// Client fetches verified loss records from a zkillboard-compatible service.
type Client struct {
	baseURL    string
	valueField string
	httpClient *http.Client
}

// NewClient creates a killboard client. valueField selects which reported
// value field is trusted as the loss value.
func NewClient(baseURL, valueField string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		valueField: valueField,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Lookup fetches the killboard entry for the given kill id.
// An empty result or an entry without a verification hash yields
// ErrRecordNotFound; transport and HTTP errors are wrapped in a
// LossRecordError so the request cycle never crashes on upstream failure.
func (c *Client) Lookup(ctx context.Context, killID int64) (*LossRecord, error) {
	url := fmt.Sprintf("%s/api/killID/%d/", c.baseURL, killID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LossRecordError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &LossRecordError{Op: "killboard request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LossRecordError{Op: "killboard request", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &LossRecordError{Op: "read response", Err: err}
	}

	var entries []zkbEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &LossRecordError{Op: "decode response", Err: err}
	}

	if len(entries) == 0 {
		return nil, ErrRecordNotFound
	}

	entry := entries[0]
	if entry.Zkb.Hash == "" {
		return nil, ErrRecordNotFound
	}
	if entry.KillmailID == 0 {
		entry.KillmailID = killID
	}

	return &LossRecord{
		KillID: entry.KillmailID,
		Hash:   entry.Zkb.Hash,
		Value:  c.selectValue(entry),
	}, nil
}

// selectValue reads the configured value field; unknown fields default to 0
// rather than failing.
func (c *Client) selectValue(entry zkbEntry) float64 {
	switch c.valueField {
	case "fittedValue":
		return entry.Zkb.FittedValue
	case "destroyedValue":
		return entry.Zkb.DestroyedValue
	case "droppedValue":
		return entry.Zkb.DroppedValue
	case "totalValue", "":
		return entry.Zkb.TotalValue
	default:
		return 0
	}
}
