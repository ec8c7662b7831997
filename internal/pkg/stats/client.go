// Package stats is a thin HTTP client for the hit-counting service. The
// service is an optional dependency: every call is best effort, failures are
// logged and never propagate into request handling.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eborodin/eventum/internal/pkg/logger"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// Client talks to the stats service. A zero-value base URL disables it.
type Client struct {
	http    *http.Client
	baseURL string
	app     string
}

// NewClient creates a stats client. When baseURL is empty the client is
// disabled: Hit becomes a no-op and Views returns no counts.
func NewClient(baseURL, app string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		app:     app,
	}
}

type hitPayload struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type viewStat struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Hit records a visit to a URI. Errors are logged, never returned.
func (c *Client) Hit(ctx context.Context, uri, ip string) {
	if c.baseURL == "" {
		return
	}

	payload := hitPayload{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: time.Now().Format(dateTimeLayout),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal stats hit")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build stats hit request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("uri", uri).Msg("Stats hit failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Warn().Int("status", resp.StatusCode).Str("uri", uri).Msg("Stats hit rejected")
	}
}

// Views retrieves view counts per event. The result maps event ID to hit
// count; events without hits are absent. On any failure an empty map is
// returned and the error is logged.
func (c *Client) Views(ctx context.Context, eventIDs []int64, unique bool) map[int64]int64 {
	views := make(map[int64]int64, len(eventIDs))
	if c.baseURL == "" || len(eventIDs) == 0 {
		return views
	}

	params := url.Values{}
	params.Set("start", "2000-01-01 00:00:00")
	params.Set("end", time.Now().Format(dateTimeLayout))
	params.Set("unique", strconv.FormatBool(unique))
	for _, id := range eventIDs {
		params.Add("uris", fmt.Sprintf("/events/%d", id))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build stats views request")
		return views
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("Stats views failed")
		return views
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn().Int("status", resp.StatusCode).Msg("Stats views rejected")
		return views
	}

	var stats []viewStat
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode stats views")
		return views
	}

	for _, stat := range stats {
		idPart := strings.TrimPrefix(stat.URI, "/events/")
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			continue
		}
		views[id] = stat.Hits
	}
	return views
}
