package misp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kgqa/pkg/logger"
)

// Client talks to a MISP server's REST API. The API key goes into the
// Authorization header on every request.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// EventFilter narrows the /events/index listing. Zero-valued fields
// are not sent.
type EventFilter struct {
	EventID     string
	Tags        []string
	ThreatLevel string
	Analysis    string
	Limit       int
}

// DefaultEventLimit caps an unfiltered event listing.
const DefaultEventLimit = 1000

// NewClient creates a client for the given server. The trailing slash
// of the base URL is dropped.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// TestConnection checks that the server answers and returns its
// version string.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/servers/getVersion", nil)
	if err != nil {
		return "", fmt.Errorf("failed to reach MISP server: %w", err)
	}

	var version struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(body, &version); err != nil {
		return "", fmt.Errorf("unexpected version response: %w", err)
	}
	return version.Version, nil
}

// Events lists events matching the filter, newest first.
func (c *Client) Events(ctx context.Context, filter EventFilter) ([]map[string]any, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	params := url.Values{
		"limit": {strconv.Itoa(limit)},
		"page":  {"1"},
		"order": {"Event.timestamp desc"},
	}
	if filter.EventID != "" {
		params.Set("eventid", filter.EventID)
	}
	if len(filter.Tags) > 0 {
		params.Set("tags", strings.Join(filter.Tags, ","))
	}
	if filter.ThreatLevel != "" {
		params.Set("threatlevel", filter.ThreatLevel)
	}
	if filter.Analysis != "" {
		params.Set("analysis", filter.Analysis)
	}

	body, err := c.get(ctx, "/events/index", params)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	// /events/index answers either {"Event": […]} or a bare list.
	var wrapped struct {
		Event []map[string]any `json:"Event"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Event != nil {
		return wrapped.Event, nil
	}
	var events []map[string]any
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("unexpected event listing response: %w", err)
	}
	return events, nil
}

// EventDetails fetches one event with its full attribute, object,
// galaxy and tag payload.
func (c *Client) EventDetails(ctx context.Context, eventID string) (map[string]any, error) {
	body, err := c.get(ctx, "/events/view/"+url.PathEscape(eventID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}

	var wrapped struct {
		Event map[string]any `json:"Event"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected event response for %s: %w", eventID, err)
	}
	if wrapped.Event == nil {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	return wrapped.Event, nil
}

// DownloadEvents fetches the full detail of every event matching the
// filter. A single failing event is logged and skipped.
func (c *Client) DownloadEvents(ctx context.Context, filter EventFilter) ([]map[string]any, error) {
	if filter.EventID != "" {
		event, err := c.EventDetails(ctx, filter.EventID)
		if err != nil {
			return nil, err
		}
		return []map[string]any{event}, nil
	}

	listing, err := c.Events(ctx, filter)
	if err != nil {
		return nil, err
	}

	events := make([]map[string]any, 0, len(listing))
	for _, entry := range listing {
		id := eventID(entry)
		if id == "" {
			continue
		}
		event, err := c.EventDetails(ctx, id)
		if err != nil {
			logger.Warn("Failed to fetch event details", "eventId", id, "err", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s answered %d", path, resp.StatusCode)
	}
	return body, nil
}

func eventID(event map[string]any) string {
	switch v := event["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	// Listings sometimes nest the event under an "Event" key.
	if inner, ok := event["Event"].(map[string]any); ok {
		return eventID(inner)
	}
	return ""
}
