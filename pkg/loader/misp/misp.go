package misp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"kgqa/pkg/loader"
)

// Event is a raw MISP event with its nested component lists.
type Event map[string]any

// ID returns the event identifier as a string.
func (e Event) ID() string {
	switch v := e["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

// Info returns the event's info line.
func (e Event) Info() string {
	info, _ := e["info"].(string)
	return info
}

// Attributes returns the event's attribute list.
func (e Event) Attributes() []map[string]any {
	return componentList(e, "Attribute")
}

// Objects returns the event's object list.
func (e Event) Objects() []map[string]any {
	return componentList(e, "Object")
}

// Galaxies returns the event's galaxy list.
func (e Event) Galaxies() []map[string]any {
	return componentList(e, "Galaxy")
}

// Tags returns the event's tag list.
func (e Event) Tags() []map[string]any {
	return componentList(e, "Tag")
}

// TagNames returns the names of the event's tags.
func (e Event) TagNames() []string {
	tags := e.Tags()
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		if name, ok := tag["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names
}

// Load parses a MISP export file. Accepts a list of events, a single
// wrapped event ({"Event": …}), a {"events": […]} response body, or a
// single bare event.
func Load(ctx context.Context, reader loader.SourceReader, path string) ([]Event, error) {
	data, err := reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse MISP export %s: %w", path, err)
	}

	var rawEvents []any
	switch v := raw.(type) {
	case []any:
		rawEvents = v
	case map[string]any:
		if event, ok := v["Event"].(map[string]any); ok {
			rawEvents = []any{event}
		} else if list, ok := v["events"].([]any); ok {
			rawEvents = list
		} else {
			rawEvents = []any{v}
		}
	default:
		return nil, fmt.Errorf("unexpected MISP export shape in %s", path)
	}

	events := make([]Event, 0, len(rawEvents))
	for _, r := range rawEvents {
		event, ok := r.(map[string]any)
		if !ok {
			continue
		}
		// Events inside a list may also be wrapped.
		if inner, ok := event["Event"].(map[string]any); ok {
			event = inner
		}
		events = append(events, Event(event))
	}

	return events, nil
}

// EventIDFilter accepts only the event with the given id.
func EventIDFilter(eventID string) loader.Predicate[Event] {
	if eventID == "" {
		return nil
	}
	return func(e Event) bool {
		return e.ID() == eventID
	}
}

// TagFilter accepts events carrying at least one tag that contains one
// of the given names, case-insensitively.
func TagFilter(tags []string) loader.Predicate[Event] {
	if len(tags) == 0 {
		return nil
	}
	return func(e Event) bool {
		joined := strings.Join(e.TagNames(), " ")
		return loader.ContainsAnyKeyword(joined, tags)
	}
}

// ThreatLevelFilter accepts events with the given threat_level_id.
func ThreatLevelFilter(level string) loader.Predicate[Event] {
	if level == "" {
		return nil
	}
	return func(e Event) bool {
		return stringField(e, "threat_level_id") == level
	}
}

// AnalysisFilter accepts events with the given analysis level.
func AnalysisFilter(level string) loader.Predicate[Event] {
	if level == "" {
		return nil
	}
	return func(e Event) bool {
		return stringField(e, "analysis") == level
	}
}

// FilterEvents returns the events accepted by every given predicate.
func FilterEvents(events []Event, preds ...loader.Predicate[Event]) []Event {
	return loader.Filter(events, loader.And(preds...))
}

func componentList(e Event, key string) []map[string]any {
	raw, ok := e[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringField(e Event, key string) string {
	switch v := e[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}
