package misp

import (
	"context"
	"fmt"
	"testing"
)

type mapReader map[string]string

func (m mapReader) Read(_ context.Context, path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(data), nil
}

const eventsJSON = `[
  {"Event": {
    "id": "101", "info": "Ransomware campaign", "threat_level_id": "1", "analysis": "2",
    "Attribute": [{"uuid": "a-1", "type": "ip-dst", "category": "Network activity", "value": "198.51.100.7"}],
    "Object": [{"uuid": "o-1", "name": "file", "Attribute": [{"uuid": "a-2", "type": "sha256", "value": "abc"}]}],
    "Tag": [{"name": "malware:ransomware"}]
  }},
  {"Event": {
    "id": "102", "info": "Phishing wave", "threat_level_id": "3", "analysis": "0",
    "Tag": [{"name": "tlp:green"}]
  }}
]`

func loadTestEvents(t *testing.T) []Event {
	t.Helper()
	events, err := Load(context.Background(), mapReader{"events.json": eventsJSON}, "events.json")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return events
}

func TestLoadUnwrapsEvents(t *testing.T) {
	events := loadTestEvents(t)

	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}
	if events[0].ID() != "101" {
		t.Fatalf("event id: got %q", events[0].ID())
	}
	if len(events[0].Attributes()) != 1 || len(events[0].Objects()) != 1 {
		t.Fatalf("components: got %d attributes, %d objects",
			len(events[0].Attributes()), len(events[0].Objects()))
	}
}

func TestLoadSingleWrappedEvent(t *testing.T) {
	events, err := Load(context.Background(), mapReader{
		"one.json": `{"Event": {"id": "7", "info": "single"}}`,
	}, "one.json")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(events) != 1 || events[0].ID() != "7" {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestFilterEvents(t *testing.T) {
	events := loadTestEvents(t)

	tests := []struct {
		name    string
		eventID string
		tags    []string
		threat  string
		want    []string
	}{
		{name: "by id", eventID: "102", want: []string{"102"}},
		{name: "by tag", tags: []string{"ransomware"}, want: []string{"101"}},
		{name: "by threat level", threat: "3", want: []string{"102"}},
		{name: "tag and threat AND", tags: []string{"ransomware"}, threat: "3", want: nil},
		{name: "no filters", want: []string{"101", "102"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEvents(events,
				EventIDFilter(tt.eventID),
				TagFilter(tt.tags),
				ThreatLevelFilter(tt.threat),
			)
			if len(got) != len(tt.want) {
				t.Fatalf("filtered events: got %d, want %d", len(got), len(tt.want))
			}
			for i, event := range got {
				if event.ID() != tt.want[i] {
					t.Fatalf("event %d: got %q, want %q", i, event.ID(), tt.want[i])
				}
			}
		})
	}
}

func TestNumericEventID(t *testing.T) {
	events, err := Load(context.Background(), mapReader{
		"num.json": `[{"id": 55, "info": "numeric id"}]`,
	}, "num.json")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if events[0].ID() != "55" {
		t.Fatalf("numeric id: got %q, want 55", events[0].ID())
	}
}
