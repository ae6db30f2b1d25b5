package misp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var requests []*http.Request

	mux := http.NewServeMux()
	mux.HandleFunc("/servers/getVersion", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r)
		w.Write([]byte(`{"version": "2.4.190"}`))
	})
	mux.HandleFunc("/events/index", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r)
		w.Write([]byte(`{"Event": [{"id": "42", "info": "Phishing campaign"}]}`))
	})
	mux.HandleFunc("/events/view/42", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r)
		w.Write([]byte(`{"Event": {"id": "42", "info": "Phishing campaign", "Attribute": []}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &requests
}

func TestTestConnection(t *testing.T) {
	server, requests := newTestServer(t)
	client := NewClient(server.URL+"/", "secret-key")

	version, err := client.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != "2.4.190" {
		t.Fatalf("unexpected version: %s", version)
	}

	req := (*requests)[0]
	if got := req.Header.Get("Authorization"); got != "secret-key" {
		t.Fatalf("expected API key in Authorization header, got %q", got)
	}
	if got := req.Header.Get("Accept"); got != "application/json" {
		t.Fatalf("expected JSON accept header, got %q", got)
	}
}

func TestEventsSendsFilterParams(t *testing.T) {
	server, requests := newTestServer(t)
	client := NewClient(server.URL, "secret-key")

	events, err := client.Events(context.Background(), EventFilter{
		Tags:        []string{"malware", "ransomware"},
		ThreatLevel: "1",
		Analysis:    "2",
		Limit:       50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	params := (*requests)[0].URL.Query()
	if params.Get("tags") != "malware,ransomware" {
		t.Fatalf("unexpected tags param: %s", params.Get("tags"))
	}
	if params.Get("threatlevel") != "1" || params.Get("analysis") != "2" {
		t.Fatalf("missing filter params: %v", params)
	}
	if params.Get("limit") != "50" {
		t.Fatalf("unexpected limit: %s", params.Get("limit"))
	}
	if params.Get("order") != "Event.timestamp desc" {
		t.Fatalf("unexpected order: %s", params.Get("order"))
	}
}

func TestDownloadEventsFetchesDetails(t *testing.T) {
	server, _ := newTestServer(t)
	client := NewClient(server.URL, "secret-key")

	events, err := client.DownloadEvents(context.Background(), EventFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 detailed event, got %d", len(events))
	}
	if _, ok := events[0]["Attribute"]; !ok {
		t.Fatal("expected detailed payload with Attribute list")
	}
}

func TestEventDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "secret-key")

	if _, err := client.EventDetails(context.Background(), "999"); err == nil {
		t.Fatal("expected error for missing event")
	}
}
