package query

import (
	"context"
	"strings"
	"testing"

	"kgqa/pkg/store"
)

type recordingStore struct {
	queries []string
	params  []map[string]any
	rows    []store.Row
}

func (r *recordingStore) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]store.Row, error) {
	r.queries = append(r.queries, query)
	r.params = append(r.params, params)
	return r.rows, nil
}

func (r *recordingStore) ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]store.Row, error) {
	return nil, nil
}

func (r *recordingStore) Close(ctx context.Context) error {
	return nil
}

func TestNeighborsSanitizesTypeFilter(t *testing.T) {
	rec := &recordingStore{}
	catalog := NewCatalog(rec)

	if _, err := catalog.Neighbors(context.Background(), "80967001", Outgoing, "Is a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(rec.queries[0], "[r:IS_A]") {
		t.Fatalf("expected sanitized type in pattern, got: %s", rec.queries[0])
	}
}

func TestNeighborsDirections(t *testing.T) {
	tests := []struct {
		direction Direction
		want      string
	}{
		{Outgoing, "-[r]->(target:Concept)"},
		{Incoming, "-[r]->(target:Concept {conceptId: $conceptId})"},
		{Both, "-[r]-(target:Concept)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			rec := &recordingStore{}
			catalog := NewCatalog(rec)

			if _, err := catalog.Neighbors(context.Background(), "80967001", tt.direction, ""); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(rec.queries[0], tt.want) {
				t.Fatalf("expected pattern %q in query: %s", tt.want, rec.queries[0])
			}
		})
	}
}

func TestNeighborsPairsIdsWithTerms(t *testing.T) {
	rec := &recordingStore{rows: []store.Row{
		{
			"sourceId":     "80967001",
			"sourceTerm":   "Dental caries",
			"relationType": "IS_A",
			"relationTerm": "Is a",
			"targetId":     "417893002",
			"targetTerm":   "Disease",
		},
	}}
	catalog := NewCatalog(rec)

	neighbors, err := catalog.Neighbors(context.Background(), "417893002", Incoming, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(rec.queries[0], "source.conceptId AS sourceId") ||
		!strings.Contains(rec.queries[0], "target.conceptId AS targetId") {
		t.Fatalf("expected both endpoint ids projected, got: %s", rec.queries[0])
	}
	if len(neighbors) != 1 {
		t.Fatalf("expected 1 neighbor, got %d", len(neighbors))
	}
	got := neighbors[0]
	if got.SourceID != "80967001" || got.SourceTerm != "Dental caries" {
		t.Fatalf("source id and term mismatched: %+v", got)
	}
	if got.TargetID != "417893002" || got.TargetTerm != "Disease" {
		t.Fatalf("target id and term mismatched: %+v", got)
	}
}

func TestShortestPathClampsHopBound(t *testing.T) {
	rec := &recordingStore{}
	catalog := NewCatalog(rec)

	if _, err := catalog.ShortestPath(context.Background(), "a", "b", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.queries[0], "[*1..5]") {
		t.Fatalf("expected hop bound clamped to maximum, got: %s", rec.queries[0])
	}

	if _, err := catalog.ShortestPath(context.Background(), "a", "b", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.queries[1], "[*1..1]") {
		t.Fatalf("expected zero bound raised to 1, got: %s", rec.queries[1])
	}
}

func TestEnumeratePathsWindowAndCap(t *testing.T) {
	rec := &recordingStore{}
	catalog := NewCatalog(rec)

	if _, err := catalog.EnumeratePaths(context.Background(), "a", 3, 2, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.queries[0], "[*3..3]") {
		t.Fatalf("expected inverted window collapsed, got: %s", rec.queries[0])
	}
	if limit := rec.params[0]["limit"]; limit != DefaultResultCap {
		t.Fatalf("expected default result cap, got %v", limit)
	}
	if !strings.Contains(rec.queries[0], "LIMIT $limit") {
		t.Fatalf("expected capped query, got: %s", rec.queries[0])
	}
}

func TestEnumeratePathsCollectsRows(t *testing.T) {
	rec := &recordingStore{rows: []store.Row{
		{
			"terms":         []any{"Dental caries", "Disease", "Oral cavity"},
			"relations":     []any{"IS_A", "FINDING_SITE"},
			"relationTerms": []any{"Is a", "Finding site"},
			"hops":          int64(2),
		},
	}}
	catalog := NewCatalog(rec)

	paths, err := catalog.EnumeratePaths(context.Background(), "80967001", 2, 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	if paths[0].Hops != 2 {
		t.Fatalf("expected 2 hops, got %d", paths[0].Hops)
	}
	if got := paths[0].Render(); got != "Dental caries -> Disease -> Oral cavity" {
		t.Fatalf("unexpected rendering: %s", got)
	}
	if paths[0].Relations[0] != "IS_A" || paths[0].RelationTerms[0] != "Is a" {
		t.Fatalf("expected both relation vocabularies collected, got %+v", paths[0])
	}
}

func TestPathQueriesProjectBothRelationVocabularies(t *testing.T) {
	rec := &recordingStore{}
	catalog := NewCatalog(rec)

	if _, err := catalog.PathsThroughGraph(context.Background(), 2, 2, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.queries[0], "type(rel)] AS relations") {
		t.Fatalf("expected relationship types projected, got: %s", rec.queries[0])
	}
	if !strings.Contains(rec.queries[0], "rel.typeTerm] AS relationTerms") {
		t.Fatalf("expected relationship terms projected, got: %s", rec.queries[0])
	}
}

func TestConstraintMatchesSanitizesBothTypes(t *testing.T) {
	rec := &recordingStore{}
	catalog := NewCatalog(rec)

	if _, err := catalog.ConstraintMatches(context.Background(), "Causative agent", "Finding site", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.queries[0], "[:CAUSATIVE_AGENT]") {
		t.Fatalf("expected sanitized first constraint, got: %s", rec.queries[0])
	}
	if !strings.Contains(rec.queries[0], "[:FINDING_SITE]") {
		t.Fatalf("expected sanitized second constraint, got: %s", rec.queries[0])
	}
}

func TestDegreeRankingReadsInt64(t *testing.T) {
	rec := &recordingStore{rows: []store.Row{
		{"conceptId": "417893002", "term": "Disease", "degree": int64(12)},
	}}
	catalog := NewCatalog(rec)

	entries, err := catalog.DegreeRanking(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Degree != 12 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
