package store

import "context"

// Row is a single result row keyed by the query's return aliases.
type Row map[string]any

// String returns the row value for key as a string, or "" if absent.
func (r Row) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the row value for key as an int, or 0 if absent.
// Neo4j returns integer columns as int64.
func (r Row) Int(key string) int {
	switch v := r[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Strings returns the row value for key as a string slice.
func (r Row) Strings(key string) []string {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GraphStore defines the interface for executing queries against the
// graph database. There is one connection per run; writes are
// immediately visible to subsequent reads. The store applies no retry
// policy of its own: a failed write is reported to the caller, which
// logs a warning and continues with the next item.
type GraphStore interface {
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) ([]Row, error)
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) ([]Row, error)
	Close(ctx context.Context) error
}

// LabelCount is one entry of a per-label or per-type distribution.
type LabelCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes the store contents after an import.
type Stats struct {
	Nodes             int          `json:"nodes"`
	Relationships     int          `json:"relationships"`
	NodeLabels        []LabelCount `json:"node_labels,omitempty"`
	RelationshipTypes []LabelCount `json:"relationship_types,omitempty"`
}
