package common

import "strings"

// Entity represents a node in the knowledge graph. An entity can be an
// ontology concept, a piece of malware, a threat actor, or any other
// typed domain object. Entities are identified by a stable identifier
// that is unique within one ontology and never mutated after import.
type Entity struct {
	ID         string         `json:"id"`
	Term       string         `json:"term"`
	Labels     []string       `json:"labels,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Relationship represents a directed, typed edge between two entities.
// Type holds the sanitized graph relationship type (e.g. "IS_A"),
// TypeID and TypeTerm carry the original source vocabulary.
//
// Relationship identity for upsert purposes is the
// (source, type, target) triple, not a globally unique id.
type Relationship struct {
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Type       string         `json:"type"`
	TypeID     string         `json:"type_id,omitempty"`
	TypeTerm   string         `json:"type_term,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Path is an ordered sequence of entities connected by relationships.
// Relations holds the graph relationship types (e.g. "IS_A"),
// RelationTerms the source vocabulary terms (e.g. "Is a") in the same
// order. Paths are computed on demand by the store and never
// persisted.
type Path struct {
	Terms         []string `json:"terms"`
	Relations     []string `json:"relations"`
	RelationTerms []string `json:"relation_terms,omitempty"`
	Hops          int      `json:"hops"`
}

// Render returns the path as "A -> B -> C".
func (p Path) Render() string {
	return strings.Join(p.Terms, " -> ")
}

// Tier is the difficulty bucket of a generated QA record, assigned by
// the hop count or constraint complexity of the originating query.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// TierForHops maps a hop count onto a difficulty tier: 1 hop is easy,
// 2 hops medium, 3 or more hard.
func TierForHops(hops int) Tier {
	switch {
	case hops <= 1:
		return TierEasy
	case hops == 2:
		return TierMedium
	default:
		return TierHard
	}
}

// QAMetadata links a QA record back to the originating path.
type QAMetadata struct {
	Hops         int      `json:"hop_count"`
	RelationPath []string `json:"relation_path,omitempty"`
	Path         string   `json:"path,omitempty"`
}

// QARecord is a derived training-data artifact: a question/answer pair
// generated from an observed graph path. Records are generated fresh
// each run and are not an authoritative data source.
type QARecord struct {
	ID           string     `json:"id"`
	Difficulty   Tier       `json:"difficulty_tier"`
	Question     string     `json:"question"`
	Answer       string     `json:"answer"`
	SourceEntity string     `json:"source_entity"`
	TargetEntity string     `json:"target_entity"`
	RelationType string     `json:"relation_type,omitempty"`
	Metadata     QAMetadata `json:"metadata"`
}
