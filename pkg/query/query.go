package query

import (
	"context"
	"fmt"

	"kgqa/pkg/common"
	"kgqa/pkg/ontology"
	"kgqa/pkg/store"
)

// MaxHopBound is the hard ceiling on traversal depth. Every variable
// length pattern issued by this package carries an explicit hop bound;
// requested bounds above the ceiling are clamped, never passed through.
const MaxHopBound = 5

// DefaultResultCap bounds result sets when the caller passes no cap.
const DefaultResultCap = 100

// Direction selects which incident relationships a neighbor query
// follows.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
	Both     Direction = "both"
)

// Neighbor is one row of a direct-relationship query. Source is the
// relationship's origin and Target its destination regardless of which
// side the queried entity sits on.
type Neighbor struct {
	SourceID     string
	SourceTerm   string
	RelationType string
	RelationTerm string
	TargetID     string
	TargetTerm   string
}

// DegreeEntry is one row of the connectivity ranking.
type DegreeEntry struct {
	ID     string
	Term   string
	Degree int
}

// TypeCount is one row of the relationship-type distribution.
type TypeCount struct {
	Type  string
	Term  string
	Count int
}

// ConstraintMatch is an entity satisfying two relationship constraints
// at once, with the terms of both constraint targets.
type ConstraintMatch struct {
	Term       string
	FirstTerm  string
	SecondTerm string
}

// Catalog is the fixed set of traversal queries the pipeline issues.
// It never builds query text from caller input except for relationship
// type names, which pass through sanitization first.
type Catalog struct {
	store store.GraphStore
}

// NewCatalog creates a catalog over the given store.
func NewCatalog(s store.GraphStore) *Catalog {
	return &Catalog{store: s}
}

// EntityByTerm returns the first entity whose term contains the given
// text, case-insensitively, or nil when nothing matches.
func (c *Catalog) EntityByTerm(ctx context.Context, term string) (*common.Entity, error) {
	rows, err := c.store.ExecuteRead(ctx, `
MATCH (c:Concept)
WHERE toLower(c.term) CONTAINS toLower($term)
RETURN c.conceptId AS conceptId, c.term AS term
LIMIT 1`, map[string]any{"term": term})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &common.Entity{
		ID:   rows[0].String("conceptId"),
		Term: rows[0].String("term"),
	}, nil
}

// EntityByID returns the entity with the given identifier, or nil.
func (c *Catalog) EntityByID(ctx context.Context, id string) (*common.Entity, error) {
	rows, err := c.store.ExecuteRead(ctx, `
MATCH (c:Concept {conceptId: $conceptId})
RETURN c.conceptId AS conceptId, c.term AS term`, map[string]any{"conceptId": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &common.Entity{
		ID:   rows[0].String("conceptId"),
		Term: rows[0].String("term"),
	}, nil
}

// Neighbors returns the direct relationships of an entity. An empty
// relType matches every type; a non-empty one is sanitized before it
// enters the pattern.
func (c *Catalog) Neighbors(ctx context.Context, id string, direction Direction, relType string) ([]Neighbor, error) {
	pattern := "[r]"
	if relType != "" {
		pattern = fmt.Sprintf("[r:%s]", ontology.RelationshipType(relType))
	}

	var query string
	switch direction {
	case Incoming:
		query = fmt.Sprintf(`
MATCH (source:Concept)-%s->(target:Concept {conceptId: $conceptId})
RETURN source.conceptId AS sourceId,
       source.term AS sourceTerm,
       type(r) AS relationType,
       r.typeTerm AS relationTerm,
       target.conceptId AS targetId,
       target.term AS targetTerm`, pattern)
	case Both:
		query = fmt.Sprintf(`
MATCH (source:Concept {conceptId: $conceptId})-%s-(target:Concept)
RETURN source.conceptId AS sourceId,
       source.term AS sourceTerm,
       type(r) AS relationType,
       r.typeTerm AS relationTerm,
       target.conceptId AS targetId,
       target.term AS targetTerm`, pattern)
	default:
		query = fmt.Sprintf(`
MATCH (source:Concept {conceptId: $conceptId})-%s->(target:Concept)
RETURN source.conceptId AS sourceId,
       source.term AS sourceTerm,
       type(r) AS relationType,
       r.typeTerm AS relationTerm,
       target.conceptId AS targetId,
       target.term AS targetTerm`, pattern)
	}

	rows, err := c.store.ExecuteRead(ctx, query, map[string]any{"conceptId": id})
	if err != nil {
		return nil, err
	}

	neighbors := make([]Neighbor, 0, len(rows))
	for _, row := range rows {
		neighbors = append(neighbors, Neighbor{
			SourceID:     row.String("sourceId"),
			SourceTerm:   row.String("sourceTerm"),
			RelationType: row.String("relationType"),
			RelationTerm: row.String("relationTerm"),
			TargetID:     row.String("targetId"),
			TargetTerm:   row.String("targetTerm"),
		})
	}
	return neighbors, nil
}

// ShortestPath returns the shortest path between two entities within
// maxHops traversals. An empty result means no path exists in bound.
func (c *Catalog) ShortestPath(ctx context.Context, startID, endID string, maxHops int) ([]common.Path, error) {
	query := fmt.Sprintf(`
MATCH path = shortestPath(
    (start:Concept {conceptId: $startId})-[*1..%d]-(end:Concept {conceptId: $endId})
)
RETURN [node IN nodes(path) | node.term] AS terms,
       [rel IN relationships(path) | type(rel)] AS relations,
       [rel IN relationships(path) | rel.typeTerm] AS relationTerms,
       length(path) AS hops
LIMIT 1`, clampHops(maxHops))

	rows, err := c.store.ExecuteRead(ctx, query, map[string]any{
		"startId": startID,
		"endId":   endID,
	})
	if err != nil {
		return nil, err
	}
	return collectPaths(rows), nil
}

// EnumeratePaths returns outgoing simple paths from an entity whose
// hop count falls in [minHops, maxHops], ordered by hop count, at most
// cap rows.
func (c *Catalog) EnumeratePaths(ctx context.Context, startID string, minHops, maxHops, limit int) ([]common.Path, error) {
	minHops, maxHops = clampWindow(minHops, maxHops)
	query := fmt.Sprintf(`
MATCH path = (start:Concept {conceptId: $startId})-[*%d..%d]->(end:Concept)
WHERE start <> end
WITH path,
     [node IN nodes(path) | node.term] AS terms,
     [rel IN relationships(path) | type(rel)] AS relations,
     [rel IN relationships(path) | rel.typeTerm] AS relationTerms
RETURN terms, relations, relationTerms, length(path) AS hops
ORDER BY hops
LIMIT $limit`, minHops, maxHops)

	rows, err := c.store.ExecuteRead(ctx, query, map[string]any{
		"startId": startID,
		"limit":   clampCap(limit),
	})
	if err != nil {
		return nil, err
	}
	return collectPaths(rows), nil
}

// PathsThroughGraph returns outgoing paths in the hop window starting
// from any entity whose term matches one of the keywords. Used when no
// single seed entity is fixed.
func (c *Catalog) PathsThroughGraph(ctx context.Context, minHops, maxHops, limit int) ([]common.Path, error) {
	minHops, maxHops = clampWindow(minHops, maxHops)
	query := fmt.Sprintf(`
MATCH path = (start:Concept)-[*%d..%d]->(end:Concept)
WHERE start <> end
WITH path,
     [node IN nodes(path) | node.term] AS terms,
     [rel IN relationships(path) | type(rel)] AS relations,
     [rel IN relationships(path) | rel.typeTerm] AS relationTerms
RETURN terms, relations, relationTerms, length(path) AS hops
ORDER BY hops
LIMIT $limit`, minHops, maxHops)

	rows, err := c.store.ExecuteRead(ctx, query, map[string]any{"limit": clampCap(limit)})
	if err != nil {
		return nil, err
	}
	return collectPaths(rows), nil
}

// DegreeRanking returns entities ordered by incident-relationship
// count, highest first.
func (c *Catalog) DegreeRanking(ctx context.Context, limit int) ([]DegreeEntry, error) {
	rows, err := c.store.ExecuteRead(ctx, `
MATCH (c:Concept)-[r]-()
WITH c, count(r) AS degree
ORDER BY degree DESC
LIMIT $limit
RETURN c.conceptId AS conceptId, c.term AS term, degree`, map[string]any{"limit": clampCap(limit)})
	if err != nil {
		return nil, err
	}

	entries := make([]DegreeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, DegreeEntry{
			ID:     row.String("conceptId"),
			Term:   row.String("term"),
			Degree: row.Int("degree"),
		})
	}
	return entries, nil
}

// FilteredScan returns entities whose term contains the given text,
// case-insensitively, at most cap rows.
func (c *Catalog) FilteredScan(ctx context.Context, termContains string, limit int) ([]common.Entity, error) {
	rows, err := c.store.ExecuteRead(ctx, `
MATCH (c:Concept)
WHERE toLower(c.term) CONTAINS toLower($term)
RETURN c.conceptId AS conceptId, c.term AS term
LIMIT $limit`, map[string]any{
		"term":  termContains,
		"limit": clampCap(limit),
	})
	if err != nil {
		return nil, err
	}

	entities := make([]common.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, common.Entity{
			ID:   row.String("conceptId"),
			Term: row.String("term"),
		})
	}
	return entities, nil
}

// RelationshipDistribution returns the per-type relationship histogram,
// most frequent first.
func (c *Catalog) RelationshipDistribution(ctx context.Context) ([]TypeCount, error) {
	rows, err := c.store.ExecuteRead(ctx, `
MATCH ()-[r]->()
WITH type(r) AS relationshipType,
     head(collect(r.typeTerm)) AS typeTerm,
     count(r) AS count
ORDER BY count DESC
RETURN relationshipType, typeTerm, count`, nil)
	if err != nil {
		return nil, err
	}

	counts := make([]TypeCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, TypeCount{
			Type:  row.String("relationshipType"),
			Term:  row.String("typeTerm"),
			Count: row.Int("count"),
		})
	}
	return counts, nil
}

// ConstraintMatches returns entities that have both a relTypeA and a
// relTypeB neighbor, with the neighbor terms. Both type names are
// sanitized before entering the pattern.
func (c *Catalog) ConstraintMatches(ctx context.Context, relTypeA, relTypeB string, limit int) ([]ConstraintMatch, error) {
	query := fmt.Sprintf(`
MATCH (concept:Concept)-[:%s]->(first:Concept)
MATCH (concept)-[:%s]->(second:Concept)
RETURN concept.term AS term,
       first.term AS firstTerm,
       second.term AS secondTerm
LIMIT $limit`,
		ontology.RelationshipType(relTypeA),
		ontology.RelationshipType(relTypeB))

	rows, err := c.store.ExecuteRead(ctx, query, map[string]any{"limit": clampCap(limit)})
	if err != nil {
		return nil, err
	}

	matches := make([]ConstraintMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, ConstraintMatch{
			Term:       row.String("term"),
			FirstTerm:  row.String("firstTerm"),
			SecondTerm: row.String("secondTerm"),
		})
	}
	return matches, nil
}

func collectPaths(rows []store.Row) []common.Path {
	paths := make([]common.Path, 0, len(rows))
	for _, row := range rows {
		paths = append(paths, common.Path{
			Terms:         row.Strings("terms"),
			Relations:     row.Strings("relations"),
			RelationTerms: row.Strings("relationTerms"),
			Hops:          row.Int("hops"),
		})
	}
	return paths
}

func clampHops(hops int) int {
	if hops < 1 {
		return 1
	}
	if hops > MaxHopBound {
		return MaxHopBound
	}
	return hops
}

func clampWindow(minHops, maxHops int) (int, int) {
	minHops = clampHops(minHops)
	maxHops = clampHops(maxHops)
	if maxHops < minHops {
		maxHops = minHops
	}
	return minHops, maxHops
}

func clampCap(limit int) int {
	if limit <= 0 {
		return DefaultResultCap
	}
	return limit
}
