package store

import (
	"context"

	"kgqa/pkg/logger"
)

// Clear removes every node and relationship from the store. Meant for
// the --clear import flag; there is no undo.
func Clear(ctx context.Context, s GraphStore) error {
	logger.Warn("Clearing all existing store contents")
	_, err := s.ExecuteWrite(ctx, "MATCH (n) DETACH DELETE n", nil)
	return err
}

// EnsureIndexes creates the given index/constraint statements. A
// statement that fails (already exists, unsupported edition) is logged
// and skipped.
func EnsureIndexes(ctx context.Context, s GraphStore, statements []string) {
	for _, stmt := range statements {
		if _, err := s.ExecuteWrite(ctx, stmt, nil); err != nil {
			logger.Warn("Skipping index statement", "statement", stmt, "err", err)
		}
	}
}

// SnomedIndexStatements are the index and uniqueness statements for the
// SNOMED concept graph.
func SnomedIndexStatements() []string {
	return []string{
		"CREATE INDEX concept_id IF NOT EXISTS FOR (c:Concept) ON (c.conceptId)",
		"CREATE INDEX concept_term IF NOT EXISTS FOR (c:Concept) ON (c.term)",
		"CREATE CONSTRAINT concept_unique IF NOT EXISTS FOR (c:Concept) REQUIRE c.conceptId IS UNIQUE",
	}
}

// ThreatIndexStatements are the index statements for the STIX/MISP
// threat-intelligence graph.
func ThreatIndexStatements() []string {
	return []string{
		"CREATE INDEX stix_id IF NOT EXISTS FOR (s:StixObject) ON (s.id)",
		"CREATE INDEX misp_id IF NOT EXISTS FOR (m:MISPObject) ON (m.id)",
		"CREATE INDEX event_id IF NOT EXISTS FOR (e:Event) ON (e.id)",
	}
}

// ReadStats collects node/relationship counts plus the per-label and
// per-type distributions.
func ReadStats(ctx context.Context, s GraphStore) (Stats, error) {
	var stats Stats

	rows, err := s.ExecuteRead(ctx, "MATCH (n) RETURN count(n) AS count", nil)
	if err != nil {
		return stats, err
	}
	if len(rows) > 0 {
		stats.Nodes = rows[0].Int("count")
	}

	rows, err = s.ExecuteRead(ctx, "MATCH ()-[r]->() RETURN count(r) AS count", nil)
	if err != nil {
		return stats, err
	}
	if len(rows) > 0 {
		stats.Relationships = rows[0].Int("count")
	}

	rows, err = s.ExecuteRead(ctx, `
		MATCH (n)
		RETURN labels(n)[0] AS name, count(n) AS count
		ORDER BY count DESC`, nil)
	if err != nil {
		return stats, err
	}
	for _, row := range rows {
		stats.NodeLabels = append(stats.NodeLabels, LabelCount{
			Name:  row.String("name"),
			Count: row.Int("count"),
		})
	}

	rows, err = s.ExecuteRead(ctx, `
		MATCH ()-[r]->()
		RETURN type(r) AS name, count(r) AS count
		ORDER BY count DESC`, nil)
	if err != nil {
		return stats, err
	}
	for _, row := range rows {
		stats.RelationshipTypes = append(stats.RelationshipTypes, LabelCount{
			Name:  row.String("name"),
			Count: row.Int("count"),
		})
	}

	return stats, nil
}
