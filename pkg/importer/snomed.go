package importer

import (
	"context"
	"fmt"

	"kgqa/pkg/loader/rf2"
	"kgqa/pkg/logger"
	"kgqa/pkg/ontology"
	"kgqa/pkg/store"
)

// SnomedImporter writes a filtered SNOMED CT subgraph into the store.
// Concepts are upserted by conceptId, relationships by the
// (source, type, destination) triple, so re-running an import with the
// same input creates no duplicates.
type SnomedImporter struct {
	store     store.GraphStore
	release   *rf2.Release
	batchSize int
}

// NewSnomedImporter creates an importer over the given store and
// release. A batchSize of 0 uses DefaultBatchSize.
func NewSnomedImporter(s store.GraphStore, release *rf2.Release, batchSize int) *SnomedImporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SnomedImporter{
		store:     s,
		release:   release,
		batchSize: batchSize,
	}
}

const upsertConceptsQuery = `
UNWIND $concepts AS concept
MERGE (c:Concept {conceptId: concept.conceptId})
SET c.term = concept.term`

// ImportSubgraph writes the subgraph's concepts and relationships.
// Batch write failures are logged and skipped; the run continues.
func (i *SnomedImporter) ImportSubgraph(ctx context.Context, subgraph rf2.Subgraph) Summary {
	summary := Summary{RelationshipType: make(map[string]int)}

	concepts := make([]map[string]any, 0, len(subgraph.ConceptIDs))
	for _, conceptID := range subgraph.ConceptIDs {
		concepts = append(concepts, map[string]any{
			"conceptId": conceptID,
			"term":      i.release.ConceptTerm(conceptID),
		})
	}

	_ = chunkRange(len(concepts), i.batchSize, func(start, end int) error {
		batch := concepts[start:end]
		if _, err := i.store.ExecuteWrite(ctx, upsertConceptsQuery, map[string]any{"concepts": batch}); err != nil {
			logger.Warn("Concept batch write failed", "start", start, "err", err)
			return nil
		}
		summary.Entities += len(batch)
		return nil
	})
	logger.Info("Imported concepts", "count", summary.Entities)

	i.importRelationships(ctx, subgraph, &summary)
	return summary
}

func (i *SnomedImporter) importRelationships(ctx context.Context, subgraph rf2.Subgraph, summary *Summary) {
	imported := make(map[string]struct{}, len(subgraph.ConceptIDs))
	for _, conceptID := range subgraph.ConceptIDs {
		imported[conceptID] = struct{}{}
	}

	groups := make(map[string][]map[string]any)
	for _, rel := range subgraph.Relations {
		if _, ok := imported[rel.SourceID]; !ok {
			logger.Warn("Skipping relationship with missing source", "sourceId", rel.SourceID, "typeId", rel.TypeID)
			summary.SkippedDangling++
			continue
		}
		if _, ok := imported[rel.DestinationID]; !ok {
			logger.Warn("Skipping relationship with missing destination", "destinationId", rel.DestinationID, "typeId", rel.TypeID)
			summary.SkippedDangling++
			continue
		}

		typeTerm := i.release.RelationshipTerm(rel.TypeID)
		relType := ontology.RelationshipType(typeTerm)
		groups[relType] = append(groups[relType], map[string]any{
			"sourceId":      rel.SourceID,
			"destinationId": rel.DestinationID,
			"typeId":        rel.TypeID,
			"typeTerm":      typeTerm,
		})
	}

	logger.Info("Importing relationships", "types", len(groups))
	for relType, relationships := range groups {
		// The relationship type is interpolated into the query text;
		// it has passed through ontology.RelationshipType by now.
		query := fmt.Sprintf(`
UNWIND $relationships AS rel
MATCH (source:Concept {conceptId: rel.sourceId})
MATCH (dest:Concept {conceptId: rel.destinationId})
MERGE (source)-[r:%s]->(dest)
SET r.typeId = rel.typeId,
    r.typeTerm = rel.typeTerm`, relType)

		_ = chunkRange(len(relationships), i.batchSize, func(start, end int) error {
			batch := relationships[start:end]
			if _, err := i.store.ExecuteWrite(ctx, query, map[string]any{"relationships": batch}); err != nil {
				logger.Warn("Relationship batch write failed", "type", relType, "start", start, "err", err)
				return nil
			}
			summary.Relationships += len(batch)
			summary.RelationshipType[relType] += len(batch)
			return nil
		})
	}
}
