package importer

import (
	"context"
	"fmt"
	"strings"

	"kgqa/pkg/loader/stix"
	"kgqa/pkg/logger"
	"kgqa/pkg/ontology"
	"kgqa/pkg/store"
)

// StixImporter writes STIX domain objects and their relationships into
// the store, mapped onto the UCO label vocabulary. Objects are upserted
// by their STIX id.
type StixImporter struct {
	store     store.GraphStore
	batchSize int
}

// NewStixImporter creates an importer over the given store. A
// batchSize of 0 uses DefaultBatchSize.
func NewStixImporter(s store.GraphStore, batchSize int) *StixImporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &StixImporter{
		store:     s,
		batchSize: batchSize,
	}
}

// Import writes the given objects plus every bundle relationship whose
// endpoints are both part of the object set.
func (i *StixImporter) Import(ctx context.Context, bundle *stix.Bundle, objects []stix.Object) Summary {
	summary := Summary{RelationshipType: make(map[string]int)}

	i.importObjects(ctx, objects, &summary)
	i.importRelationships(ctx, bundle.Relationships, objects, &summary)

	return summary
}

func (i *StixImporter) importObjects(ctx context.Context, objects []stix.Object, summary *Summary) {
	// Group by label set so each group shares one MERGE query.
	groups := make(map[string][]map[string]any)
	for _, obj := range objects {
		if obj.ID() == "" {
			logger.Warn("Skipping STIX object without id", "type", obj.Type())
			continue
		}
		labels := strings.Join(ontology.StixLabels(obj.Type()), ":")
		groups[labels] = append(groups[labels], map[string]any{
			"id":    obj.ID(),
			"props": ontology.StixNodeProperties(obj),
		})
	}

	for labels, nodes := range groups {
		query := fmt.Sprintf(`
UNWIND $nodes AS node
MERGE (n:%s {id: node.id})
SET n += node.props`, labels)

		_ = chunkRange(len(nodes), i.batchSize, func(start, end int) error {
			batch := nodes[start:end]
			if _, err := i.store.ExecuteWrite(ctx, query, map[string]any{"nodes": batch}); err != nil {
				logger.Warn("STIX object batch write failed", "labels", labels, "start", start, "err", err)
				return nil
			}
			summary.Entities += len(batch)
			return nil
		})
	}
	logger.Info("Imported STIX objects", "count", summary.Entities)
}

func (i *StixImporter) importRelationships(ctx context.Context, relationships []stix.Object, objects []stix.Object, summary *Summary) {
	imported := make(map[string]struct{}, len(objects))
	for _, obj := range objects {
		imported[obj.ID()] = struct{}{}
	}

	groups := make(map[string][]map[string]any)
	for _, rel := range relationships {
		sourceRef, _ := rel["source_ref"].(string)
		targetRef, _ := rel["target_ref"].(string)
		if _, ok := imported[sourceRef]; !ok {
			logger.Warn("Skipping relationship with missing source", "sourceRef", sourceRef, "id", rel.ID())
			summary.SkippedDangling++
			continue
		}
		if _, ok := imported[targetRef]; !ok {
			logger.Warn("Skipping relationship with missing target", "targetRef", targetRef, "id", rel.ID())
			summary.SkippedDangling++
			continue
		}

		relTypeRaw, _ := rel["relationship_type"].(string)
		if relTypeRaw == "" {
			relTypeRaw = "related-to"
		}
		relType := ontology.StixRelationshipType(relTypeRaw)
		groups[relType] = append(groups[relType], map[string]any{
			"sourceId": sourceRef,
			"targetId": targetRef,
			"props":    ontology.StixRelationshipProperties(rel),
		})
	}

	logger.Info("Importing STIX relationships", "types", len(groups))
	for relType, rels := range groups {
		query := fmt.Sprintf(`
UNWIND $rels AS rel
MATCH (source:StixObject {id: rel.sourceId})
MATCH (target:StixObject {id: rel.targetId})
MERGE (source)-[r:%s]->(target)
SET r += rel.props`, relType)

		_ = chunkRange(len(rels), i.batchSize, func(start, end int) error {
			batch := rels[start:end]
			if _, err := i.store.ExecuteWrite(ctx, query, map[string]any{"rels": batch}); err != nil {
				logger.Warn("Relationship batch write failed", "type", relType, "start", start, "err", err)
				return nil
			}
			summary.Relationships += len(batch)
			summary.RelationshipType[relType] += len(batch)
			return nil
		})
	}
}
