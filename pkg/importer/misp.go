package importer

import (
	"context"
	"fmt"
	"strings"

	"kgqa/pkg/loader/misp"
	"kgqa/pkg/logger"
	"kgqa/pkg/ontology"
	"kgqa/pkg/store"
)

// MispImporter writes MISP events and their nested components into the
// store. Each event becomes a node linked to its attributes, objects,
// galaxies and tags. Nodes are upserted by uuid-derived id, tags by
// name.
type MispImporter struct {
	store store.GraphStore
}

// NewMispImporter creates an importer over the given store.
func NewMispImporter(s store.GraphStore) *MispImporter {
	return &MispImporter{store: s}
}

// Import writes the given events one at a time. A failed event is
// logged and skipped without affecting the others.
func (i *MispImporter) Import(ctx context.Context, events []misp.Event) Summary {
	summary := Summary{RelationshipType: make(map[string]int)}

	for _, event := range events {
		if err := i.importEvent(ctx, event, &summary); err != nil {
			logger.Warn("MISP event import failed", "eventId", event.ID(), "err", err)
		}
	}

	logger.Info("Imported MISP events", "entities", summary.Entities, "relationships", summary.Relationships)
	return summary
}

func (i *MispImporter) importEvent(ctx context.Context, event misp.Event, summary *Summary) error {
	eventID := event.ID()
	if eventID == "" {
		return fmt.Errorf("event without id")
	}

	query := fmt.Sprintf(`
MERGE (e:%s {id: $id})
SET e += $props`, labelExpr(ontology.MispEventLabels()))
	if _, err := i.store.ExecuteWrite(ctx, query, map[string]any{
		"id":    eventID,
		"props": ontology.MispEventProperties(event),
	}); err != nil {
		return err
	}
	summary.Entities++

	for _, attr := range event.Attributes() {
		i.importAttribute(ctx, eventID, attr, false, summary)
	}
	for _, obj := range event.Objects() {
		i.importObject(ctx, eventID, obj, summary)
	}
	for _, galaxy := range event.Galaxies() {
		i.importGalaxy(ctx, eventID, galaxy, summary)
	}
	for _, tag := range event.Tags() {
		i.importTag(ctx, eventID, tag, summary)
	}
	return nil
}

func (i *MispImporter) importAttribute(ctx context.Context, parentID string, attr map[string]any, inObject bool, summary *Summary) {
	props := ontology.MispAttributeProperties(attr)
	id, ok := props["id"]
	if !ok {
		logger.Warn("Skipping MISP attribute without uuid", "eventId", parentID)
		return
	}

	attrType, _ := attr["type"].(string)
	category, _ := attr["category"].(string)
	labels := ontology.MispAttributeLabels(attrType, category, inObject)

	parentLabel := "Event"
	if inObject {
		parentLabel = "Object"
	}
	query := fmt.Sprintf(`
MERGE (a:%s {id: $id})
SET a += $props
WITH a
MATCH (p:%s {id: $parentId})
MERGE (p)-[:HAS_ATTRIBUTE]->(a)`, labelExpr(labels), parentLabel)

	if _, err := i.store.ExecuteWrite(ctx, query, map[string]any{
		"id":       id,
		"props":    props,
		"parentId": parentID,
	}); err != nil {
		logger.Warn("MISP attribute write failed", "id", id, "err", err)
		return
	}
	summary.Entities++
	summary.Relationships++
	summary.RelationshipType["HAS_ATTRIBUTE"]++
}

func (i *MispImporter) importObject(ctx context.Context, eventID string, obj map[string]any, summary *Summary) {
	props := ontology.MispObjectProperties(obj)
	id, ok := props["id"]
	if !ok {
		logger.Warn("Skipping MISP object without uuid", "eventId", eventID)
		return
	}

	name, _ := obj["name"].(string)
	query := fmt.Sprintf(`
MERGE (o:%s {id: $id})
SET o += $props
WITH o
MATCH (e:Event {id: $eventId})
MERGE (e)-[:HAS_OBJECT]->(o)`, labelExpr(ontology.MispObjectLabels(name)))

	if _, err := i.store.ExecuteWrite(ctx, query, map[string]any{
		"id":      id,
		"props":   props,
		"eventId": eventID,
	}); err != nil {
		logger.Warn("MISP object write failed", "id", id, "err", err)
		return
	}
	summary.Entities++
	summary.Relationships++
	summary.RelationshipType["HAS_OBJECT"]++

	objectID, _ := id.(string)
	for _, attr := range objectAttributes(obj) {
		i.importAttribute(ctx, objectID, attr, true, summary)
	}
}

func (i *MispImporter) importGalaxy(ctx context.Context, eventID string, galaxy map[string]any, summary *Summary) {
	props := ontology.MispGalaxyProperties(galaxy)
	id, ok := props["id"]
	if !ok {
		logger.Warn("Skipping MISP galaxy without uuid", "eventId", eventID)
		return
	}

	name, _ := galaxy["name"].(string)
	galaxyType, _ := galaxy["type"].(string)
	query := fmt.Sprintf(`
MERGE (g:%s {id: $id})
SET g += $props
WITH g
MATCH (e:Event {id: $eventId})
MERGE (e)-[:HAS_GALAXY]->(g)`, labelExpr(ontology.MispGalaxyLabels(name, galaxyType)))

	if _, err := i.store.ExecuteWrite(ctx, query, map[string]any{
		"id":      id,
		"props":   props,
		"eventId": eventID,
	}); err != nil {
		logger.Warn("MISP galaxy write failed", "id", id, "err", err)
		return
	}
	summary.Entities++
	summary.Relationships++
	summary.RelationshipType["HAS_GALAXY"]++
}

func (i *MispImporter) importTag(ctx context.Context, eventID string, tag map[string]any, summary *Summary) {
	name, _ := tag["name"].(string)
	if name == "" {
		logger.Warn("Skipping MISP tag without name", "eventId", eventID)
		return
	}

	query := fmt.Sprintf(`
MERGE (t:%s {name: $name})
SET t += $props
WITH t
MATCH (e:Event {id: $eventId})
MERGE (e)-[:HAS_TAG]->(t)`, labelExpr(ontology.MispTagLabels()))

	if _, err := i.store.ExecuteWrite(ctx, query, map[string]any{
		"name":    name,
		"props":   ontology.MispTagProperties(tag),
		"eventId": eventID,
	}); err != nil {
		logger.Warn("MISP tag write failed", "name", name, "err", err)
		return
	}
	summary.Entities++
	summary.Relationships++
	summary.RelationshipType["HAS_TAG"]++
}

func objectAttributes(obj map[string]any) []map[string]any {
	raw, ok := obj["Attribute"].([]any)
	if !ok {
		return nil
	}
	attrs := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			attrs = append(attrs, m)
		}
	}
	return attrs
}

func labelExpr(labels []string) string {
	return strings.Join(labels, ":")
}
