package ontology

import "fmt"

// Mapping of MISP events and their nested components onto the graph
// vocabulary. Every imported MISP node carries the shared "MISPObject"
// label next to its component label.

// MispEventLabels are the labels for an imported MISP event node.
func MispEventLabels() []string {
	return []string{"Event", "MISPObject"}
}

// MispAttributeLabels returns the labels for a MISP attribute node:
// the generic component labels plus the title-cased attribute type and
// category.
func MispAttributeLabels(attrType, category string, inObject bool) []string {
	labels := []string{"Attribute", "MISPObject"}
	if inObject {
		labels = append(labels, "ObjectAttribute")
	}
	return append(labels, LabelName(attrType), LabelName(category))
}

// MispObjectLabels returns the labels for a MISP object node.
func MispObjectLabels(objectName string) []string {
	return []string{"Object", "MISPObject", LabelName(objectName)}
}

// MispGalaxyLabels returns the labels for a MISP galaxy node.
func MispGalaxyLabels(galaxyName, galaxyType string) []string {
	return []string{"Galaxy", "MISPObject", LabelName(galaxyName), LabelName(galaxyType)}
}

// MispTagLabels returns the labels for a MISP tag node.
func MispTagLabels() []string {
	return []string{"Tag", "MISPObject"}
}

// MispEventProperties extracts the flat property map for an event.
func MispEventProperties(event map[string]any) map[string]any {
	props := map[string]any{
		"id":              event["id"],
		"uuid":            event["uuid"],
		"info":            event["info"],
		"date":            event["date"],
		"threat_level_id": event["threat_level_id"],
		"analysis":        event["analysis"],
		"timestamp":       event["timestamp"],
		"org_name":        orgName(event),
	}
	return dropNil(props)
}

// MispAttributeProperties extracts the flat property map for an attribute.
func MispAttributeProperties(attr map[string]any) map[string]any {
	props := map[string]any{
		"id":       mispID(attr),
		"uuid":     attr["uuid"],
		"type":     mispType(attr),
		"category": attr["category"],
		"value":    attr["value"],
		"to_ids":   attr["to_ids"],
		"created":  attr["timestamp"],
	}
	if comment, ok := attr["comment"].(string); ok && comment != "" {
		props["description"] = comment
	}
	return dropNil(props)
}

// MispObjectProperties extracts the flat property map for an object.
func MispObjectProperties(obj map[string]any) map[string]any {
	props := map[string]any{
		"id":            mispID(obj),
		"uuid":          obj["uuid"],
		"name":          obj["name"],
		"meta_category": obj["meta-category"],
		"description":   obj["description"],
		"template_uuid": obj["template_uuid"],
		"created":       obj["timestamp"],
	}
	return dropNil(props)
}

// MispGalaxyProperties extracts the flat property map for a galaxy.
func MispGalaxyProperties(galaxy map[string]any) map[string]any {
	props := map[string]any{
		"id":          mispID(galaxy),
		"uuid":        galaxy["uuid"],
		"name":        galaxy["name"],
		"type":        galaxy["type"],
		"description": galaxy["description"],
		"namespace":   galaxy["namespace"],
	}
	return dropNil(props)
}

// MispTagProperties extracts the flat property map for a tag.
func MispTagProperties(tag map[string]any) map[string]any {
	props := map[string]any{
		"name":   tag["name"],
		"colour": tag["colour"],
	}
	return dropNil(props)
}

func mispID(obj map[string]any) any {
	if uuid, ok := obj["uuid"].(string); ok && uuid != "" {
		return fmt.Sprintf("misp-%s", uuid)
	}
	return nil
}

func mispType(obj map[string]any) any {
	if t, ok := obj["type"].(string); ok && t != "" {
		return t
	}
	return "unknown"
}

func orgName(event map[string]any) any {
	org, ok := event["Org"].(map[string]any)
	if !ok {
		return nil
	}
	return org["name"]
}
