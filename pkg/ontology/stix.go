package ontology

// Mapping of STIX 2.x objects onto the graph vocabulary, following the
// Unified Cyber Ontology label hierarchy. Unmapped types fall back to a
// generic label, never an error.

var stixLabels = map[string][]string{
	"attack-pattern":   {"StixObject", "Action", "AttackPattern"},
	"campaign":         {"StixObject", "Action", "Campaign"},
	"course-of-action": {"StixObject", "Mitigation", "CourseOfAction"},
	"identity":         {"StixObject", "Identity"},
	"indicator":        {"StixObject", "Observable", "Indicator"},
	"intrusion-set":    {"StixObject", "Identity", "IntrusionSet"},
	"malware":          {"StixObject", "Action", "Malware"},
	"observed-data":    {"StixObject", "Observable"},
	"report":           {"StixObject", "Report"},
	"threat-actor":     {"StixObject", "Identity", "ThreatActor"},
	"tool":             {"StixObject", "Action", "Tool"},
	"vulnerability":    {"StixObject", "Observable", "Vulnerability"},
}

var stixRelationshipTypes = map[string]string{
	"uses":              "USES",
	"indicates":         "INDICATES",
	"mitigates":         "MITIGATES",
	"targets":           "TARGETS",
	"attributed-to":     "ATTRIBUTED_TO",
	"related-to":        "RELATED_TO",
	"variant-of":        "VARIANT_OF",
	"impersonates":      "IMPERSONATES",
	"derived-from":      "DERIVED_FROM",
	"duplicate-of":      "DUPLICATE_OF",
	"based-on":          "BASED_ON",
	"exploits":          "EXPLOITS",
	"delivers":          "DELIVERS",
	"compromises":       "COMPROMISES",
	"hosts":             "HOSTS",
	"owns":              "OWNS",
	"authored-by":       "AUTHORED_BY",
	"beacons-to":        "BEACONS_TO",
	"exfiltrates-to":    "EXFILTRATES_TO",
	"downloads":         "DOWNLOADS",
	"drops":             "DROPS",
	"communicates-with": "COMMUNICATES_WITH",
}

// StixLabels returns the ordered label set for a STIX object type.
func StixLabels(stixType string) []string {
	if labels, ok := stixLabels[stixType]; ok {
		return labels
	}
	return []string{"StixObject", "Unknown"}
}

// StixRelationshipType maps a STIX relationship type onto a graph
// relationship type. Unknown types are sanitized instead of rejected.
func StixRelationshipType(stixRelType string) string {
	if mapped, ok := stixRelationshipTypes[stixRelType]; ok {
		return mapped
	}
	return RelationshipType(stixRelType)
}

// StixNodeProperties extracts the flat property map for a STIX object.
// Fields are allowlisted per object type; unknown or empty fields are
// dropped.
func StixNodeProperties(obj map[string]any) map[string]any {
	props := map[string]any{
		"id":       obj["id"],
		"type":     obj["type"],
		"created":  obj["created"],
		"modified": obj["modified"],
	}

	copyField(props, obj, "name")
	copyField(props, obj, "description")

	switch obj["type"] {
	case "attack-pattern":
		copyMitreReference(props, obj)
		copyKillChainPhases(props, obj)
	case "malware":
		copyField(props, obj, "is_family")
		copyField(props, obj, "malware_types")
		copyField(props, obj, "aliases")
	case "threat-actor":
		copyField(props, obj, "aliases")
		copyField(props, obj, "threat_actor_types")
		copyField(props, obj, "sophistication")
		copyField(props, obj, "resource_level")
		copyField(props, obj, "primary_motivation")
	case "vulnerability":
		copyExternalID(props, obj, "cve", "cve_id")
	case "indicator":
		copyField(props, obj, "pattern")
		copyField(props, obj, "pattern_type")
		copyField(props, obj, "valid_from")
		copyField(props, obj, "valid_until")
		copyField(props, obj, "indicator_types")
	case "tool":
		copyField(props, obj, "tool_types")
		copyField(props, obj, "aliases")
	case "course-of-action":
		copyMitreReference(props, obj)
	}

	return dropNil(props)
}

// StixRelationshipProperties extracts the flat property map for a STIX
// relationship object.
func StixRelationshipProperties(rel map[string]any) map[string]any {
	props := map[string]any{
		"id":                rel["id"],
		"relationship_type": rel["relationship_type"],
		"created":           rel["created"],
		"modified":          rel["modified"],
	}
	copyField(props, rel, "description")
	return dropNil(props)
}

func copyField(dst map[string]any, src map[string]any, key string) {
	if v, ok := src[key]; ok && v != nil {
		dst[key] = v
	}
}

func copyMitreReference(dst map[string]any, obj map[string]any) {
	for _, ref := range externalReferences(obj) {
		if ref["source_name"] == "mitre-attack" {
			copyField(dst, ref, "external_id")
			if v, ok := dst["external_id"]; ok {
				dst["mitre_id"] = v
				delete(dst, "external_id")
			}
			copyField(dst, ref, "url")
			if v, ok := dst["url"]; ok {
				dst["mitre_url"] = v
				delete(dst, "url")
			}
			return
		}
	}
}

func copyExternalID(dst map[string]any, obj map[string]any, sourceName, key string) {
	for _, ref := range externalReferences(obj) {
		if ref["source_name"] == sourceName {
			if v, ok := ref["external_id"]; ok && v != nil {
				dst[key] = v
			}
			return
		}
	}
}

func copyKillChainPhases(dst map[string]any, obj map[string]any) {
	raw, ok := obj["kill_chain_phases"].([]any)
	if !ok {
		return
	}
	phases := make([]string, 0, len(raw))
	for _, p := range raw {
		phase, ok := p.(map[string]any)
		if !ok {
			continue
		}
		chain, _ := phase["kill_chain_name"].(string)
		name, _ := phase["phase_name"].(string)
		if chain == "" && name == "" {
			continue
		}
		phases = append(phases, chain+":"+name)
	}
	if len(phases) > 0 {
		dst["kill_chain_phases"] = phases
	}
}

func externalReferences(obj map[string]any) []map[string]any {
	raw, ok := obj["external_references"].([]any)
	if !ok {
		return nil
	}
	refs := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if ref, ok := r.(map[string]any); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

func dropNil(props map[string]any) map[string]any {
	for k, v := range props {
		if v == nil {
			delete(props, k)
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			delete(props, k)
		}
	}
	return props
}
