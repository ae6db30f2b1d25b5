package stix

import (
	"context"
	"encoding/json"
	"fmt"

	"kgqa/pkg/loader"
)

// Object is a raw STIX 2.x domain object.
type Object map[string]any

// Type returns the STIX type discriminator.
func (o Object) Type() string {
	t, _ := o["type"].(string)
	return t
}

// ID returns the STIX identifier.
func (o Object) ID() string {
	id, _ := o["id"].(string)
	return id
}

// Bundle holds the loaded objects of a STIX bundle, with relationship
// objects split out from domain objects.
type Bundle struct {
	Objects       []Object
	Relationships []Object
}

// Load parses a STIX bundle file. Accepts a bundle ({"objects": […]}),
// a bare object list, or a single object.
func Load(ctx context.Context, reader loader.SourceReader, path string) (*Bundle, error) {
	data, err := reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse STIX bundle %s: %w", path, err)
	}

	var objects []any
	switch v := raw.(type) {
	case map[string]any:
		if list, ok := v["objects"].([]any); ok {
			objects = list
		} else {
			objects = []any{v}
		}
	case []any:
		objects = v
	default:
		return nil, fmt.Errorf("unexpected STIX bundle shape in %s", path)
	}

	bundle := &Bundle{}
	for _, o := range objects {
		obj, ok := o.(map[string]any)
		if !ok {
			continue
		}
		if Object(obj).Type() == "relationship" {
			bundle.Relationships = append(bundle.Relationships, Object(obj))
		} else {
			bundle.Objects = append(bundle.Objects, Object(obj))
		}
	}

	return bundle, nil
}

// TypeCounts returns the per-type object histogram.
func (b *Bundle) TypeCounts() map[string]int {
	counts := make(map[string]int)
	for _, obj := range b.Objects {
		counts[obj.Type()]++
	}
	return counts
}

// TypeFilter accepts only objects of the listed STIX types. An empty
// list accepts everything.
func TypeFilter(stixTypes []string) loader.Predicate[Object] {
	if len(stixTypes) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(stixTypes))
	for _, t := range stixTypes {
		allowed[t] = struct{}{}
	}
	return func(obj Object) bool {
		_, ok := allowed[obj.Type()]
		return ok
	}
}

// KeywordFilter accepts objects whose name or description contains one
// of the keywords, case-insensitively.
func KeywordFilter(keywords []string) loader.Predicate[Object] {
	if len(keywords) == 0 {
		return nil
	}
	return func(obj Object) bool {
		name, _ := obj["name"].(string)
		description, _ := obj["description"].(string)
		return loader.ContainsAnyKeyword(name, keywords) ||
			loader.ContainsAnyKeyword(description, keywords)
	}
}

// FilterObjects returns the domain objects accepted by every given
// predicate, in bundle order.
func (b *Bundle) FilterObjects(preds ...loader.Predicate[Object]) []Object {
	return loader.Filter(b.Objects, loader.And(preds...))
}
