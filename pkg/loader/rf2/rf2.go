package rf2

import (
	"context"
	"fmt"
	"strings"

	"kgqa/pkg/loader"
	"kgqa/pkg/ontology"
)

// RF2 release files are tab-separated with a header row. Only rows
// with active == "1" are kept; everything else is a retired component.

// Relationship is one active row of the RF2 relationship table.
type Relationship struct {
	SourceID      string
	DestinationID string
	TypeID        string
}

// Release holds the loaded subset of an RF2 terminology release:
// the active concept ids, the FSN and synonym lookups, and the active
// relationship rows.
type Release struct {
	concepts  map[string]struct{}
	fsns      map[string]string
	synonyms  map[string]string
	relations []Relationship
}

// Paths names the three RF2 terminology table files.
type Paths struct {
	ConceptFile      string
	DescriptionFile  string
	RelationshipFile string
}

// Load reads and parses an RF2 release from the three terminology
// tables. Rows that are inactive or malformed are dropped.
func Load(ctx context.Context, reader loader.SourceReader, paths Paths) (*Release, error) {
	release := &Release{
		concepts: make(map[string]struct{}),
		fsns:     make(map[string]string),
		synonyms: make(map[string]string),
	}

	if err := parseTable(ctx, reader, paths.ConceptFile, func(row map[string]string) {
		release.concepts[row["id"]] = struct{}{}
	}); err != nil {
		return nil, fmt.Errorf("failed to load concept table: %w", err)
	}

	if err := parseTable(ctx, reader, paths.DescriptionFile, func(row map[string]string) {
		conceptID := row["conceptId"]
		switch row["typeId"] {
		case ontology.SnomedFSNTypeID:
			if _, ok := release.fsns[conceptID]; !ok {
				release.fsns[conceptID] = row["term"]
			}
		case ontology.SnomedSynonymTypeID:
			if _, ok := release.synonyms[conceptID]; !ok {
				release.synonyms[conceptID] = row["term"]
			}
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to load description table: %w", err)
	}

	if err := parseTable(ctx, reader, paths.RelationshipFile, func(row map[string]string) {
		release.relations = append(release.relations, Relationship{
			SourceID:      row["sourceId"],
			DestinationID: row["destinationId"],
			TypeID:        row["typeId"],
		})
	}); err != nil {
		return nil, fmt.Errorf("failed to load relationship table: %w", err)
	}

	return release, nil
}

// ConceptCount returns the number of active concepts in the release.
func (r *Release) ConceptCount() int {
	return len(r.concepts)
}

// RelationshipCount returns the number of active relationship rows.
func (r *Release) RelationshipCount() int {
	return len(r.relations)
}

// ConceptTerm returns the concept's FSN, or a generated fallback when
// no active FSN exists.
func (r *Release) ConceptTerm(conceptID string) string {
	if term, ok := r.fsns[conceptID]; ok {
		return term
	}
	return ontology.FallbackConceptTerm(conceptID)
}

// RelationshipTerm returns the display term for a relationship type
// concept. Relationship types are named by their synonym ("Is a"), not
// their FSN ("Is a (attribute)").
func (r *Release) RelationshipTerm(typeID string) string {
	if term, ok := r.synonyms[typeID]; ok {
		return term
	}
	return ontology.FallbackRelationshipTerm(typeID)
}

// SubgraphFilter selects the relevant subset of a release. Conditions
// compose via logical AND; zero-valued conditions are ignored.
type SubgraphFilter struct {
	// Keywords match case-insensitively against the concept FSN.
	Keywords []string
	// ConceptIDs is an explicit allow-list of concept identifiers.
	ConceptIDs []string
}

// Subgraph is the filtered closed sub-ontology: the seed concepts plus
// every concept referenced by a relationship touching the seed set,
// and those relationships.
type Subgraph struct {
	ConceptIDs []string
	Relations  []Relationship
}

// FilterSubgraph applies the filter and closes the result over the
// relationship endpoints, so that every relationship's two endpoints
// are part of the returned concept set.
func (r *Release) FilterSubgraph(filter SubgraphFilter) Subgraph {
	allowList := make(map[string]struct{}, len(filter.ConceptIDs))
	for _, id := range filter.ConceptIDs {
		allowList[id] = struct{}{}
	}

	matches := func(conceptID string) bool {
		if len(filter.Keywords) > 0 {
			if !loader.ContainsAnyKeyword(r.fsns[conceptID], filter.Keywords) {
				return false
			}
		}
		if len(allowList) > 0 {
			if _, ok := allowList[conceptID]; !ok {
				return false
			}
		}
		return true
	}

	seeds := make(map[string]struct{})
	for conceptID := range r.concepts {
		if matches(conceptID) {
			seeds[conceptID] = struct{}{}
		}
	}

	var relations []Relationship
	closure := make(map[string]struct{}, len(seeds))
	for _, rel := range r.relations {
		_, srcSeed := seeds[rel.SourceID]
		_, dstSeed := seeds[rel.DestinationID]
		if !srcSeed && !dstSeed {
			continue
		}
		relations = append(relations, rel)
		closure[rel.SourceID] = struct{}{}
		closure[rel.DestinationID] = struct{}{}
	}
	for conceptID := range seeds {
		closure[conceptID] = struct{}{}
	}

	conceptIDs := make([]string, 0, len(closure))
	for conceptID := range closure {
		conceptIDs = append(conceptIDs, conceptID)
	}

	return Subgraph{
		ConceptIDs: conceptIDs,
		Relations:  relations,
	}
}

func parseTable(ctx context.Context, reader loader.SourceReader, path string, handle func(row map[string]string)) error {
	data, err := reader.Read(ctx, path)
	if err != nil {
		return err
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) == 0 {
		return fmt.Errorf("empty RF2 table: %s", path)
	}

	header := strings.Split(strings.TrimRight(lines[0], "\r"), "\t")
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	activeIdx, ok := columns["active"]
	if !ok {
		return fmt.Errorf("missing active column in %s", path)
	}

	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) || fields[activeIdx] != "1" {
			continue
		}
		row := make(map[string]string, len(header))
		for name, idx := range columns {
			row[name] = fields[idx]
		}
		handle(row)
	}

	return nil
}
