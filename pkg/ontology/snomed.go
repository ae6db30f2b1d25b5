package ontology

import "fmt"

// SNOMED CT description type identifiers (RF2 typeId column).
const (
	SnomedFSNTypeID     = "900000000000003001"
	SnomedSynonymTypeID = "900000000000013009"
)

// FallbackConceptTerm is used when a concept has no active FSN.
func FallbackConceptTerm(conceptID string) string {
	return fmt.Sprintf("Concept_%s", conceptID)
}

// FallbackRelationshipTerm is used when a relationship type concept has
// no active synonym.
func FallbackRelationshipTerm(typeID string) string {
	return fmt.Sprintf("Relationship_%s", typeID)
}
