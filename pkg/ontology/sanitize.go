package ontology

import "strings"

// RelationshipType converts a source relationship term into a graph
// relationship type identifier: uppercase, with every run of
// non-alphanumeric characters collapsed into a single underscore.
//
// Example: "Is a" -> "IS_A", "Finding site" -> "FINDING_SITE".
//
// Relationship types end up interpolated into query text, so only the
// sanitized form may ever be used there.
func RelationshipType(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	lastUnderscore := true
	for _, r := range strings.ToUpper(term) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// LabelName converts a source type name into a graph node label:
// only alphanumeric characters are kept, and every dropped character
// starts a new Title-cased word.
//
// Example: "attack-pattern" -> "AttackPattern",
// "filename|md5" -> "FilenameMd5".
//
// Labels end up interpolated into query text, so only the sanitized
// form may ever be used there.
func LabelName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	startWord := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			if startWord {
				r -= 'a' - 'A'
			}
			b.WriteRune(r)
			startWord = false
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			startWord = false
		default:
			startWord = true
		}
	}
	if b.Len() == 0 {
		return "Unknown"
	}
	return b.String()
}
