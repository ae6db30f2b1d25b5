package ontology

import "testing"

func TestRelationshipType(t *testing.T) {
	tests := []struct {
		name string
		term string
		want string
	}{
		{name: "single word", term: "Uses", want: "USES"},
		{name: "two words", term: "Is a", want: "IS_A"},
		{name: "finding site", term: "Finding site", want: "FINDING_SITE"},
		{name: "dashes", term: "attributed-to", want: "ATTRIBUTED_TO"},
		{name: "parentheses dropped", term: "Due to (attribute)", want: "DUE_TO_ATTRIBUTE"},
		{name: "runs collapsed", term: "a -- b", want: "A_B"},
		{name: "trailing punctuation trimmed", term: "Drops!", want: "DROPS"},
		{name: "digits kept", term: "Stage 2 process", want: "STAGE_2_PROCESS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelationshipType(tt.term)
			if got != tt.want {
				t.Fatalf("unexpected relationship type: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabelName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dashed type", input: "attack-pattern", want: "AttackPattern"},
		{name: "spaces", input: "ip src", want: "IpSrc"},
		{name: "colons", input: "misp:tool", want: "MispTool"},
		{name: "already clean", input: "Malware", want: "Malware"},
		{name: "composite attribute type", input: "filename|md5", want: "FilenameMd5"},
		{name: "multibyte characters dropped", input: "éclair", want: "Clair"},
		{name: "empty falls back", input: "", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LabelName(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected label: got %q, want %q", got, tt.want)
			}
		})
	}
}
