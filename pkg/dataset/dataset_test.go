package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"kgqa/pkg/common"
	"kgqa/pkg/qa"
	"kgqa/pkg/query"
)

type stubQueries struct {
	entities  []common.Entity
	neighbors map[string][]query.Neighbor
	paths     map[int][]common.Path
	matches   []query.ConstraintMatch
}

func (s *stubQueries) FilteredScan(ctx context.Context, termContains string, limit int) ([]common.Entity, error) {
	return s.entities, nil
}

func (s *stubQueries) Neighbors(ctx context.Context, id string, direction query.Direction, relType string) ([]query.Neighbor, error) {
	return s.neighbors[id+"/"+relType], nil
}

func (s *stubQueries) PathsThroughGraph(ctx context.Context, minHops, maxHops, limit int) ([]common.Path, error) {
	return s.paths[minHops], nil
}

func (s *stubQueries) ConstraintMatches(ctx context.Context, relTypeA, relTypeB string, limit int) ([]query.ConstraintMatch, error) {
	return s.matches, nil
}

func twoHopPaths(n int) []common.Path {
	paths := make([]common.Path, 0, n)
	for i := 0; i < n; i++ {
		paths = append(paths, common.Path{
			Terms:         []string{fmt.Sprintf("Start %d", i), "Middle", "End"},
			Relations:     []string{"IS_A", "FINDING_SITE"},
			RelationTerms: []string{"Is a", "Finding site"},
			Hops:          2,
		})
	}
	return paths
}

func TestGenerateTruncatesAtBudget(t *testing.T) {
	stub := &stubQueries{paths: map[int][]common.Path{2: twoHopPaths(20)}}
	generator := NewGenerator(stub, qa.NewEngine(qa.FirstTemplate))

	records := generator.Generate(context.Background(), common.TierMedium, 5)
	if len(records) != 5 {
		t.Fatalf("expected exactly 5 records, got %d", len(records))
	}
	// First-come truncation keeps query-result order.
	if records[0].SourceEntity != "Start 0" || records[4].SourceEntity != "Start 4" {
		t.Fatalf("unexpected record order: %s .. %s", records[0].SourceEntity, records[4].SourceEntity)
	}
}

func TestGenerateSingleHopPerRelationLimit(t *testing.T) {
	stub := &stubQueries{
		entities: []common.Entity{{ID: "80967001", Term: "Dental caries"}},
		neighbors: map[string][]query.Neighbor{
			"80967001/IS_A": {
				{SourceTerm: "Dental caries", RelationType: "IS_A", TargetTerm: "Disease"},
				{SourceTerm: "Dental caries", RelationType: "IS_A", TargetTerm: "Disorder"},
				{SourceTerm: "Dental caries", RelationType: "IS_A", TargetTerm: "Clinical finding"},
			},
		},
	}
	generator := NewGenerator(stub, qa.NewEngine(qa.FirstTemplate))

	records := generator.Generate(context.Background(), common.TierEasy, 100)
	if len(records) != maxRecordsPerRelation {
		t.Fatalf("expected %d records per relation type, got %d", maxRecordsPerRelation, len(records))
	}
	if records[0].Question != "Dental caries는 어떤 종류의 개념인가요?" {
		t.Fatalf("unexpected question: %s", records[0].Question)
	}
}

func TestAssembleCombinesHardAndComplex(t *testing.T) {
	stub := &stubQueries{
		paths: map[int][]common.Path{
			3: {{
				Terms:         []string{"A", "B", "C", "D"},
				Relations:     []string{"IS_A", "IS_A", "IS_A"},
				RelationTerms: []string{"Is a", "Is a", "Is a"},
				Hops:          3,
			}},
		},
		matches: []query.ConstraintMatch{
			{Term: "Dental caries", FirstTerm: "Bacteria", SecondTerm: "Tooth structure"},
		},
	}
	generator := NewGenerator(stub, qa.NewEngine(qa.FirstTemplate))

	ds := generator.Assemble(context.Background(), Budgets{Hard: 10, Complex: 10})
	if got := len(ds.Tiers[common.TierHard]); got != 2 {
		t.Fatalf("expected 2 hard records, got %d", got)
	}
	if ds.Summary.Total != 2 {
		t.Fatalf("expected summary total 2, got %d", ds.Summary.Total)
	}
	if ds.Summary.ByTier["hard"] != 2 {
		t.Fatalf("expected hard tier count 2, got %d", ds.Summary.ByTier["hard"])
	}
	// The histogram counts graph relationship types for every record.
	if got := ds.Summary.ByRelationType["IS_A"]; got != 3 {
		t.Fatalf("expected 3 IS_A occurrences, got %d", got)
	}
	if got := ds.Summary.ByRelationType["CAUSATIVE_AGENT"]; got != 1 {
		t.Fatalf("expected 1 CAUSATIVE_AGENT occurrence, got %d", got)
	}
	if _, ok := ds.Summary.ByRelationType["Is a"]; ok {
		t.Fatal("histogram must not mix in source vocabulary terms")
	}
}

func TestPersistCountsMatchSummary(t *testing.T) {
	stub := &stubQueries{paths: map[int][]common.Path{2: twoHopPaths(7)}}
	generator := NewGenerator(stub, qa.NewEngine(qa.FirstTemplate))

	ds := generator.Assemble(context.Background(), Budgets{Medium: 5})

	dir := t.TempDir()
	if err := Persist(ds, dir); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	for tier, want := range ds.Summary.ByTier {
		path := filepath.Join(dir, fmt.Sprintf("qa_%s.jsonl", tier))
		if got := countLines(t, path); got != want {
			t.Fatalf("tier %s: summary says %d records, file has %d lines", tier, want, got)
		}
	}
	if got := countLines(t, filepath.Join(dir, "qa_all.jsonl")); got != ds.Summary.Total {
		t.Fatalf("combined file has %d lines, summary total is %d", got, ds.Summary.Total)
	}

	statsData, err := os.ReadFile(filepath.Join(dir, "qa_stats.json"))
	if err != nil {
		t.Fatalf("failed to read stats: %v", err)
	}
	var summary Summary
	if err := json.Unmarshal(statsData, &summary); err != nil {
		t.Fatalf("failed to parse stats: %v", err)
	}
	if summary.Total != ds.Summary.Total {
		t.Fatalf("persisted total %d does not match %d", summary.Total, ds.Summary.Total)
	}
}

func TestPersistedRecordFields(t *testing.T) {
	stub := &stubQueries{paths: map[int][]common.Path{2: twoHopPaths(1)}}
	generator := NewGenerator(stub, qa.NewEngine(qa.FirstTemplate))

	ds := generator.Assemble(context.Background(), Budgets{Medium: 1})
	dir := t.TempDir()
	if err := Persist(ds, dir); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "qa_medium.jsonl"))
	if err != nil {
		t.Fatalf("failed to read tier file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	for _, field := range []string{"id", "difficulty_tier", "question", "answer", "source_entity", "target_entity", "metadata"} {
		if _, ok := record[field]; !ok {
			t.Fatalf("record missing field %q: %s", field, data)
		}
	}
	metadata, _ := record["metadata"].(map[string]any)
	if metadata["hop_count"] != float64(2) {
		t.Fatalf("unexpected hop_count: %v", metadata["hop_count"])
	}
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to scan %s: %v", path, err)
	}
	return count
}
