package dataset

import (
	"context"

	"kgqa/pkg/common"
	"kgqa/pkg/logger"
	"kgqa/pkg/qa"
	"kgqa/pkg/query"
)

// Relationship types used for single-hop generation, in generation
// order.
var singleHopTypes = []string{
	"IS_A",
	"FINDING_SITE",
	"CAUSATIVE_AGENT",
	"PATHOLOGICAL_PROCESS",
	"ASSOCIATED_MORPHOLOGY",
}

// Each entity contributes at most this many records per relationship
// type on the easy tier.
const maxRecordsPerRelation = 2

// GraphQueries is the slice of the query catalog the generator needs.
type GraphQueries interface {
	FilteredScan(ctx context.Context, termContains string, limit int) ([]common.Entity, error)
	Neighbors(ctx context.Context, id string, direction query.Direction, relType string) ([]query.Neighbor, error)
	PathsThroughGraph(ctx context.Context, minHops, maxHops, limit int) ([]common.Path, error)
	ConstraintMatches(ctx context.Context, relTypeA, relTypeB string, limit int) ([]query.ConstraintMatch, error)
}

// Budgets caps the number of records generated per tier.
type Budgets struct {
	Easy    int
	Medium  int
	Hard    int
	Complex int
}

// DefaultBudgets matches the historical dataset sizes.
var DefaultBudgets = Budgets{
	Easy:    1000,
	Medium:  500,
	Hard:    200,
	Complex: 200,
}

// Summary describes an assembled dataset.
type Summary struct {
	Total          int            `json:"total"`
	ByTier         map[string]int `json:"by_tier"`
	ByRelationType map[string]int `json:"by_relation_type"`
}

// Dataset holds the generated records bucketed by difficulty tier.
type Dataset struct {
	Tiers   map[common.Tier][]common.QARecord
	Summary Summary
}

// Generator drives the query catalog and the template engine to
// produce a difficulty-bucketed QA dataset.
type Generator struct {
	queries GraphQueries
	engine  *qa.Engine
}

// NewGenerator creates a generator over the given queries and engine.
func NewGenerator(queries GraphQueries, engine *qa.Engine) *Generator {
	return &Generator{queries: queries, engine: engine}
}

// Generate produces records for one tier, stopping once the budget is
// reached. Records are taken in query-result order; the budget is a
// first-come truncation, not a sample.
func (g *Generator) Generate(ctx context.Context, tier common.Tier, budget int) []common.QARecord {
	if budget <= 0 {
		return nil
	}
	switch tier {
	case common.TierEasy:
		return g.generateSingleHop(ctx, budget)
	case common.TierMedium:
		return g.generateTwoHop(ctx, budget)
	case common.TierHard:
		return g.generateMultiHop(ctx, budget)
	}
	return nil
}

// GenerateComplex produces multi-constraint records for entities that
// have both a causative agent and a finding site.
func (g *Generator) GenerateComplex(ctx context.Context, budget int) []common.QARecord {
	if budget <= 0 {
		return nil
	}
	matches, err := g.queries.ConstraintMatches(ctx, "Causative agent", "Finding site", budget)
	if err != nil {
		logger.Warn("Multi-constraint query failed", "err", err)
		return nil
	}

	records := make([]common.QARecord, 0, budget)
	for _, match := range matches {
		record, ok := g.engine.Complex(match.Term, match.FirstTerm, match.SecondTerm)
		if !ok {
			continue
		}
		records = append(records, record)
		if len(records) >= budget {
			break
		}
	}
	return records
}

func (g *Generator) generateSingleHop(ctx context.Context, budget int) []common.QARecord {
	entities, err := g.queries.FilteredScan(ctx, "", budget)
	if err != nil {
		logger.Warn("Entity scan failed", "err", err)
		return nil
	}

	records := make([]common.QARecord, 0, budget)
	for _, entity := range entities {
		for _, relType := range singleHopTypes {
			neighbors, err := g.queries.Neighbors(ctx, entity.ID, query.Outgoing, relType)
			if err != nil {
				logger.Warn("Neighbor query failed", "conceptId", entity.ID, "type", relType, "err", err)
				continue
			}
			for n, neighbor := range neighbors {
				if n >= maxRecordsPerRelation {
					break
				}
				record, ok := g.engine.SingleHop(neighbor.SourceTerm, neighbor.TargetTerm, neighbor.RelationType)
				if !ok {
					continue
				}
				records = append(records, record)
				if len(records) >= budget {
					return records
				}
			}
		}
	}
	return records
}

func (g *Generator) generateTwoHop(ctx context.Context, budget int) []common.QARecord {
	paths, err := g.queries.PathsThroughGraph(ctx, 2, 2, budget)
	if err != nil {
		logger.Warn("Two-hop path query failed", "err", err)
		return nil
	}

	records := make([]common.QARecord, 0, budget)
	for _, path := range paths {
		record, ok := g.engine.TwoHop(path)
		if !ok {
			continue
		}
		records = append(records, record)
		if len(records) >= budget {
			break
		}
	}
	return records
}

func (g *Generator) generateMultiHop(ctx context.Context, budget int) []common.QARecord {
	paths, err := g.queries.PathsThroughGraph(ctx, 3, 3, budget)
	if err != nil {
		logger.Warn("Multi-hop path query failed", "err", err)
		return nil
	}

	records := make([]common.QARecord, 0, budget)
	for _, path := range paths {
		record, ok := g.engine.MultiHop(path)
		if !ok {
			continue
		}
		records = append(records, record)
		if len(records) >= budget {
			break
		}
	}
	return records
}

// Assemble generates every tier and derives the summary. Hard-tier
// records combine multi-hop paths and multi-constraint lookups.
func (g *Generator) Assemble(ctx context.Context, budgets Budgets) *Dataset {
	logger.Info("Generating QA dataset",
		"easy", budgets.Easy, "medium", budgets.Medium,
		"hard", budgets.Hard, "complex", budgets.Complex)

	tiers := map[common.Tier][]common.QARecord{
		common.TierEasy:   g.Generate(ctx, common.TierEasy, budgets.Easy),
		common.TierMedium: g.Generate(ctx, common.TierMedium, budgets.Medium),
	}
	hard := g.Generate(ctx, common.TierHard, budgets.Hard)
	hard = append(hard, g.GenerateComplex(ctx, budgets.Complex)...)
	tiers[common.TierHard] = hard

	summary := Summary{
		ByTier:         make(map[string]int, len(tiers)),
		ByRelationType: make(map[string]int),
	}
	for tier, records := range tiers {
		summary.ByTier[string(tier)] = len(records)
		summary.Total += len(records)
		for _, record := range records {
			for _, relType := range record.Metadata.RelationPath {
				summary.ByRelationType[relType]++
			}
		}
	}

	logger.Info("QA dataset generated", "total", summary.Total)
	return &Dataset{Tiers: tiers, Summary: summary}
}
