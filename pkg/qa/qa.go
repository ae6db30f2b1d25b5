package qa

import (
	"fmt"
	"math/rand"
	"strings"

	"kgqa/internal/util"
	"kgqa/pkg/common"
	"kgqa/pkg/logger"
)

// Chooser picks a template index given the number of templates for a
// relationship type. The default chooser is random; tests and
// reproducible runs inject a deterministic one.
type Chooser func(n int) int

// FirstTemplate is a deterministic chooser that always picks the first
// template.
func FirstTemplate(n int) int {
	return 0
}

// Engine turns graph query results into question/answer records.
type Engine struct {
	choose Chooser
}

// NewEngine creates an engine with the given chooser. A nil chooser
// means uniform random selection.
func NewEngine(choose Chooser) *Engine {
	if choose == nil {
		choose = rand.Intn
	}
	return &Engine{choose: choose}
}

// SingleHop generates a record for one direct relationship. The second
// return value is false when the relationship type has no templates.
func (e *Engine) SingleHop(sourceTerm, targetTerm, relType string) (common.QARecord, bool) {
	candidates := Templates(relType)
	if len(candidates) == 0 {
		return common.QARecord{}, false
	}
	template := candidates[e.choose(len(candidates))]

	id, err := util.NewQAID("L1")
	if err != nil {
		logger.Warn("Failed to generate QA id", "err", err)
		return common.QARecord{}, false
	}

	return common.QARecord{
		ID:           id,
		Difficulty:   common.TierForHops(1),
		Question:     fill(template.Question, sourceTerm, targetTerm),
		Answer:       fill(template.Answer, sourceTerm, targetTerm),
		SourceEntity: sourceTerm,
		TargetEntity: targetTerm,
		RelationType: relType,
		Metadata: common.QAMetadata{
			Hops:         1,
			RelationPath: []string{relType},
		},
	}, true
}

// TwoHop generates a composed record for a 2-hop path. The path must
// carry three terms and two relation terms.
func (e *Engine) TwoHop(path common.Path) (common.QARecord, bool) {
	if len(path.Terms) != 3 || len(path.Relations) != 2 {
		return common.QARecord{}, false
	}
	start, middle, end := path.Terms[0], path.Terms[1], path.Terms[2]

	// Sentence text reads better with the source vocabulary terms;
	// metadata keeps the graph relationship types.
	rel1, rel2 := path.Relations[0], path.Relations[1]
	if len(path.RelationTerms) == 2 {
		rel1, rel2 = path.RelationTerms[0], path.RelationTerms[1]
	}

	id, err := util.NewQAID("L2")
	if err != nil {
		logger.Warn("Failed to generate QA id", "err", err)
		return common.QARecord{}, false
	}

	question := fmt.Sprintf("%s의 %s인 %s의 %s은 무엇인가요?", start, rel1, middle, rel2)
	answer := fmt.Sprintf("%s의 %s은 %s이고, 이것의 %s은 %s입니다.", start, rel1, middle, rel2, end)

	return common.QARecord{
		ID:           id,
		Difficulty:   common.TierForHops(2),
		Question:     question,
		Answer:       answer,
		SourceEntity: start,
		TargetEntity: end,
		Metadata: common.QAMetadata{
			Hops:         2,
			RelationPath: path.Relations,
			Path:         path.Render(),
		},
	}, true
}

// MultiHop generates a record for a path of three or more hops. The
// answer walks the intermediate terms in path order.
func (e *Engine) MultiHop(path common.Path) (common.QARecord, bool) {
	if len(path.Terms) < 4 || path.Hops < 3 {
		return common.QARecord{}, false
	}
	start := path.Terms[0]
	end := path.Terms[len(path.Terms)-1]
	intermediates := strings.Join(path.Terms[1:len(path.Terms)-1], " -> ")

	id, err := util.NewQAID("L3")
	if err != nil {
		logger.Warn("Failed to generate QA id", "err", err)
		return common.QARecord{}, false
	}

	question := fmt.Sprintf("%s에서 %d단계 관계를 통해 연결된 개념은 무엇인가요?", start, path.Hops)
	answer := fmt.Sprintf("%s은(는) %s을(를) 거쳐 %s과(와) 연결됩니다.", start, intermediates, end)

	return common.QARecord{
		ID:           id,
		Difficulty:   common.TierForHops(path.Hops),
		Question:     question,
		Answer:       answer,
		SourceEntity: start,
		TargetEntity: end,
		Metadata: common.QAMetadata{
			Hops:         path.Hops,
			RelationPath: path.Relations,
			Path:         path.Render(),
		},
	}, true
}

// Complex generates a multi-constraint record for an entity that has
// both a cause and a site.
func (e *Engine) Complex(conceptTerm, agentTerm, siteTerm string) (common.QARecord, bool) {
	id, err := util.NewQAID("LC")
	if err != nil {
		logger.Warn("Failed to generate QA id", "err", err)
		return common.QARecord{}, false
	}

	question := fmt.Sprintf("원인이 %s이고 %s에서 발생하는 질병은 무엇인가요?", agentTerm, siteTerm)
	answer := fmt.Sprintf("%s은(는) %s이(가) 원인이며 %s에서 발생하는 질병입니다.", conceptTerm, agentTerm, siteTerm)

	return common.QARecord{
		ID:           id,
		Difficulty:   common.TierHard,
		Question:     question,
		Answer:       answer,
		SourceEntity: conceptTerm,
		TargetEntity: siteTerm,
		Metadata: common.QAMetadata{
			Hops:         1,
			RelationPath: []string{"CAUSATIVE_AGENT", "FINDING_SITE"},
		},
	}, true
}

func fill(template, term, object string) string {
	filled := strings.ReplaceAll(template, "{term}", term)
	return strings.ReplaceAll(filled, "{object}", object)
}
