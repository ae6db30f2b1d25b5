package qa

// Template is one question/answer pair with {term} and {object}
// placeholders for the source and target entity terms.
type Template struct {
	Question string
	Answer   string
}

// Korean QA templates keyed by graph relationship type. A relationship
// type without an entry produces no record.
var templates = map[string][]Template{
	"IS_A": {
		{"{term}는 어떤 종류의 개념인가요?", "{term}는 {object}의 하위 개념입니다."},
		{"{term}의 상위 개념은 무엇인가요?", "{term}의 상위 개념은 {object}입니다."},
		{"{term}은(는) 무엇으로 분류되나요?", "{term}은(는) {object}으로 분류됩니다."},
	},
	"FINDING_SITE": {
		{"{term}는 인체의 어떤 부위에 발생하나요?", "{term}는 주로 {object} 부위에서 발생합니다."},
		{"{term}의 발생 부위는 어디인가요?", "{term}의 발생 부위는 {object}입니다."},
	},
	"CAUSATIVE_AGENT": {
		{"{term}의 원인은 무엇인가요?", "{term}의 주요 원인은 {object}입니다."},
		{"{term}을(를) 일으키는 원인 물질은 무엇인가요?", "{term}을(를) 일으키는 원인 물질은 {object}입니다."},
	},
	"PATHOLOGICAL_PROCESS": {
		{"{term}의 병태생리학적 과정은 무엇인가요?", "{term}의 병태생리학적 과정은 {object}입니다."},
		{"{term}에서 일어나는 병리학적 과정은 무엇인가요?", "{term}에서는 {object} 과정이 일어납니다."},
	},
	"ASSOCIATED_MORPHOLOGY": {
		{"{term}에서 나타나는 형태학적 변화는 무엇인가요?", "{term}에서는 {object}의 형태학적 변화가 나타납니다."},
		{"{term}의 특징적인 형태는 무엇인가요?", "{term}의 특징적인 형태는 {object}입니다."},
	},
	"CLINICAL_COURSE": {
		{"{term}의 임상 경과는 어떤가요?", "{term}는 {object}한 경과를 보입니다."},
		{"{term}의 진행 양상은 어떤가요?", "{term}은(는) {object}한 양상으로 진행됩니다."},
	},
	"DUE_TO": {
		{"{term}은(는) 무엇 때문에 발생하나요?", "{term}은(는) {object} 때문에 발생합니다."},
		{"{term}의 원인은 무엇인가요?", "{term}은(는) {object}로 인해 발생합니다."},
	},
	"ASSOCIATED_FINDING": {
		{"{term}의 일반적인 증상이나 징후는 무엇인가요?", "{term}의 주요 징후는 {object}입니다."},
	},
	"ASSOCIATED_WITH": {
		{"{term}과 관련된 질환은 무엇인가요?", "{term}은(는) {object}와 관련이 있습니다."},
	},
	"OCCURS_IN": {
		{"{term}는 어떤 연령대에서 흔한가요?", "{term}는 주로 {object}에서 발생합니다."},
	},
}

// Templates returns the template list for a relationship type, or nil
// when the type is unknown.
func Templates(relType string) []Template {
	return templates[relType]
}

// KnownTypes returns the relationship types that have templates, in no
// particular order.
func KnownTypes() []string {
	types := make([]string, 0, len(templates))
	for relType := range templates {
		types = append(types, relType)
	}
	return types
}
