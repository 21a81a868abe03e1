package markers

import (
	"testing"

	"github.com/jonathan/essay-grader/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCoverage_FindsPhrasesCaseInsensitive(t *testing.T) {
	text := "I believe education is important because it provides opportunities. " +
		"However, there are challenges. In conclusion, we need to invest more."

	cov := Coverage(text, DiscourseMarkers)

	assert.Contains(t, cov["position"], "believe")
	assert.Contains(t, cov["evidence"], "because")
	assert.Contains(t, cov["contrast"], "however")
	assert.Contains(t, cov["conclusion"], "in conclusion")
}

func TestCoverage_EveryCategoryPresent(t *testing.T) {
	cov := Coverage("Nothing relevant here.", LinkingPhrases)

	assert.Len(t, cov, len(LinkingPhrases))
	for _, name := range LinkingPhrases.Names() {
		assert.NotNil(t, cov[name], name)
		assert.Empty(t, cov[name], name)
	}
}

func TestCoverage_PresenceNotMultiplicity(t *testing.T) {
	cov := Coverage("However, this. However, that. HOWEVER, the other.", Set{{Name: "contrast", Phrases: []string{"however"}}})
	assert.Equal(t, []string{"however"}, cov["contrast"])
}

func TestScore_DistributionBonus(t *testing.T) {
	cov := types.MarkerCoverage{
		"addition":     {"moreover"},
		"contrast":     {"however"},
		"cause_effect": {"therefore"},
		"example":      {"for example"},
	}
	assert.InDelta(t, 0.6, Score(cov), 1e-9)
}

func TestScore_NoBonusWhenCategoryMissing(t *testing.T) {
	cov := types.MarkerCoverage{
		"addition": {"moreover", "also", "besides"},
		"contrast": {},
	}
	assert.InDelta(t, 0.3, Score(cov), 1e-9)
}

func TestScore_CappedAtOne(t *testing.T) {
	cov := types.MarkerCoverage{
		"a": {"1", "2", "3", "4", "5", "6"},
		"b": {"7", "8", "9", "10", "11"},
	}
	assert.Equal(t, 1.0, Score(cov))
}

func TestScore_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Score(types.MarkerCoverage{}))
}

func TestMissing_SetOrder(t *testing.T) {
	cov := Coverage("Moreover, firstly we agree.", LinkingPhrases)
	assert.Equal(t, []string{"contrast", "cause_effect", "example", "conclusion"}, Missing(cov, LinkingPhrases))
}

func TestDiversity(t *testing.T) {
	cov := types.MarkerCoverage{"a": {"x"}, "b": {}, "c": {"y"}, "d": {}}
	assert.InDelta(t, 0.5, Diversity(cov), 1e-9)
	assert.Equal(t, 0.0, Diversity(types.MarkerCoverage{}))
}

func TestSet_Phrases(t *testing.T) {
	assert.Equal(t, []string{"however", "although", "despite", "nevertheless", "while"}, DiscourseMarkers.Phrases("contrast"))
	assert.Nil(t, DiscourseMarkers.Phrases("missing"))
}
