package components

import (
	"context"
	"math"
	"sort"

	"github.com/jonathan/essay-grader/internal/markers"
	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/types"
)

const (
	paragraphWeight   = 0.3
	linkingWeight     = 0.25
	referentialWeight = 0.25
	flowWeight        = 0.2

	fullParagraphCount = 5
	fullNounReferences = 10
	idealComplexRatio  = 0.3
	coherenceStrength  = 0.7
	maxReferencedNouns = 3

	// complexSentenceTokens is the token count a sentence must exceed to count as complex.
	complexSentenceTokens = 15
)

// CoherenceScores are the unit-interval subscores of the coherence component.
type CoherenceScores struct {
	ParagraphStructure  float64 `json:"paragraph_structure"`
	LinkingDevices      float64 `json:"linking_devices"`
	ReferentialCohesion float64 `json:"referential_cohesion"`
	LogicalFlow         float64 `json:"logical_flow"`
}

// Weighted combines the subscores.
func (s CoherenceScores) Weighted() float64 {
	return s.ParagraphStructure*paragraphWeight +
		s.LinkingDevices*linkingWeight +
		s.ReferentialCohesion*referentialWeight +
		s.LogicalFlow*flowWeight
}

// LinkingUsage counts linking devices per category, one per sentence and phrase.
type LinkingUsage struct {
	Total        int            `json:"total_linking_devices"`
	Distribution map[string]int `json:"device_distribution"`
	Diversity    float64        `json:"linking_diversity_score"`
}

// References tracks noun lemmas and pronouns across the text.
type References struct {
	NounCount    int            `json:"noun_reference_count"`
	TopNouns     map[string]int `json:"most_referenced_nouns"`
	PronounCount int            `json:"pronoun_usage"`
}

// Flow describes sentence length variation.
type Flow struct {
	AverageLength float64 `json:"average_sentence_length"`
	Variation     int     `json:"sentence_length_variation"`
	ComplexRatio  float64 `json:"complex_sentences_ratio"`
}

// ScoreCoherence scores paragraphing, linking devices, referential cohesion and the
// balance of simple and complex sentences. Text with no sentences is a *types.InputError.
func (a *Analyzer) ScoreCoherence(ctx context.Context, text string) (types.ComponentFeedback, error) {
	sentences, err := a.toolkit.Splitter.SplitSentences(ctx, text)
	if err != nil {
		a.degrade(types.ComponentCoherence, OpSplit, err)
		return neutralComponent(types.ComponentCoherence), nil
	}
	if len(sentences) == 0 {
		return types.ComponentFeedback{}, &types.InputError{Field: "text", Message: "no valid sentences found"}
	}

	paragraphs := Paragraphs(text)
	linking := Linking(sentences, markers.LinkingPhrases)
	refs := ReferenceChains(sentences)
	flow := SentenceFlow(sentences)

	scores := CoherenceScores{
		ParagraphStructure:  minOne(float64(len(paragraphs)) / fullParagraphCount),
		LinkingDevices:      minOne(linking.Diversity * 2),
		ReferentialCohesion: minOne(float64(refs.NounCount) / fullNounReferences),
		LogicalFlow:         minOne(1 - math.Abs(flow.ComplexRatio-idealComplexRatio)),
	}
	raw := scores.Weighted()

	return types.ComponentFeedback{
		Score: types.ComponentScore{
			Name: types.ComponentCoherence,
			Band: bandOf(raw),
			Raw:  raw,
			Detail: map[string]any{
				"scores":          scores,
				"paragraph_count": len(paragraphs),
				"paragraphs":      paragraphs,
				"linking_devices": linking,
				"references":      refs,
				"logical_flow":    flow,
			},
		},
		Feedback: coherenceFeedback(scores),
	}, nil
}

// Linking counts, for every sentence, each phrase of the set it contains.
func Linking(sentences []nlp.Sentence, set markers.Set) LinkingUsage {
	usage := LinkingUsage{Distribution: make(map[string]int, len(set))}
	for _, name := range set.Names() {
		usage.Distribution[name] = 0
	}
	for _, s := range sentences {
		for category, found := range markers.Coverage(s.Text, set) {
			usage.Distribution[category] += len(found)
			usage.Total += len(found)
		}
	}
	hit := 0
	for _, n := range usage.Distribution {
		if n > 0 {
			hit++
		}
	}
	usage.Diversity = ratio(hit, len(set))
	return usage
}

// ReferenceChains counts distinct noun lemmas and distinct pronoun forms.
func ReferenceChains(sentences []nlp.Sentence) References {
	nouns := map[string]int{}
	pronouns := map[string]bool{}
	for _, s := range sentences {
		for _, t := range s.Tokens {
			switch t.PartOfSpeech {
			case "NOUN":
				nouns[t.Lemma]++
			case "PRON":
				pronouns[t.Text] = true
			}
		}
	}

	lemmas := make([]string, 0, len(nouns))
	for l := range nouns {
		lemmas = append(lemmas, l)
	}
	sort.Slice(lemmas, func(i, j int) bool {
		if nouns[lemmas[i]] != nouns[lemmas[j]] {
			return nouns[lemmas[i]] > nouns[lemmas[j]]
		}
		return lemmas[i] < lemmas[j]
	})
	top := map[string]int{}
	for i, l := range lemmas {
		if i == maxReferencedNouns {
			break
		}
		top[l] = nouns[l]
	}
	return References{NounCount: len(nouns), TopNouns: top, PronounCount: len(pronouns)}
}

// SentenceFlow measures sentence lengths in tokens, punctuation included.
func SentenceFlow(sentences []nlp.Sentence) Flow {
	if len(sentences) == 0 {
		return Flow{}
	}
	total, complexCount := 0, 0
	shortest, longest := math.MaxInt, 0
	for _, s := range sentences {
		n := len(s.Tokens)
		total += n
		shortest = min(shortest, n)
		longest = max(longest, n)
		if n > complexSentenceTokens {
			complexCount++
		}
	}
	return Flow{
		AverageLength: ratio(total, len(sentences)),
		Variation:     longest - shortest,
		ComplexRatio:  ratio(complexCount, len(sentences)),
	}
}

type coherenceRule struct {
	category    string
	score       func(CoherenceScores) float64
	strength    string
	improvement string
	suggestions []string
}

var coherenceRules = []coherenceRule{
	{
		category:    "paragraph_structure",
		score:       func(s CoherenceScores) float64 { return s.ParagraphStructure },
		strength:    "Strong paragraph organization",
		improvement: "Consider developing clearer paragraph structures",
		suggestions: []string{
			"Ensure each paragraph has a clear topic sentence",
			"Maintain a consistent paragraph length",
			"Use a clear I-E-E (Idea, Explain, Example) structure",
		},
	},
	{
		category:    "linking_devices",
		score:       func(s CoherenceScores) float64 { return s.LinkingDevices },
		strength:    "Effective use of linking devices",
		improvement: "Improve variety and appropriateness of linking words",
		suggestions: []string{
			"Use linking words from different categories (addition, contrast, example, etc.)",
			"Avoid overusing linking words at the start of sentences",
			"Choose linking words that precisely match the relationship between ideas",
		},
	},
	{
		category:    "referential_cohesion",
		score:       func(s CoherenceScores) float64 { return s.ReferentialCohesion },
		strength:    "Good use of references to maintain text coherence",
		improvement: "Enhance cohesion through better use of references",
		suggestions: []string{
			"Use pronouns and noun references carefully to maintain clarity",
			"Ensure references are clear and unambiguous",
			"Avoid excessive repetition of nouns",
		},
	},
	{
		category:    "logical_flow",
		score:       func(s CoherenceScores) float64 { return s.LogicalFlow },
		strength:    "Clear and logical progression of ideas",
		improvement: "Work on improving the logical flow of your writing",
		suggestions: []string{
			"Vary sentence length to improve readability",
			"Ensure a logical sequence of ideas",
			"Use complex sentences strategically",
		},
	},
}

func coherenceFeedback(scores CoherenceScores) types.FeedbackBundle {
	fb := types.NewFeedbackBundle()
	for _, rule := range coherenceRules {
		if rule.score(scores) > coherenceStrength {
			fb.Strengths = append(fb.Strengths, rule.strength)
			continue
		}
		fb.Improvements = append(fb.Improvements, rule.improvement)
		fb.Suggestions[rule.category] = append([]string(nil), rule.suggestions...)
	}
	return fb
}
