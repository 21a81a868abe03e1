package components

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/essay-grader/internal/markers"
	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/types"
)

const (
	diversityWeight      = 0.3
	sophisticationWeight = 0.4
	academicWeight       = 0.3

	// longWordLength is the length a word must exceed to count as sophisticated.
	longWordLength     = 7
	shortSentenceWords = 10
	maxRepeatedWords   = 5

	lowDiversity      = 0.4
	moderateDiversity = 0.5
	lowLongWordRatio  = 0.1
	lowAcademicRatio  = 0.05
)

var basicWords = wordSet(
	"good", "bad", "big", "small", "happy", "sad", "nice", "many",
	"get", "make", "use", "thing", "very", "lot", "want", "need",
)

var academicWords = wordSet(
	"analysis", "approach", "assessment", "assume", "authority",
	"available", "benefit", "concept", "consistent", "constitutional",
	"context", "contract", "create", "data", "definition",
	"derived", "distribution", "economic", "environment", "established",
	"estimate", "evidence", "export", "factors", "financial",
	"formula", "function", "identified", "income", "indicate",
	"individual", "interpretation", "involved", "issues", "labor",
	"legal", "legislation", "major", "method", "occurred",
	"percent", "period", "policy", "principle", "procedure",
	"process", "required", "research", "response", "role",
	"section", "sector", "significant", "similar", "source",
	"specific", "structure", "theory", "variables", "welfare",
)

var alternatives = map[string][]string{
	"good":  {"excellent", "exceptional", "outstanding"},
	"bad":   {"inadequate", "unfavorable", "detrimental"},
	"big":   {"substantial", "significant", "considerable"},
	"small": {"minimal", "diminutive", "limited"},
	"very":  {"extremely", "significantly", "substantially"},
	"lot":   {"numerous", "substantial", "considerable"},
	"get":   {"obtain", "acquire", "attain"},
	"make":  {"establish", "generate", "develop"},
}

// suggestedLinking is offered when sentences are short or academic vocabulary is thin.
var suggestedLinking = markers.Set{
	{Name: "addition", Phrases: []string{"furthermore", "moreover", "additionally", "in addition"}},
	{Name: "contrast", Phrases: []string{"however", "nevertheless", "on the other hand", "conversely"}},
	{Name: "cause_effect", Phrases: []string{"consequently", "therefore", "as a result", "thus"}},
	{Name: "example", Phrases: []string{"for instance", "for example", "specifically", "in particular"}},
}

// LexicalProfile holds the vocabulary measurements of a text.
type LexicalProfile struct {
	TotalWords     int      `json:"total_words"`
	UniqueWords    int      `json:"unique_words"`
	DiversityRatio float64  `json:"diversity_ratio"`
	RepeatedWords  []string `json:"repeated_words"`
	AvgWordLength  float64  `json:"avg_word_length"`
	LongWordRatio  float64  `json:"long_words_ratio"`
	BasicWords     []string `json:"basic_words"`
	AcademicRatio  float64  `json:"academic_ratio"`
	AcademicUsed   []string `json:"academic_words_used"`
	SentenceCount  int      `json:"sentence_count"`
	AvgSentenceLen float64  `json:"avg_sentence_length"`
	ComplexCount   int      `json:"complex_sentences"`
	ShortSentences []string `json:"short_sentences"`
	Diversity      float64  `json:"diversity_score"`
	Sophistication float64  `json:"sophistication_score"`
	AcademicUsage  float64  `json:"academic_score"`
}

// ScoreLexical measures vocabulary range, word sophistication and academic usage.
// Text with no words is a *types.InputError.
func (a *Analyzer) ScoreLexical(ctx context.Context, text string) (types.ComponentFeedback, error) {
	sentences, err := a.toolkit.Splitter.SplitSentences(ctx, text)
	if err != nil {
		a.degrade(types.ComponentLexical, OpSplit, err)
		return neutralComponent(types.ComponentLexical), nil
	}
	profile := Profile(sentences)
	if profile.TotalWords == 0 {
		return types.ComponentFeedback{}, &types.InputError{Field: "text", Message: "no words to analyse"}
	}

	raw := profile.Diversity*diversityWeight +
		profile.Sophistication*sophisticationWeight +
		profile.AcademicUsage*academicWeight

	return types.ComponentFeedback{
		Score: types.ComponentScore{
			Name:   types.ComponentLexical,
			Band:   bandOf(raw),
			Raw:    raw,
			Detail: map[string]any{"profile": profile},
		},
		Feedback: lexicalFeedback(profile),
	}, nil
}

// Profile computes the lexical measurements of tagged sentences.
func Profile(sentences []nlp.Sentence) LexicalProfile {
	var (
		words   []string
		content []string
		lengths []int
		basic   []string
		profile LexicalProfile
	)
	academic := map[string]bool{}
	for _, s := range sentences {
		n := 0
		for _, t := range s.Tokens {
			if !t.IsAlpha {
				continue
			}
			n++
			w := strings.ToLower(t.Text)
			words = append(words, w)
			if !t.IsStop {
				content = append(content, w)
			}
			if basicWords[w] {
				basic = append(basic, w)
			}
			if academicWords[w] {
				academic[w] = true
				profile.AcademicRatio++
			}
		}
		lengths = append(lengths, n)
		if n < shortSentenceWords {
			profile.ShortSentences = append(profile.ShortSentences, s.Text)
		}
		if n > complexSentenceTokens {
			profile.ComplexCount++
		}
	}

	profile.TotalWords = len(words)
	profile.SentenceCount = len(sentences)
	profile.BasicWords = basic
	profile.RepeatedWords = mostRepeated(content, maxRepeatedWords)
	profile.AcademicUsed = sortedKeys(academic)
	if len(words) == 0 {
		profile.AcademicRatio = 0
		return profile
	}

	unique := map[string]bool{}
	chars, long := 0, 0
	for _, w := range words {
		unique[w] = true
		chars += len(w)
		if len(w) > longWordLength {
			long++
		}
	}
	total := 0
	for _, l := range lengths {
		total += l
	}

	profile.UniqueWords = len(unique)
	profile.DiversityRatio = ratio(len(unique), len(words))
	profile.AvgWordLength = ratio(chars, len(words))
	profile.LongWordRatio = ratio(long, len(words))
	profile.AcademicRatio /= float64(len(words))
	profile.AvgSentenceLen = ratio(total, len(lengths))

	profile.Diversity = minOne(profile.DiversityRatio * 2)
	profile.Sophistication = minOne(profile.LongWordRatio * 3)
	profile.AcademicUsage = minOne(profile.AcademicRatio * 5)
	return profile
}

func lexicalFeedback(p LexicalProfile) types.FeedbackBundle {
	fb := types.NewFeedbackBundle()

	switch {
	case p.DiversityRatio < lowDiversity:
		fb.Improvements = append(fb.Improvements, "Your vocabulary range needs improvement.")
		for _, w := range p.RepeatedWords {
			fb.Suggestions["repeated_words"] = append(fb.Suggestions["repeated_words"], replaceLine(w))
		}
	case p.DiversityRatio < moderateDiversity:
		fb.Strengths = append(fb.Strengths, "You have a good foundation in vocabulary usage.")
		fb.Improvements = append(fb.Improvements, "Try to incorporate more synonyms for common words.")
	default:
		fb.Strengths = append(fb.Strengths, "Excellent vocabulary diversity.")
	}

	if p.LongWordRatio < lowLongWordRatio {
		for _, w := range distinct(p.BasicWords) {
			fb.Suggestions["basic_vocabulary"] = append(fb.Suggestions["basic_vocabulary"], replaceLine(w))
		}
		fb.Improvements = append(fb.Improvements, "Consider using more sophisticated vocabulary.")
	} else {
		fb.Strengths = append(fb.Strengths, "Good use of sophisticated vocabulary.")
	}

	if p.AcademicRatio < lowAcademicRatio {
		fb.Suggestions["academic_language"] = linkingLines()
		fb.Improvements = append(fb.Improvements, "Try to incorporate more academic vocabulary.")
	} else {
		fb.Strengths = append(fb.Strengths, "Good use of academic vocabulary.")
	}

	if len(p.ShortSentences) > 0 {
		lines := make([]string, 0, maxQuotedSentences+len(suggestedLinking))
		for i, s := range p.ShortSentences {
			if i == maxQuotedSentences {
				break
			}
			lines = append(lines, fmt.Sprintf("Combine this short sentence with a neighbouring one: %q", s))
		}
		fb.Suggestions["sentence_structure"] = append(lines, linkingLines()...)
	}
	return fb
}

func replaceLine(word string) string {
	if alts := alternatives[word]; len(alts) > 0 {
		return fmt.Sprintf("Replace %q with %s", word, strings.Join(alts, ", "))
	}
	return fmt.Sprintf("Find synonyms for %q", word)
}

func linkingLines() []string {
	lines := make([]string, 0, len(suggestedLinking))
	for _, c := range suggestedLinking {
		lines = append(lines, fmt.Sprintf("Link ideas (%s): %s", humanize(c.Name), strings.Join(c.Phrases, ", ")))
	}
	return lines
}

// mostRepeated returns up to n words that occur more than once, most frequent first.
// Ties keep first-occurrence order.
func mostRepeated(words []string, n int) []string {
	counts := map[string]int{}
	var order []string
	for _, w := range words {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	var repeated []string
	for _, w := range order {
		if len(repeated) == n || counts[w] < 2 {
			break
		}
		repeated = append(repeated, w)
	}
	return repeated
}

func distinct(words []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
