package scoring

// Signals are the inputs of the task achievement band.
type Signals struct {
	TopicAdherence float64
	WordCountOK    bool
	// Alignment is nil when the essay has no question context.
	Alignment *float64
}

// Task achievement weights.
const (
	alignedTopicWeight     = 0.3
	alignedWordCountWeight = 0.1
	alignedAlignmentWeight = 0.3
	// alignedCoherenceWeight is reserved; coherence is scored by its own component.
	alignedCoherenceWeight = 0.0

	topicOnlyTopicWeight     = 0.5
	topicOnlyWordCountWeight = 0.2

	wordCountMetScore   = 1.0
	wordCountShortScore = 0.5
)

// WeightingScheme selects how task achievement signals are weighted.
// It is one of WithAlignment or WithoutAlignment.
type WeightingScheme interface {
	// Weights returns the weight of each named signal.
	Weights() map[string]float64
	weighted(topic, wordCount float64) float64
}

// WithAlignment weights topic, word count and question alignment.
type WithAlignment struct {
	Alignment float64
}

// Weights implements WeightingScheme.
func (WithAlignment) Weights() map[string]float64 {
	return map[string]float64{
		"topic":      alignedTopicWeight,
		"word_count": alignedWordCountWeight,
		"alignment":  alignedAlignmentWeight,
		"coherence":  alignedCoherenceWeight,
	}
}

func (w WithAlignment) weighted(topic, wordCount float64) float64 {
	return topic*alignedTopicWeight + wordCount*alignedWordCountWeight + w.Alignment*alignedAlignmentWeight
}

// WithoutAlignment weights topic and word count only.
type WithoutAlignment struct{}

// Weights implements WeightingScheme.
func (WithoutAlignment) Weights() map[string]float64 {
	return map[string]float64{
		"topic":      topicOnlyTopicWeight,
		"word_count": topicOnlyWordCountWeight,
	}
}

func (WithoutAlignment) weighted(topic, wordCount float64) float64 {
	return topic*topicOnlyTopicWeight + wordCount*topicOnlyWordCountWeight
}

// SelectScheme picks the scheme for a request once, from whether alignment was measured.
func SelectScheme(s Signals) WeightingScheme {
	if s.Alignment != nil {
		return WithAlignment{Alignment: *s.Alignment}
	}
	return WithoutAlignment{}
}

// WordCountScore is 1 when the length requirement is met and 0.5 otherwise.
func WordCountScore(ok bool) float64 {
	if ok {
		return wordCountMetScore
	}
	return wordCountShortScore
}

// TaskBand computes the task achievement band under an explicit scheme.
// A nil scheme falls back to SelectScheme.
func TaskBand(s Signals, scheme WeightingScheme) float64 {
	if scheme == nil {
		scheme = SelectScheme(s)
	}
	weighted := scheme.weighted(s.TopicAdherence, WordCountScore(s.WordCountOK))
	return Normalize(MinBand + weighted*bandSpan)
}

// BandScore selects the scheme from the signals and computes the task achievement band.
func BandScore(s Signals) float64 {
	return TaskBand(s, SelectScheme(s))
}
