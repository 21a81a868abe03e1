package llm

import "github.com/jonathan/essay-grader/internal/nlp"

// NewToolkit wires the Gemini-backed collaborators with the local prose tagger.
func NewToolkit(client Client, embeddingCacheSize int) (nlp.Toolkit, error) {
	embedder, err := NewCachedEmbedder(client, embeddingCacheSize)
	if err != nil {
		return nlp.Toolkit{}, err
	}
	local := nlp.NewProseAnalyzer()
	return nlp.Toolkit{
		Classifier:    NewElementClassifier(client),
		Embedder:      embedder,
		Tagger:        local,
		Chunker:       local,
		Splitter:      local,
		Acceptability: NewAcceptabilityJudge(client),
	}, nil
}
