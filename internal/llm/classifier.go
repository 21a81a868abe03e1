package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/prompts"
)

// ElementClassifier performs zero-shot multi-label classification of essay elements.
type ElementClassifier struct {
	client Client
	tier   ModelTier
}

// NewElementClassifier creates a classifier on the standard tier.
func NewElementClassifier(client Client) *ElementClassifier {
	return &ElementClassifier{client: client, tier: TierStandard}
}

type classificationResponse struct {
	Scores map[string]float64 `json:"scores"`
}

// ClassifyElements returns an independent probability for every label, in label order.
// Labels the model omits score 0.
func (c *ElementClassifier) ClassifyElements(ctx context.Context, text string, labels []string) (nlp.Classification, error) {
	if len(labels) == 0 {
		return nlp.Classification{}, nil
	}

	prompt, err := prompts.Render("grading.json", "classify-elements", map[string]string{
		"Labels": "- " + strings.Join(labels, "\n- "),
		"Text":   text,
	})
	if err != nil {
		return nlp.Classification{}, err
	}

	jsonResp, err := c.client.GenerateJSON(ctx, prompt, c.tier)
	if err != nil {
		return nlp.Classification{}, fmt.Errorf("LLM generation failed: %w", err)
	}
	jsonResp = CleanJSONBlock(jsonResp)

	var response classificationResponse
	if err := json.Unmarshal([]byte(jsonResp), &response); err != nil {
		return nlp.Classification{}, fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, jsonResp)
	}

	result := nlp.Classification{
		Labels: append([]string(nil), labels...),
		Scores: make([]float64, len(labels)),
	}
	for i, label := range labels {
		result.Scores[i] = clampProbability(response.Scores[label])
	}
	return result, nil
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
