package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/essay-grader/internal/prompts"
)

// AcceptabilityJudge scores sentences for grammatical acceptability in the style of a
// CoLA classifier.
type AcceptabilityJudge struct {
	client Client
	tier   ModelTier
}

// NewAcceptabilityJudge creates a judge on the lite tier.
func NewAcceptabilityJudge(client Client) *AcceptabilityJudge {
	return &AcceptabilityJudge{client: client, tier: TierLite}
}

type acceptabilityResponse struct {
	Acceptability *float64 `json:"acceptability"`
}

// Acceptability returns the probability in [0, 1] that the sentence is acceptable.
func (j *AcceptabilityJudge) Acceptability(ctx context.Context, sentence string) (float64, error) {
	prompt, err := prompts.Render("grading.json", "judge-acceptability", map[string]string{
		"Sentence": sentence,
	})
	if err != nil {
		return 0, err
	}

	jsonResp, err := j.client.GenerateJSON(ctx, prompt, j.tier)
	if err != nil {
		return 0, fmt.Errorf("LLM generation failed: %w", err)
	}
	jsonResp = CleanJSONBlock(jsonResp)

	var response acceptabilityResponse
	if err := json.Unmarshal([]byte(jsonResp), &response); err != nil {
		return 0, fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, jsonResp)
	}
	if response.Acceptability == nil {
		return 0, fmt.Errorf("LLM response missing acceptability (content: %s)", jsonResp)
	}
	return clampProbability(*response.Acceptability), nil
}
