// Package components implements the rubric component analyzers: task achievement,
// grammar, lexical resource, coherence and discourse marker coverage.
package components

import (
	"github.com/jonathan/essay-grader/internal/alignment"
	"github.com/jonathan/essay-grader/internal/feedback"
	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/observability"
	"github.com/jonathan/essay-grader/internal/types"
)

// Collaborator operations owned by this package.
const (
	OpTag           = "tag_tokens"
	OpSplit         = alignment.OpSplit
	OpAcceptability = "acceptability"
)

// neutralUnit replaces a unit-interval signal that could not be computed.
const neutralUnit = 0.5

// Deps are the collaborators and settings an Analyzer uses.
type Deps struct {
	Toolkit    nlp.Toolkit
	Thresholds feedback.Thresholds
	Logger     *observability.Logger
	Metrics    *observability.Metrics
}

// Analyzer runs the component analyzers. It is safe for concurrent use when its
// collaborators are.
type Analyzer struct {
	toolkit    nlp.Toolkit
	thresholds feedback.Thresholds
	alignment  *alignment.Scorer
	logger     *observability.Logger
	metrics    *observability.Metrics
}

// NewAnalyzer creates an Analyzer. Zero thresholds select feedback.DefaultThresholds.
func NewAnalyzer(deps Deps) *Analyzer {
	if deps.Logger == nil {
		deps.Logger = observability.NopLogger()
	}
	if deps.Thresholds == (feedback.Thresholds{}) {
		deps.Thresholds = feedback.DefaultThresholds()
	}
	return &Analyzer{
		toolkit:    deps.Toolkit,
		thresholds: deps.Thresholds,
		alignment: alignment.NewScorer(alignment.Deps{
			Classifier: deps.Toolkit.Classifier,
			Embedder:   deps.Toolkit.Embedder,
			Chunker:    deps.Toolkit.Chunker,
			Splitter:   deps.Toolkit.Splitter,
			Logger:     deps.Logger,
			Metrics:    deps.Metrics,
		}),
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}
}

func (a *Analyzer) degrade(component, operation string, err error) {
	cerr := &types.CollaboratorError{Operation: operation, Cause: err}
	a.logger.Warn("collaborator failed, using neutral signal",
		"component", component, "operation", operation, "error", cerr)
	a.metrics.IncCollaboratorFailure(operation)
}

func neutralComponent(name string) types.ComponentFeedback {
	fb := types.NewFeedbackBundle()
	fb.Improvements = append(fb.Improvements, "This component could not be fully analysed; the score is provisional")
	return types.ComponentFeedback{
		Score: types.ComponentScore{
			Name:     name,
			Band:     bandOf(neutralUnit),
			Raw:      neutralUnit,
			Degraded: true,
		},
		Feedback: fb,
	}
}
