package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/verlato/mathtutor/internal/logging"
	"github.com/verlato/mathtutor/internal/tutor/models"
)

// Fixed fallback texts returned when the collaborator fails. Failures are
// swallowed at this boundary and converted into valid-but-unhelpful results,
// so navigation never has to model a "generation failed" state.
const (
	EvaluateFallback  = "Sorry, I can't review your attempt right now. Please try again in a moment."
	SummarizeNoData   = "No archived mistakes to analyze yet."
	SummarizeFallback = "The study report is unavailable right now. Please try again later."
)

// Resilient wraps a Client and never propagates provider errors upward.
type Resilient struct {
	inner Client
	log   logging.Logger

	now func() time.Time
}

// NewResilient wraps inner with the degrading error policy.
func NewResilient(inner Client, log logging.Logger) *Resilient {
	return &Resilient{inner: inner, log: log, now: time.Now}
}

// GenerateProblem returns the inner result, or on failure a degraded problem
// whose content is a human-readable error message. Callers must treat the
// degraded problem as a valid result, not an error channel.
func (r *Resilient) GenerateProblem(ctx context.Context, topic models.Topic) (*models.Problem, error) {
	p, err := r.inner.GenerateProblem(ctx, topic)
	if err != nil {
		r.log.Warn(ctx, "problem generation degraded", "topic", topic, "error", err)
		return &models.Problem{
			ID:      models.NewProblemID(r.now()),
			Topic:   topic,
			Content: fmt.Sprintf("The problem service is unavailable (%v). Please try this topic again later.", err),
		}, nil
	}
	return p, nil
}

// Evaluate returns the inner reply, or a fixed apologetic string on failure.
func (r *Resilient) Evaluate(ctx context.Context, problem *models.Problem, history []models.Message, attachment *models.Attachment, text string) (string, error) {
	reply, err := r.inner.Evaluate(ctx, problem, history, attachment, text)
	if err != nil {
		r.log.Warn(ctx, "evaluation degraded", "problem_id", problem.ID, "error", err)
		return EvaluateFallback, nil
	}
	return reply, nil
}

// Summarize short-circuits empty input to a fixed "no data" string without
// calling the collaborator; provider failures degrade to a fixed fallback.
func (r *Resilient) Summarize(ctx context.Context, mistakes []models.Problem) (string, error) {
	if len(mistakes) == 0 {
		return SummarizeNoData, nil
	}
	report, err := r.inner.Summarize(ctx, mistakes)
	if err != nil {
		r.log.Warn(ctx, "summary degraded", "mistakes", len(mistakes), "error", err)
		return SummarizeFallback, nil
	}
	return report, nil
}
