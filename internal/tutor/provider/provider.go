// Package provider talks to the external AI collaborator that generates
// tutoring problems, evaluates student attempts, and summarizes mistake
// archives into study reports.
package provider

import (
	"context"

	"github.com/verlato/mathtutor/internal/tutor/models"
)

// Client is the collaborator contract.
//
// GenerateProblem must populate content, source, Feynman explanation,
// standard solution, and difficulty. Evaluate returns the assistant's reply
// to the newest attempt, given the conversation so far. Summarize turns an
// archive into a study-plan report.
type Client interface {
	GenerateProblem(ctx context.Context, topic models.Topic) (*models.Problem, error)
	Evaluate(ctx context.Context, problem *models.Problem, history []models.Message, attachment *models.Attachment, text string) (string, error)
	Summarize(ctx context.Context, mistakes []models.Problem) (string, error)
}
