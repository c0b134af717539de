package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verlato/mathtutor/internal/shared"
	"github.com/verlato/mathtutor/internal/tutor/models"
)

// HTTPClient is a Client over a JSON-over-HTTP provider endpoint. Timeout
// semantics are owned here; callers get context cancellation only.
type HTTPClient struct {
	endpoint string
	model    string
	http     *http.Client

	// now is a test seam for problem-id derivation.
	now func() time.Time
}

// NewHTTPClient builds a provider client for the given endpoint and model
// name. The timeout bounds each individual request.
func NewHTTPClient(endpoint, model string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		model:    model,
		http:     &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", shared.ErrorProviderFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", shared.ErrorProviderFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrorProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", shared.ErrorProviderFailure, resp.StatusCode, data)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", shared.ErrorProviderFailure, err)
	}
	return nil
}

type generateRequest struct {
	Model string `json:"model"`
	Topic string `json:"topic"`
}

type generateResponse struct {
	Content     string `json:"content"`
	Source      string `json:"source"`
	Explanation string `json:"explanation"`
	Solution    string `json:"solution"`
	Difficulty  string `json:"difficulty"`
}

// GenerateProblem requests a fresh exercise for the (already resolved,
// concrete) topic. The returned problem carries a time-derived id and no
// chat history.
func (c *HTTPClient) GenerateProblem(ctx context.Context, topic models.Topic) (*models.Problem, error) {
	var out generateResponse
	if err := c.post(ctx, "/v1/problems", generateRequest{Model: c.model, Topic: string(topic)}, &out); err != nil {
		return nil, err
	}
	if out.Content == "" {
		return nil, fmt.Errorf("%w: empty problem content", shared.ErrorProviderFailure)
	}

	return &models.Problem{
		ID:                 models.NewProblemID(c.now()),
		Topic:              topic,
		Content:            out.Content,
		Source:             out.Source,
		FeynmanExplanation: out.Explanation,
		StandardSolution:   out.Solution,
		Difficulty:         out.Difficulty,
	}, nil
}

type evaluateRequest struct {
	Model      string             `json:"model"`
	Problem    string             `json:"problem"`
	Solution   string             `json:"solution,omitempty"`
	History    []models.Message   `json:"history,omitempty"`
	Text       string             `json:"text,omitempty"`
	Attachment *models.Attachment `json:"attachment,omitempty"`
}

type evaluateResponse struct {
	Reply string `json:"reply"`
}

// Evaluate submits the newest attempt together with the conversation so far
// and returns the assistant's reply text.
func (c *HTTPClient) Evaluate(ctx context.Context, problem *models.Problem, history []models.Message, attachment *models.Attachment, text string) (string, error) {
	in := evaluateRequest{
		Model:      c.model,
		Problem:    problem.Content,
		Solution:   problem.StandardSolution,
		History:    history,
		Text:       text,
		Attachment: attachment,
	}
	var out evaluateResponse
	if err := c.post(ctx, "/v1/evaluations", in, &out); err != nil {
		return "", err
	}
	if out.Reply == "" {
		return "", fmt.Errorf("%w: empty reply", shared.ErrorProviderFailure)
	}
	return out.Reply, nil
}

type summarizeRequest struct {
	Model    string   `json:"model"`
	Problems []string `json:"problems"`
	Topics   []string `json:"topics"`
}

type summarizeResponse struct {
	Report string `json:"report"`
}

// Summarize turns the archived mistakes into a study-plan report.
func (c *HTTPClient) Summarize(ctx context.Context, mistakes []models.Problem) (string, error) {
	in := summarizeRequest{Model: c.model}
	for _, p := range mistakes {
		in.Problems = append(in.Problems, p.Content)
		in.Topics = append(in.Topics, string(p.Topic))
	}

	var out summarizeResponse
	if err := c.post(ctx, "/v1/reports", in, &out); err != nil {
		return "", err
	}
	if out.Report == "" {
		return "", fmt.Errorf("%w: empty report", shared.ErrorProviderFailure)
	}
	return out.Report, nil
}
