// Package deepseek implements the external classification strategy
// against a DeepSeek (OpenAI-compatible) chat completions API.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nikhilsomani/logsift/internal/config"
	"github.com/nikhilsomani/logsift/pkg/models"
)

const systemPrompt = `You are a log analysis assistant. Given logs, respond as strict JSON with keys: severity (one of: info, low, medium, high, critical), root_cause, proposed_solution. Be concise but specific.`

// Provider calls a DeepSeek-compatible chat completions endpoint.
// A single attempt per classification; the caller owns the timeout via
// the request context.
type Provider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewProvider(cfg config.DeepSeekConfig) *Provider {
	return &Provider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: 0}, // context controls cancellation
	}
}

func (p *Provider) Name() string { return "deepseek" }

// Classify sends the masked text with a fixed instruction and parses the
// strict-JSON three-field reply. Any transport, auth, or parse problem
// is returned as an error; the caller decides how to degrade.
func (p *Provider) Classify(ctx context.Context, maskedText string) (models.ClassificationResult, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Analyze the following logs and return JSON.\n\n" + maskedText},
		},
		Temperature: 0.2,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("calling deepseek: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.ClassificationResult{}, fmt.Errorf("deepseek status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return models.ClassificationResult{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return models.ClassificationResult{}, fmt.Errorf("deepseek returned no choices")
	}

	return parseContent(chatResp.Choices[0].Message.Content)
}

// parseContent decodes the model's reply, tolerating a fenced code block
// around the JSON, and validates the required fields.
func parseContent(content string) (models.ClassificationResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed struct {
		Severity         models.Severity `json:"severity"`
		RootCause        string          `json:"root_cause"`
		ProposedSolution string          `json:"proposed_solution"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return models.ClassificationResult{}, fmt.Errorf("malformed classification reply: %w", err)
	}
	if !models.ValidSeverity(parsed.Severity) {
		return models.ClassificationResult{}, fmt.Errorf("malformed classification reply: unknown severity %q", parsed.Severity)
	}
	if parsed.RootCause == "" {
		return models.ClassificationResult{}, fmt.Errorf("malformed classification reply: missing root_cause")
	}

	return models.ClassificationResult{
		Severity:         parsed.Severity,
		RootCause:        parsed.RootCause,
		ProposedSolution: parsed.ProposedSolution,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
