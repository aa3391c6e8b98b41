package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/veritas-dev/veritas/internal/compare"
	"github.com/veritas-dev/veritas/internal/extract"
)

// Config configures the OpenAI-compatible judge client.
type Config struct {
	APIKey      string
	BaseURL     string // optional, for OpenAI-compatible endpoints
	Model       string
	MaxRetries  int
	Temperature float32
}

// DefaultModel is used when the configuration names none.
const DefaultModel = "gpt-4o-mini"

type openAIJudge struct {
	client      *openai.Client
	model       string
	maxRetries  int
	temperature float32
}

// NewOpenAI builds a judge backed by an OpenAI-compatible chat endpoint.
func NewOpenAI(cfg Config) (compare.Judge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("judge: API key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 2
	}
	return &openAIJudge{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxRetries:  retries,
		temperature: cfg.Temperature,
	}, nil
}

func (j *openAIJudge) Judge(ctx context.Context, code extract.CodeUnit, doc extract.DocUnit) (compare.JudgeResult, error) {
	prompt := buildPrompt(code, doc)

	var content string
	err := retryWithBackoff(ctx, j.maxRetries, func() error {
		resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       j.model,
			Temperature: j.temperature,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty completion")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return compare.JudgeResult{}, fmt.Errorf("judge call for %s: %w", code.Name, err)
	}

	result, err := parseResponse(content)
	if err != nil {
		slog.Debug("unparseable judge response", "function", code.Name, "error", err)
		return compare.JudgeResult{}, err
	}
	return result, nil
}

// retryWithBackoff retries fn with exponential backoff, honoring context
// cancellation between attempts. Context errors are never retried.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}

type rawResponse struct {
	Confidence float64    `json:"confidence"`
	Issues     []rawIssue `json:"issues"`
}

type rawIssue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// parseResponse extracts a judgment from model output. Models wrap JSON in
// markdown fences or surrounding prose often enough that both are stripped
// before unmarshalling.
func parseResponse(content string) (compare.JudgeResult, error) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) >= 2 {
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			content = strings.Join(lines[1:end], "\n")
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return compare.JudgeResult{}, fmt.Errorf("%w: no JSON object found", compare.ErrMalformedResponse)
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return compare.JudgeResult{}, fmt.Errorf("%w: %v", compare.ErrMalformedResponse, err)
	}

	result := compare.JudgeResult{
		Confidence: compare.ClampConfidence(raw.Confidence),
		Issues:     make([]compare.Issue, 0, len(raw.Issues)),
	}
	for _, ri := range raw.Issues {
		issue := compare.Issue{
			Type:        normalizeType(ri.Type),
			Severity:    normalizeSeverity(ri.Severity),
			Description: ri.Description,
			Suggestion:  ri.Suggestion,
		}
		result.Issues = append(result.Issues, issue)
	}
	return result, nil
}

func normalizeType(t string) compare.DiscrepancyType {
	switch compare.DiscrepancyType(strings.ToLower(strings.TrimSpace(t))) {
	case compare.TypeMissingDocumentation,
		compare.TypeFunctionSignature,
		compare.TypeParameterType,
		compare.TypeReturnType,
		compare.TypeOutdatedExample,
		compare.TypeDeprecatedUsage:
		return compare.DiscrepancyType(strings.ToLower(strings.TrimSpace(t)))
	default:
		return compare.TypeFunctionSignature
	}
}

func normalizeSeverity(s string) compare.Severity {
	switch compare.Severity(strings.ToLower(strings.TrimSpace(s))) {
	case compare.SeverityLow, compare.SeverityMedium, compare.SeverityHigh, compare.SeverityCritical:
		return compare.Severity(strings.ToLower(strings.TrimSpace(s)))
	default:
		return ""
	}
}
