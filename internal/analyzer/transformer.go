package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"headline-radar/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultBatchSize = 24

type chatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// TransformerAnalyzer delegates scoring to a hosted transformer model.
// It returns a probability-of-positive per headline on a [0, 1] native
// scale. Headlines lost to transport or parse failures stay unscored so
// the aggregator excludes the model for them instead of seeing zeros.
type TransformerAnalyzer struct {
	client    chatClient
	model     string
	batchSize int
}

// NewTransformerAnalyzer returns nil when no API key is configured; the
// cycle then runs on the two lexicon models alone.
func NewTransformerAnalyzer(apiKey, model string) *TransformerAnalyzer {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &TransformerAnalyzer{
		client:    &openAIChat{client: client},
		model:     model,
		batchSize: defaultBatchSize,
	}
}

func (a *TransformerAnalyzer) Name() domain.ModelName { return domain.ModelFinancialTransformer }

func (a *TransformerAnalyzer) NativeRange() domain.NativeRange {
	return domain.NativeRange{Min: 0, Max: 1}
}

func (a *TransformerAnalyzer) Score(ctx context.Context, headlines []domain.Headline) ([]domain.RawScore, error) {
	if a == nil || a.client == nil || len(headlines) == 0 {
		return nil, nil
	}

	out := make([]domain.RawScore, 0, len(headlines))
	for start := 0; start < len(headlines); start += a.batchSize {
		end := start + a.batchSize
		if end > len(headlines) {
			end = len(headlines)
		}
		scored, err := a.scoreBatch(ctx, headlines[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			// Degraded batch: those headlines go unscored by this model.
			continue
		}
		out = append(out, scored...)
	}
	return out, nil
}

func (a *TransformerAnalyzer) scoreBatch(ctx context.Context, batch []domain.Headline) ([]domain.RawScore, error) {
	var sb strings.Builder
	for i, h := range batch {
		sb.WriteString(fmt.Sprintf("idx=%d ticker=%s title=%s\n", i, h.Ticker, strings.TrimSpace(h.Title)))
	}

	systemPrompt := "You rate financial news headlines. Return ONLY a JSON array. Each object requires: idx (int), p_up (number 0..1, probability the headline is positive for the stock). No markdown."
	userPrompt := "Headlines:\n" + sb.String()

	completion, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty completion")
	}

	raw := trimCodeFence(completion.Choices[0].Message.Content)

	var parsed []struct {
		Idx int     `json:"idx"`
		PUp float64 `json:"p_up"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse transformer response: %w", err)
	}

	scores := make([]domain.RawScore, 0, len(parsed))
	for _, row := range parsed {
		if row.Idx < 0 || row.Idx >= len(batch) {
			continue
		}
		scores = append(scores, domain.RawScore{
			HeadlineID: batch[row.Idx].ID,
			Model:      a.Name(),
			Value:      row.PUp,
			Range:      a.NativeRange(),
		})
	}
	return scores, nil
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}

type openAIChat struct {
	client openai.Client
}

func (c *openAIChat) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
