// Package openai extracts candidate profile fields with the OpenAI chat
// completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/ai"
	"github.com/spigell/intern-match/internal/utils"
)

const (
	DefaultModel        = "gpt-4o-mini"
	defaultMaxLogLength = 200
)

type completer interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type Extractor struct {
	completions completer
	model       string
	maxLogLen   int
	logger      *zap.Logger
}

// NewExtractor builds an extractor backed by a real API client.
func NewExtractor(apiKey, model string, maxLogLength int, logger *zap.Logger) (*Extractor, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return newExtractor(&client.Chat.Completions, model, maxLogLength, logger), nil
}

func newExtractor(completions completer, model string, maxLogLength int, logger *zap.Logger) *Extractor {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		completions: completions,
		model:       model,
		maxLogLen:   maxLogLength,
		logger:      logger,
	}
}

func (e *Extractor) Model() string {
	return e.model
}

func (e *Extractor) ExtractProfile(ctx context.Context, text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("resume text must not be empty")
	}

	e.logger.Debug("openai chat completion request",
		zap.String("model", e.model),
		zap.String("text_preview", utils.TruncateForLog(text, e.maxLogLen)),
	)

	completion, err := e.completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(ai.Instruction),
			openai.UserMessage(text),
		},
		Model: openai.ChatModel(e.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return nil, errors.New("no response from openai")
	}

	content := completion.Choices[0].Message.Content
	e.logger.Debug("openai chat completion response",
		zap.String("response_preview", utils.TruncateForLog(content, e.maxLogLen)),
	)

	return ai.ParseObject(content)
}

var _ ai.ProfileExtractor = (*Extractor)(nil)
