package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"roomie/internal/config"
)

// OpenAISDKClient talks to api.openai.com through the official SDK
type OpenAISDKClient struct {
	config *config.OpenAIConfig
	client openai.Client
}

// NewOpenAISDKClient creates a client for the official OpenAI API
func NewOpenAISDKClient(cfg *config.OpenAIConfig) *OpenAISDKClient {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.APIBase+"/"),
		option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Second),
		option.WithMaxRetries(0),
	)
	return &OpenAISDKClient{config: cfg, client: client}
}

// Complete sends the messages and returns the first choice's text
func (c *OpenAISDKClient) Complete(ctx context.Context, messages []Message, params SamplingParams) (string, error) {
	if !c.config.Enabled {
		return "", fmt.Errorf("OpenAI API is not enabled (missing API key)")
	}

	req := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.config.ChatModel),
		Messages: toSDKMessages(messages),
	}

	temperature := params.Temperature
	if temperature == 0 {
		temperature = c.config.ChatTemperature
	}
	if temperature > 0 {
		req.Temperature = openai.Float(temperature)
	}
	maxTokens := params.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.ChatMaxTokens
	}
	if maxTokens > 0 {
		req.MaxTokens = openai.Int(int64(maxTokens))
	}
	if c.config.ChatTopP > 0 {
		req.TopP = openai.Float(c.config.ChatTopP)
	}

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func toSDKMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
