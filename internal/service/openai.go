package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"roomie/internal/config"
	"roomie/internal/utils"
)

var thinkBlockRegex = regexp.MustCompile(`(?s)<think>.*?</think>`)

// OpenAIClient handles OpenAI-compatible chat completion APIs over plain HTTP
// (NVIDIA, DeepSeek, local gateways, ...)
type OpenAIClient struct {
	config     *config.OpenAIConfig
	httpClient *http.Client
	extraBody  map[string]any
	reasoning  bool // Provider may return reasoning alongside content
}

// NewOpenAIClient creates a new OpenAI-compatible client with auto-detection of provider
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	client := &OpenAIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}

	if IsNVIDIAProvider(cfg.APIBase) {
		client.reasoning = true
		log.Printf("🔧 Detected NVIDIA API provider (supports reasoning/thinking)")
	} else {
		log.Printf("🔧 Using standard OpenAI format for: %s", cfg.APIBase)
	}

	if cfg.ChatExtraBody != "" {
		var extraBody map[string]any
		if err := json.Unmarshal([]byte(cfg.ChatExtraBody), &extraBody); err == nil {
			client.extraBody = extraBody
			utils.Debugf("✅ ChatExtraBody parsed successfully: %+v", extraBody)
		} else {
			log.Printf("Warning: Failed to parse OPENAI_CHAT_EXTRA_BODY: %v", err)
		}
	}

	return client
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model       string         `json:"model"`
	Messages    []Message      `json:"messages"`
	Temperature float64        `json:"temperature,omitempty"`
	TopP        float64        `json:"top_p,omitempty"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	ExtraBody   map[string]any `json:"extra_body,omitempty"` // e.g. {"chat_template_kwargs": {"thinking": false}}
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role             string  `json:"role"`
			Content          string  `json:"content"`
			ReasoningContent *string `json:"reasoning_content,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends the messages and returns the first choice's text
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, params SamplingParams) (string, error) {
	req := ChatCompletionRequest{
		Messages:    messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	resp, err := c.ChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	choice := resp.Choices[0].Message
	if c.reasoning && choice.ReasoningContent != nil {
		utils.Debugf("💭 Reasoning: %d chars", len(*choice.ReasoningContent))
	}

	content := strings.TrimSpace(thinkBlockRegex.ReplaceAllString(choice.Content, ""))
	utils.Debugf("📝 Completion (%d tokens): %s", resp.Usage.TotalTokens, content)
	return content, nil
}

// ChatCompletion performs a chat completion request
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("OpenAI API is not enabled (missing API key)")
	}

	// Use configured model if not specified
	if req.Model == "" {
		req.Model = c.config.ChatModel
	}

	// Apply default parameters from config
	if req.Temperature == 0 && c.config.ChatTemperature > 0 {
		req.Temperature = c.config.ChatTemperature
	}
	if req.TopP == 0 && c.config.ChatTopP > 0 {
		req.TopP = c.config.ChatTopP
	}
	if req.MaxTokens == 0 && c.config.ChatMaxTokens > 0 {
		req.MaxTokens = c.config.ChatMaxTokens
	}
	if req.ExtraBody == nil {
		req.ExtraBody = c.extraBody
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}
