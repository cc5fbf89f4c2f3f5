package service

import (
	"log"
	"strings"

	"roomie/internal/config"
)

// IsOpenAIProvider checks if the base URL is official OpenAI API
func IsOpenAIProvider(baseURL string) bool {
	return strings.Contains(baseURL, "api.openai.com")
}

// IsNVIDIAProvider checks if the base URL is NVIDIA API
func IsNVIDIAProvider(baseURL string) bool {
	return strings.Contains(baseURL, "integrate.api.nvidia.com")
}

// NewCompleter picks the completion provider for the configured base URL:
// the official SDK for OpenAI itself, the plain HTTP client for everything else
func NewCompleter(cfg *config.OpenAIConfig) Completer {
	if IsOpenAIProvider(cfg.APIBase) {
		log.Printf("🔧 Detected OpenAI API provider, using official SDK")
		return NewOpenAISDKClient(cfg)
	}
	return NewOpenAIClient(cfg)
}
