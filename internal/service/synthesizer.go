package service

import (
	"context"
	"fmt"
	"strings"

	"roomie/internal/model"
)

const assistantPersona = "You are Roomie's travel assistant. Roomie is a platform for booking hotel rooms and other accommodations."

// toneDirectives set the register of the final answer per intent
var toneDirectives = map[model.Intent]string{
	model.IntentRecommendation: "Recommend the most suitable options from the data below in a friendly, concise way. Mention prices and key facilities.",
	model.IntentComparison:     "Compare the accommodations below side by side (price, facilities, rating) and say which suits which kind of guest.",
	model.IntentFacilities:     "Describe the facilities of the accommodation below in a short, helpful answer.",
	model.IntentPrice:          "Answer the pricing question using the data below. Be precise about the numbers.",
	model.IntentPlatformInfo:   "Answer the question about Roomie using only the platform information below.",
	model.IntentGeneral:        "Answer the general travel or accommodation question briefly and helpfully.",
}

// hedgePhrases mark answers where the model admits it lacks information
var hedgePhrases = []string{
	"i don't know",
	"i do not know",
	"i couldn't find",
	"i could not find",
	"i'm not sure",
	"i am not sure",
	"i do not have",
	"i don't have",
	"i'm unable to",
	"i am unable to",
	"no information available",
}

// Synthesizer turns grounding blocks into the user-facing answer
type Synthesizer struct {
	completer Completer
}

// NewSynthesizer creates a new response synthesizer
func NewSynthesizer(completer Completer) *Synthesizer {
	return &Synthesizer{completer: completer}
}

// Synthesize answers message for intent from the grounding block (which may be
// empty for the general intent). Hedging answers are replaced by ReplyApology.
func (s *Synthesizer) Synthesize(ctx context.Context, intent model.Intent, message, grounding string) (string, error) {
	directive, ok := toneDirectives[intent]
	if !ok {
		directive = toneDirectives[model.IntentGeneral]
	}

	user := message
	if grounding != "" {
		user = fmt.Sprintf("Question: %s\n\nData:\n%s", message, grounding)
	}

	answer, err := s.completer.Complete(ctx, []Message{
		{Role: RoleSystem, Content: assistantPersona + " " + directive},
		{Role: RoleUser, Content: user},
	}, synthesizeParams)
	if err != nil {
		return "", fmt.Errorf("response synthesis failed: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" || IsHedging(answer) {
		return ReplyApology, nil
	}
	return answer, nil
}

// Decline produces the polite out-of-scope answer
func (s *Synthesizer) Decline(ctx context.Context, message string) (string, error) {
	answer, err := s.completer.Complete(ctx, []Message{
		{Role: RoleSystem, Content: assistantPersona + " You only answer questions about accommodations listed on Roomie. Politely decline anything else in one or two sentences and suggest what you can help with."},
		{Role: RoleUser, Content: message},
	}, declineParams)
	if err != nil {
		return "", fmt.Errorf("decline completion failed: %w", err)
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return ReplyDecline, nil
	}
	return answer, nil
}

// IsHedging reports whether an answer contains a hedging phrase
func IsHedging(answer string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(answer, "’", "'"))
	for _, phrase := range hedgePhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
